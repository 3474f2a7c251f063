package browser

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Block reasons used in screenshot names.
const (
	ReasonCloudflare = "cloudflare"
	ReasonChallenge  = "challenge"
	ReasonCaptcha    = "captcha"
)

const maxShotURLPart = 60

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// BlockRecorder keeps evidence of bot protection for one site. Screenshots go
// to <dir>/<site>/ so repeated runs against the same board sit together.
type BlockRecorder struct {
	dir  string
	site string
	now  func() time.Time
}

func NewBlockRecorder(dir, site string) *BlockRecorder {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	site = fileSafe(site)
	if site == "" {
		site = "unknown"
	}
	return &BlockRecorder{dir: filepath.Join(dir, site), site: site, now: time.Now}
}

// Path names the screenshot for a block on pageURL:
// <timestamp>_<reason>_<host-and-path>.png.
func (b *BlockRecorder) Path(reason, pageURL string) string {
	name := b.now().Format("2006-01-02_15-04-05") + "_" + fileSafe(reason)
	if part := urlPart(pageURL); part != "" {
		name += "_" + part
	}
	return filepath.Join(b.dir, name+".png")
}

// Record screenshots page and returns the file it wrote. A failed capture is
// logged and returned; callers treat it as best effort.
func (b *BlockRecorder) Record(page playwright.Page, reason string) (string, error) {
	pageURL := page.URL()
	log.Printf("🚨 %s: blocked (%s) at %s", b.site, reason, pageURL)

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		log.Printf("⚠️ Could not create screenshot dir %s: %v", b.dir, err)
		return "", err
	}
	path := b.Path(reason, pageURL)
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return "", fmt.Errorf("screenshot %s: %w", path, err)
	}

	log.Printf("   📸 Screenshot saved: %s", path)
	return path, nil
}

func urlPart(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	part := fileSafe(host + u.Path)
	if len(part) > maxShotURLPart {
		part = strings.Trim(part[:maxShotURLPart], "-")
	}
	return part
}

func fileSafe(s string) string {
	return strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
