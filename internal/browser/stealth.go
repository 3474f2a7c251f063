package browser

import (
	"math/rand"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-AU', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
window.chrome = window.chrome || { runtime: {} };
`

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	time.Sleep(time.Duration(rand.Intn(max-min)+min) * time.Millisecond)
}

// MouseJiggle moves the mouse to a random point inside the viewport.
func MouseJiggle(page playwright.Page) {
	width, height := 800, 600
	if vp := page.ViewportSize(); vp != nil && vp.Width > 200 && vp.Height > 200 {
		width, height = vp.Width-100, vp.Height-100
	}
	_ = page.Mouse().Move(float64(rand.Intn(width)+50), float64(rand.Intn(height)+50))
	RandomDelay(100, 300)
}

// SmoothScroll scrolls down, corrects a little, then jumps to the bottom to
// trigger lazy loaded cards.
func SmoothScroll(page playwright.Page) {
	_ = page.Mouse().Wheel(0, 500)
	RandomDelay(500, 1000)

	_ = page.Mouse().Wheel(0, -200)
	RandomDelay(500, 800)

	_, _ = page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
}

var blockedTitles = []string{"Attention Required", "Just a moment", "Cloudflare"}

// IsChallengeTitle reports whether a page title belongs to a bot challenge.
func IsChallengeTitle(title string) bool {
	for _, t := range blockedTitles {
		if strings.Contains(title, t) {
			return true
		}
	}
	return false
}

// HasCaptcha reports whether the page shows a captcha widget.
func HasCaptcha(page playwright.Page) bool {
	n, _ := page.Locator(".captcha, .recaptcha, .g-recaptcha, [data-captcha], iframe[src*='hcaptcha']").Count()
	return n > 0
}
