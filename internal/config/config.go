// Load envs from .env
// Load YAML config (runtime settings + site adapters)
// Override with env vars
// Provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

const (
	ModeHTTP    = "http"
	ModeBrowser = "browser"
)

type Config struct {
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	RedisURL       string `yaml:"redis_url" env:"REDIS_URL"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	Port           string `yaml:"port" env:"PORT"`
	Schedule       string `yaml:"schedule" env:"SCRAPE_SCHEDULE"`

	//Run limits
	JobLimit       int           `yaml:"job_limit"`
	Headless       *bool         `yaml:"headless"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RunTimeout     time.Duration `yaml:"run_timeout"`
	UserAgent      string        `yaml:"user_agent"`

	//Filters applied before persisting
	ExcludeKeywords []string `yaml:"exclude_keywords"`
	MaxAgeDays      int      `yaml:"max_age_days"`

	//Paths
	CookiesPath   string `yaml:"cookies_path"`
	CachePath     string `yaml:"cache_path"`
	SeenCacheSize int    `yaml:"seen_cache_size"`

	//Run summaries in Redis
	SummaryPrefix string        `yaml:"summary_prefix"`
	SummaryTTL    time.Duration `yaml:"summary_ttl"`

	Sites []Site `yaml:"sites"`
}

// Site describes one job board adapter.
type Site struct {
	Name    string `yaml:"name"`
	Source  string `yaml:"source"`
	Enabled *bool  `yaml:"enabled"`
	Mode    string `yaml:"mode"`
	BaseURL string `yaml:"base_url"`
	// ListURL may contain {page}; without it only one page is fetched.
	ListURL     string    `yaml:"list_url"`
	MaxPages    int       `yaml:"max_pages"`
	DetailPages bool      `yaml:"detail_pages"`
	WaitFor     string    `yaml:"wait_for"`
	Consent     string    `yaml:"consent"`
	Selectors   Selectors `yaml:"selectors"`

	DefaultCompany string `yaml:"default_company"`
	DefaultCity    string `yaml:"default_city"`
	CookiesFile    string `yaml:"cookies_file"`
}

// Selectors are CSS selectors relative to a listing card, except Card itself
// and DetailDescription (relative to the detail page).
type Selectors struct {
	Card              string `yaml:"card"`
	Title             string `yaml:"title"`
	Link              string `yaml:"link"`
	Company           string `yaml:"company"`
	Location          string `yaml:"location"`
	Salary            string `yaml:"salary"`
	Posted            string `yaml:"posted"`
	JobType           string `yaml:"job_type"`
	Category          string `yaml:"category"`
	Description       string `yaml:"description"`
	DetailDescription string `yaml:"detail_description"`
}

func (s Site) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// IsHeadless defaults to true.
func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// Load reads .env, then the YAML file at path, then env overrides, and fills
// defaults. A missing YAML file is not an error; Validate catches an empty site list.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("SCRAPE_SCHEDULE"); v != "" {
		c.Schedule = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.Schedule == "" {
		c.Schedule = "@every 6h"
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.RunTimeout == 0 {
		c.RunTimeout = 30 * time.Minute
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.CookiesPath == "" {
		c.CookiesPath = ".cookies"
	}
	if c.CachePath == "" {
		c.CachePath = ".cache"
	}
	if c.SummaryPrefix == "" {
		c.SummaryPrefix = "aujobs:run:"
	}
	if c.SummaryTTL == 0 {
		c.SummaryTTL = 7 * 24 * time.Hour
	}
	for i := range c.Sites {
		s := &c.Sites[i]
		if s.Mode == "" {
			s.Mode = ModeHTTP
		}
		if s.MaxPages <= 0 {
			s.MaxPages = 1
		}
		if s.Source == "" {
			s.Source = hostOf(s.BaseURL)
		}
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Sites) == 0 {
		errs = append(errs, errors.New("no sites configured"))
	}
	if c.JobLimit < 0 {
		errs = append(errs, errors.New("job_limit must not be negative"))
	}
	if c.MaxAgeDays < 0 {
		errs = append(errs, errors.New("max_age_days must not be negative"))
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set"))
	}

	seen := make(map[string]bool)
	for i, s := range c.Sites {
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("sites[%d]", i)
			errs = append(errs, fmt.Errorf("%s: name is required", label))
		} else if seen[s.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate site name", label))
		}
		seen[s.Name] = true

		if s.Mode != ModeHTTP && s.Mode != ModeBrowser {
			errs = append(errs, fmt.Errorf("%s: mode must be %q or %q", label, ModeHTTP, ModeBrowser))
		}
		if s.BaseURL == "" {
			errs = append(errs, fmt.Errorf("%s: base_url is required", label))
		}
		if s.ListURL == "" {
			errs = append(errs, fmt.Errorf("%s: list_url is required", label))
		}
		if s.Selectors.Card == "" || s.Selectors.Title == "" {
			errs = append(errs, fmt.Errorf("%s: card and title selectors are required", label))
		}
	}
	return errors.Join(errs...)
}

// Site returns the named site configuration.
func (c *Config) Site(name string) (Site, bool) {
	for _, s := range c.Sites {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Site{}, false
}

// EnabledSites returns the sites a scheduled run should crawl.
func (c *Config) EnabledSites() []Site {
	var out []Site
	for _, s := range c.Sites {
		if s.IsEnabled() {
			out = append(out, s)
		}
	}
	return out
}

func hostOf(rawURL string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "www.")
}
