package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"aujobs-pipeline/internal/browser"
	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/crawl"
	"aujobs-pipeline/internal/database"
	"aujobs-pipeline/internal/dedup"
	"aujobs-pipeline/internal/filter"
	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/reporter"
	"aujobs-pipeline/internal/scraper/registry"
	"aujobs-pipeline/internal/store"
	"aujobs-pipeline/internal/telegram"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	siteName := flag.String("site", "", "crawl only this site (default: every enabled site)")
	limit := flag.Int("limit", -1, "stop after this many saved postings per site (default: job_limit from config)")
	headless := flag.Bool("headless", true, "run Chromium headless")
	dryRun := flag.Bool("dry-run", false, "keep results in memory and write them to logs/ instead of the database")
	flag.Parse()

	//load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("❌ Failed to load config: %v", err)
		return 1
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			cfg.Headless = headless
		}
	})
	if *limit >= 0 {
		cfg.JobLimit = *limit
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("❌ Invalid config: %v", err)
		return 1
	}

	sites := cfg.EnabledSites()
	if *siteName != "" {
		site, ok := cfg.Site(*siteName)
		if !ok {
			log.Printf("❌ Unknown site %q", *siteName)
			return 1
		}
		sites = []config.Site{site}
	}
	log.Printf("🔧 Config loaded. Sites: %d, job limit: %d, dry run: %v", len(sites), cfg.JobLimit, *dryRun)

	ctx := context.Background()

	//persistence
	var st store.Store
	var mem *store.MemoryStore
	if *dryRun || cfg.DatabaseURL == "" {
		if !*dryRun {
			log.Println("⚠️ DATABASE_URL not set, keeping results in memory")
		}
		mem = store.NewMemoryStore()
		st = mem
	} else {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("❌ DB connection failed: %v", err)
			return 1
		}
		defer repo.Close()
		st = repo
	}

	//notifications and run summaries
	reporters := reporter.Multi{reporter.LogReporter{}}
	if cfg.TelegramToken != "" && !*dryRun {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			log.Println("🤖 Telegram Bot initialized.")
			reporters = append(reporters, bot)
		}
	}

	var runs store.SummaryStore
	if cfg.RedisURL != "" && !*dryRun {
		rs, err := store.NewRedisSummaryStore(cfg.RedisURL, cfg.SummaryPrefix, cfg.SummaryTTL)
		if err != nil {
			log.Printf("⚠️ Run summaries disabled: %v", err)
		} else {
			defer rs.Close()
			runs = rs
		}
	}

	cacheDir := cfg.CachePath
	if *dryRun {
		cacheDir = ""
	}
	driver := crawl.New(st, crawl.Options{
		Seen: dedup.NewSeenCache(cacheDir, dedup.DefaultSeenTTL, cfg.SeenCacheSize),
		Filter: filter.New(filter.Options{
			ExcludeKeywords: cfg.ExcludeKeywords,
			MaxAge:          time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		}),
		Reporter: reporters,
		Runs:     runs,
		JobLimit: cfg.JobLimit,
	})

	//init playwright manager only when a site needs it
	var pw *browser.PlaywrightManager
	if registry.NeedsBrowser(sites) {
		pw, err = browser.NewPlaywright(browser.Options{Headless: cfg.IsHeadless(), UserAgent: cfg.UserAgent})
		if err != nil {
			log.Printf("❌ Failed to init Playwright: %v", err)
			return 1
		}
		defer pw.Close()
	}

	scrapers, err := registry.Build(cfg, sites, pw)
	if err != nil {
		log.Printf("❌ %v", err)
		return 1
	}

	failed := 0
	var saved []*models.JobPosting
	for _, s := range scrapers {
		runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
		res, err := driver.Run(runCtx, s)
		cancel()
		if err != nil {
			log.Printf("❌ Error running scraper %s: %v", s.Name(), err)
			failed++
		}
		saved = append(saved, res.Posts...)
	}

	if mem != nil {
		saveJobs(saved)
	}
	log.Printf("🏁 Execution finished. %d new postings, %d failed site(s).", len(saved), failed)
	if failed > 0 {
		return 1
	}
	return 0
}

// saveJobs writes logs/job-search-YYYY-MM-DD.json for runs without a database.
func saveJobs(jobs []*models.JobPosting) {
	if len(jobs) == 0 {
		log.Println("ℹ️ No jobs to save.")
		return
	}

	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	filePath := filepath.Join(logDir, fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02")))
	data, err := json.MarshalIndent(jobs, "", " ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal jobs to JSON: %v", err)
		return
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write logs file: %v", err)
		return
	}
	log.Printf("📁 Results saved to %s", filePath)
}
