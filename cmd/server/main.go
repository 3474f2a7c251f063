package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"aujobs-pipeline/internal/api"
	"aujobs-pipeline/internal/browser"
	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/crawl"
	"aujobs-pipeline/internal/database"
	"aujobs-pipeline/internal/dedup"
	"aujobs-pipeline/internal/filter"
	"aujobs-pipeline/internal/reporter"
	"aujobs-pipeline/internal/scheduler"
	"aujobs-pipeline/internal/scraper/registry"
	"aujobs-pipeline/internal/store"
	"aujobs-pipeline/internal/telegram"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	defer repo.Close()
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	var runs store.SummaryStore = store.NewMemorySummaryStore()
	if cfg.RedisURL != "" {
		rs, err := store.NewRedisSummaryStore(cfg.RedisURL, cfg.SummaryPrefix, cfg.SummaryTTL)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, keeping run summaries in memory: %v", err)
		} else {
			defer rs.Close()
			runs = rs
		}
	}

	reporters := reporter.Multi{reporter.LogReporter{}}
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			reporters = append(reporters, bot)
		}
	}

	sites := cfg.EnabledSites()
	var pw *browser.PlaywrightManager
	if registry.NeedsBrowser(sites) {
		pw, err = browser.NewPlaywright(browser.Options{Headless: cfg.IsHeadless(), UserAgent: cfg.UserAgent})
		if err != nil {
			log.Fatalf("❌ Failed to init Playwright: %v", err)
		}
		defer pw.Close()
	}
	scrapers, err := registry.Build(cfg, sites, pw)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	driver := crawl.New(repo, crawl.Options{
		Seen: dedup.NewSeenCache(cfg.CachePath, dedup.DefaultSeenTTL, cfg.SeenCacheSize),
		Filter: filter.New(filter.Options{
			ExcludeKeywords: cfg.ExcludeKeywords,
			MaxAge:          time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		}),
		Reporter: reporters,
		Runs:     runs,
		JobLimit: cfg.JobLimit,
	})

	sched := scheduler.New(driver, scrapers, cfg.Schedule, cfg.RunTimeout)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	router := api.NewRouter(api.Deps{
		Reader:   repo,
		Runs:     runs,
		Health:   repo.Ping,
		LastRuns: sched.LastResults,
	})
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	sched.Stop()
}
