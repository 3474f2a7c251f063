// Command e2e pushes the reference scenarios through the persister against the
// configured store and fails when an outcome differs from the expected one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/database"
	"aujobs-pipeline/internal/models"
	"aujobs-pipeline/internal/normalizer"
	"aujobs-pipeline/internal/persist"
	"aujobs-pipeline/internal/store"
	"aujobs-pipeline/internal/summary"
)

type scenario struct {
	name string
	raw  models.RawJobRecord
	want summary.Outcome
	// check runs against the saved posting, if any.
	check func(p *models.JobPosting) error
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	memory := flag.Bool("memory", false, "use the in-memory store instead of DATABASE_URL")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var st store.Store = store.NewMemoryStore()
	if !*memory {
		if cfg.DatabaseURL == "" {
			log.Fatal("Missing DATABASE_URL (or pass -memory)")
		}
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("DB connection failed: %v", err)
		}
		defer repo.Close()
		if err := repo.Migrate(ctx); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		st = repo
	}

	// a fresh suffix keeps repeated runs against a real database independent
	run := uuid.NewString()[:8]
	p := persist.NewPersister(st, normalizer.NewProcessor(normalizer.Site{Source: "e2e-" + run, BaseURL: "https://example/jobs"}))

	nurse := models.RawJobRecord{
		Title:        "Registered Nurse " + run,
		CompanyName:  "Canberra Health Services " + run,
		LocationText: "Canberra, ACT",
		SalaryText:   "$80,378 - $105,656",
		JobTypeText:  "Full-Time Permanent",
		SourceURL:    "https://example/job/" + run,
	}
	moved := nurse
	moved.SourceURL = "https://example/job/" + run + "-moved"
	untitled := nurse
	untitled.Title = ""
	untitled.CompanyName = "Nobody " + run

	scenarios := []scenario{
		{name: "nurse is saved", raw: nurse, want: summary.OutcomeSaved, check: checkNurse},
		{name: "same title and company under a new URL", raw: moved, want: summary.OutcomeDuplicate},
		{name: "empty title", raw: untitled, want: summary.OutcomeError},
	}

	failures := 0
	for _, sc := range scenarios {
		before := p.Summary().Snapshot()
		res := p.SaveJob(ctx, sc.raw)
		after := p.Summary().Snapshot()

		err := expect(sc, res, before, after)
		if err != nil {
			failures++
			log.Printf("❌ %s: %v", sc.name, err)
			continue
		}
		log.Printf("✅ %s", sc.name)
	}

	log.Printf("📊 %s", p.Summary().Snapshot())
	if failures > 0 {
		log.Printf("❌ %d scenario(s) failed", failures)
		os.Exit(1)
	}
}

func expect(sc scenario, res persist.Result, before, after summary.Snapshot) error {
	if res.Outcome != sc.want {
		return fmt.Errorf("outcome %s, want %s (err: %v)", res.Outcome, sc.want, res.Err)
	}
	if after.Processed != before.Processed+1 {
		return fmt.Errorf("processed moved by %d", after.Processed-before.Processed)
	}
	if sc.want == summary.OutcomeDuplicate && (after.Duplicate != before.Duplicate+1 || after.Saved != before.Saved) {
		return fmt.Errorf("duplicate counters off: %s -> %s", before, after)
	}
	if sc.check != nil {
		return sc.check(res.Posting)
	}
	return nil
}

func checkNurse(p *models.JobPosting) error {
	switch {
	case p.SalaryMin == nil || *p.SalaryMin != 80378:
		return fmt.Errorf("salary_min = %v", p.SalaryMin)
	case p.SalaryMax == nil || *p.SalaryMax != 105656:
		return fmt.Errorf("salary_max = %v", p.SalaryMax)
	case p.SalaryPeriod != models.PeriodYearly:
		return fmt.Errorf("salary_period = %s", p.SalaryPeriod)
	case p.JobType != models.JobTypeFullTime:
		return fmt.Errorf("job_type = %s", p.JobType)
	case p.LocationName != "Canberra, Australian Capital Territory":
		return fmt.Errorf("location = %q", p.LocationName)
	}
	return nil
}
