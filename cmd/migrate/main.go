package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"aujobs-pipeline/internal/config"
	"aujobs-pipeline/internal/database"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set. Please check your .env file.")
	}

	fmt.Println("Attempting to connect to PostgreSQL...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to the database. Error: %v\n(Check your connection string and password)", err)
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Schema applied and categories seeded.")

	version, size, err := repo.ServerInfo(ctx)
	if err != nil {
		log.Printf("⚠️ %v", err)
		return
	}
	fmt.Printf("📦 Current Database Size: %s\n", size)
	fmt.Println("🚀 Database Version:", version)
}
