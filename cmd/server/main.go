package main

import (
	"context"
	"log"
	"os"

	"github.com/kvnochieng52/upgis/internal/api"
	"github.com/kvnochieng52/upgis/internal/db"
	"github.com/kvnochieng52/upgis/internal/notify"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	templates, err := notify.LoadTemplates()
	if err != nil {
		log.Fatalf("Failed to load SMS templates: %v", err)
	}
	provider, err := notify.ProviderFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to configure SMS provider: %v", err)
	}
	notifier := notify.NewService(provider, templates, pool)

	srv := api.NewServer(pool, notifier)
	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
