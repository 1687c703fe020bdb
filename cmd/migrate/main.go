package main

import (
	"context" // Migration context

	"catalog_system/internal/config" // Custom import path (Config)
	"catalog_system/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	ctx := context.Background()
	if err := db.Migrate(ctx, gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if err := db.Seed(ctx, gdb); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
	logrus.Info("Database is up to date")
}
