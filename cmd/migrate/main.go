package main

import (
	"log"
	"strings"

	"clinical-notes-be/internal/bootstrap"
	"clinical-notes-be/internal/config"
	"clinical-notes-be/internal/model"
	"clinical-notes-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Connect to Database using existing GORM helpers
	db, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	isPostgres := cfg.Database.Driver == "" || strings.EqualFold(cfg.Database.Driver, database.DriverPostgres)

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions (Postgres only)
	if isPostgres {
		log.Println("Step 1: Setting up Extensions...")
		setupSQL := []string{
			`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		}
		for _, sql := range setupSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
			}
		}
	}

	// 4. AutoMigrate All Models
	models := model.All()
	log.Printf("Step 2: Running AutoMigrate for %d Tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views (Postgres only)
	if isPostgres {
		log.Println("Step 3: Creating Views...")
		postMigrationSQL := []string{
			// View: embedding_coverage, embedded live notes per model and how many still use the legacy text column
			`CREATE OR REPLACE VIEW embedding_coverage AS
			 SELECT ne.model, COUNT(*) AS embedded, COUNT(*) FILTER (WHERE ne.legacy_vector IS NOT NULL AND (ne.vector IS NULL OR length(ne.vector) = 0)) AS legacy
			 FROM note_embeddings ne JOIN notes n ON n.id = ne.note_id
			 WHERE n.deleted_at IS NULL
			 GROUP BY ne.model;`,
		}
		for _, sql := range postMigrationSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
			}
		}
	}

	log.Println("Success: Database migration completed via GORM.")
}
