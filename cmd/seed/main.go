package main

import (
	"context"
	"flag"
	"log"
	"os"

	"workreg/internal/config"
	"workreg/internal/db"
	"workreg/internal/model"
	"workreg/internal/repository"
	"workreg/internal/service"
)

func main() {
	filePath := flag.String("file", "workers.xlsx", "path to the .xlsx file to import")
	flag.Parse()

	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.Worker{}, &model.AuditLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *filePath, err)
	}
	defer file.Close()

	workerRepo := repository.NewWorkerRepository(gormDB)
	auditRepo := repository.NewAuditLogRepository(gormDB)
	importService := service.NewImportService(workerRepo, auditRepo)

	log.Printf("Importing workers from: %s", *filePath)
	result, err := importService.ImportWorkers(context.Background(), file, nil)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Seed completed!")
	log.Printf("  - Workers added: %d", result.Added)
	log.Printf("  - Rows processed: %d", result.Total)
	log.Printf("  - Row errors: %d", len(result.Errors))
	for _, rowErr := range result.Errors {
		if rowErr.Row > 0 {
			log.Printf("    row %d: %v", rowErr.Row, rowErr.Detail)
		} else {
			log.Printf("    %v", rowErr.Detail)
		}
	}
}
