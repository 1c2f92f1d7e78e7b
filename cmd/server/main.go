package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	_ "workreg/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"workreg/internal/auth"
	"workreg/internal/cache"
	"workreg/internal/config"
	"workreg/internal/db"
	"workreg/internal/handler"
	"workreg/internal/model"
	"workreg/internal/repository"
	"workreg/internal/router"
	"workreg/internal/service"
)

// @title Worker Registry API
// @version 1.0
// @description Worker registry with CRUD operations, spreadsheet bulk import, and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.AuditLog{},
			&model.Worker{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Worker{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	workerRepo := repository.NewWorkerRepository(gormDB)
	auditRepo := repository.NewAuditLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	workerService := service.NewWorkerService(workerRepo, auditRepo, cacheClient)
	importService := service.NewImportService(workerRepo, auditRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	workerHandler := handler.NewWorkerHandler(workerService)
	importHandler := handler.NewImportHandler(importService)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		tokenStore,
		authHandler,
		workerHandler,
		importHandler,
	)

	// Log swagger full path
	swaggerURL := "http://localhost:5000/swagger/index.html"
	if cfg.SwaggerHost != "" {
		if strings.HasPrefix(cfg.SwaggerHost, "http://") || strings.HasPrefix(cfg.SwaggerHost, "https://") {
			swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		} else {
			swaggerURL = "http://" + cfg.SwaggerHost + "/swagger/index.html"
		}
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
