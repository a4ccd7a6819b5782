package main // Entry point package

import (
	"log" // Logging library
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/crbservicos/field-api/internal/config"
	"github.com/crbservicos/field-api/internal/database"
	"github.com/crbservicos/field-api/internal/handler"
	"github.com/crbservicos/field-api/internal/queue"
	"github.com/crbservicos/field-api/internal/repository"
	"github.com/crbservicos/field-api/internal/router"
	queue_publisher "github.com/crbservicos/field-api/internal/service"
)

func main() {
	// .env is optional; a containerized deployment injects real env vars.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Photos are written here and served back under /uploads.
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("uploads dir: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	records := repository.NewRecordRepo(db)
	locations := repository.NewLocationRepo(db)
	services := repository.NewServiceRepo(db)
	goals := repository.NewGoalRepo(db)
	auditLogs := repository.NewAuditLogRepo(db)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Records:   handler.NewRecordHandler(records, users, cfg.UploadDir, queue_publisher.PublishRecordDeleted),
		Locations: handler.NewLocationHandler(locations),
		Services:  handler.NewServiceHandler(services),
		Goals:     handler.NewGoalHandler(goals),
		Users:     handler.NewUserHandler(users, tokens, cfg.BcryptCost),
		AuditLog:  handler.NewAuditLogHandler(auditLogs),
	}

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS()) // permissive: internal tool consumed by browser clients
	e.Static("/uploads", cfg.UploadDir)
	router.Register(e, h, cfg.JWTSecret)

	// Background consumer mirroring audit events into logs/audit.log.
	// Runs its own reconnect loop; a missing broker never blocks the API.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
