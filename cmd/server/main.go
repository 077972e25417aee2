package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/backoffice/backend/internal/application/billing"
	catalogapp "github.com/backoffice/backend/internal/application/catalog"
	partnerapp "github.com/backoffice/backend/internal/application/partner"
	worklogapp "github.com/backoffice/backend/internal/application/worklog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/cache"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/pdf"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/interfaces/http/handler"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/backoffice/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Back Office Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Idempotency store (memory or redis, nil when disabled)
	idempotencyStore, err := cache.NewIdempotencyStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	if idempotencyStore != nil {
		defer func() {
			if err := idempotencyStore.Close(); err != nil {
				log.Error("Error closing idempotency store", zap.Error(err))
			}
		}()
		log.Info("Idempotency store initialized", zap.String("backend", cfg.Idempotency.Backend))
	}

	// Initialize repositories
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)

	// Initialize application services
	documentService := billingapp.NewDocumentService(documentRepo, contactRepo, idempotencyStore, shared.IdempotencyConfig{
		Enabled: cfg.Idempotency.Enabled,
		TTL:     cfg.Idempotency.TTL,
	})
	contactService := partnerapp.NewContactService(contactRepo)
	itemService := catalogapp.NewItemService(itemRepo)
	taskService := worklogapp.NewTaskService(taskRepo)
	ticketService := worklogapp.NewTicketService(ticketRepo, contactRepo)

	// PDF rendering via headless Chrome (optional)
	var printer *pdf.DocumentPrinter
	if cfg.PDF.Enabled {
		renderer, err := pdf.NewChromedpRenderer(&pdf.ChromedpConfig{
			Timeout:   cfg.PDF.Timeout,
			NoSandbox: true,
			Logger:    log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		printer = pdf.NewDocumentPrinter(renderer)
		log.Info("PDF rendering enabled", zap.Duration("timeout", cfg.PDF.Timeout))
	}

	// Initialize HTTP handlers
	documentHandler := handler.NewDocumentHandler(documentService, printer)
	contactHandler := handler.NewContactHandler(contactService)
	itemHandler := handler.NewItemHandler(itemService)
	taskHandler := handler.NewTaskHandler(taskService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	systemHandler := handler.NewSystemHandler(db, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report binding errors using json field names
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first so recovery and request logs
	// carry it, then CORS and the body size limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(&cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Setup API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(documentHandler).
		Register(contactHandler).
		Register(itemHandler).
		Register(taskHandler).
		Register(ticketHandler).
		Register(systemHandler).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
