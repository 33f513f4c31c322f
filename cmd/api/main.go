package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neosiam/returnhub/internal/config"
	"github.com/neosiam/returnhub/internal/database"
	"github.com/neosiam/returnhub/internal/handlers"
	"github.com/neosiam/returnhub/internal/middleware"
	"github.com/neosiam/returnhub/internal/models"
	"github.com/neosiam/returnhub/internal/ncr"
	"github.com/neosiam/returnhub/internal/sequence"
	"github.com/neosiam/returnhub/internal/services/printer"
	"github.com/neosiam/returnhub/internal/store"
	"github.com/neosiam/returnhub/internal/websocket"
	"github.com/neosiam/returnhub/internal/workflow"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema (Critical for Zero-Config)
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.ReturnRequest{},
		&models.CollectionOrder{},
		&models.ShipmentManifest{},
		&models.ReturnRecord{},
		&models.NCRRecord{},
		&sequence.Counter{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Wire the service layer
	st := store.NewGormStore(db.DB)

	var seq sequence.Generator
	if cfg.Sequence.Mode == "remote" {
		remote := sequence.NewRemoteGenerator(cfg.Sequence.URL, cfg.Sequence.Database,
			cfg.Sequence.Username, cfg.Sequence.Password)
		if err := remote.Authenticate(); err != nil {
			log.Fatalf("Failed to authenticate with ERP sequence service: %v", err)
		}
		log.Println("🔢 Sequence numbers: remote ERP")
		seq = remote
	} else {
		log.Println("🔢 Sequence numbers: database counters")
		seq = sequence.NewGormGenerator(db.DB)
	}

	hub := websocket.NewHub()
	go hub.Run()

	engine := workflow.NewEngine(st, seq, hub, workflow.AutoConfirmer{})

	var authorizer ncr.Authorizer
	if cfg.EditSecretHash != "" {
		authorizer = ncr.NewSharedSecretAuthorizer(cfg.EditSecretHash)
	} else {
		authorizer = &ncr.RoleAuthorizer{
			Role:    middleware.RoleFromContext,
			Allowed: map[string]bool{models.RoleAdmin: true, models.RoleQA: true},
		}
	}

	printSvc := printer.NewService(cfg.Printing.OutputDir)
	ncrSvc := ncr.NewService(st, seq, workflow.AutoConfirmer{}, authorizer, printSvc)

	// 5. Set up HTTP router
	router := handlers.NewRouter(cfg, db, st, engine, ncrSvc, printSvc, hub)

	// 6. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
