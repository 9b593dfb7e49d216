package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forkline-pos/forkline/internal/config"
	"github.com/forkline-pos/forkline/internal/database"
	"github.com/forkline-pos/forkline/internal/handlers"
	"github.com/forkline-pos/forkline/internal/models"
	"github.com/forkline-pos/forkline/internal/orders"
	"github.com/forkline-pos/forkline/internal/routing"
	"github.com/forkline-pos/forkline/internal/store"
	"github.com/forkline-pos/forkline/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-migrate schema (critical for zero-config installs)
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		// Org structure
		&models.Property{},
		&models.Rvc{},
		&models.Workstation{},
		&models.WorkstationDevice{},
		&models.Employee{},

		// Menu and routing configuration
		&models.TaxGroup{},
		&models.PrintClass{},
		&models.PrintClassRouting{},
		&models.MenuItem{},
		&models.Modifier{},
		&models.OrderDevice{},
		&models.KdsDevice{},

		// Checks and kitchen tickets
		&models.Check{},
		&models.CheckItem{},
		&models.Round{},
		&models.KdsTicket{},
		&models.KdsTicketItem{},

		// Payments and audit trail
		&models.Tender{},
		&models.Payment{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Wire the engine: store -> resolver -> order service -> router
	st := store.NewGormStore(db)
	resolver := routing.NewResolver(st)

	hub := websocket.NewHub()
	go hub.Run()

	svc := orders.NewService(st, resolver, hub)
	router := handlers.NewRouter(st, svc, hub, cfg)

	// 5. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Server starting on port %s [Property: %d]\n", cfg.Port, cfg.PropertyID)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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
