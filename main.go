package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/config"
	"github.com/yeremiapane/resto-pos/digitalmenu"
	"github.com/yeremiapane/resto-pos/middlewares"
	"github.com/yeremiapane/resto-pos/router"
	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/store"
	"github.com/yeremiapane/resto-pos/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	utils.InitLogger()

	cfg := config.Load()
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}

	hub := broadcast.NewHub()
	posStore := store.NewGormStore(db)

	// The digital-menu channel is optional; without MENU_DB_URI the POS
	// runs standalone.
	var channel services.MenuChannel
	var menuClient *digitalmenu.Client
	if cfg.MenuDBURI != "" {
		menuClient, err = digitalmenu.NewClient(context.Background(), cfg.MenuDBURI, cfg.MenuDBName)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to digital menu store: %v", err)
		}
		channel = menuClient
	}

	orders := services.NewOrderService(posStore, hub, channel)
	billing := services.NewBillingService(posStore, hub, channel)

	var sync *services.MenuSyncService
	if channel != nil {
		sync = services.NewMenuSyncService(posStore, channel, orders, billing, hub, services.NewSyncState())
		sync.Start(time.Duration(cfg.SyncIntervalMs) * time.Millisecond)
		defer sync.Stop()
	} else {
		utils.InfoLogger.Println("MENU_DB_URI not set, digital menu sync disabled")
	}

	r := router.SetupRouter(db, hub, router.Services{
		Orders:  orders,
		Billing: billing,
		Sync:    sync,
	})

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	// Stop the sync loop cleanly on SIGINT/SIGTERM.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		if sync != nil {
			sync.Stop()
		}
		if menuClient != nil {
			menuClient.Close(context.Background())
		}
		os.Exit(0)
	}()

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
