package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livescore-service/config"
	"livescore-service/database"
	"livescore-service/services"
	"livescore-service/sportsapi"
	"livescore-service/web"
)

func main() {
	log.Println("Starting Live Score Service...")

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database connected and migrated")

	apiClient := sportsapi.NewClientWithConfig(sportsapi.Config{
		BaseURL: cfg.APIBaseURL,
		APIKey:  cfg.APIKey,
	})

	matchStore := services.NewMatchStore(db)

	wsHub := web.NewHub()
	go wsHub.Run()

	broadcasters := []services.Broadcaster{wsHub}

	// Optional AMQP mirror of every broadcast
	if cfg.AMQPURL != "" {
		publisher, err := services.NewUpdatePublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("AMQP publisher disabled: %v", err)
		} else {
			defer publisher.Close()
			broadcasters = append(broadcasters, publisher)
			log.Println("AMQP publisher started")
		}
	}

	syncService := services.NewSyncService(apiClient, matchStore, broadcasters...)

	server := web.NewServer(cfg, apiClient, matchStore, syncService, wsHub)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Web server error: %v", err)
		}
	}()

	log.Printf("Web server started on port %s", cfg.Port)

	// Background sync keeps stored matches and connected clients fresh
	// even when nobody hits /api/matches/live
	if cfg.SyncInterval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.SyncInterval) * time.Second)
			defer ticker.Stop()

			for range ticker.C {
				if _, err := syncService.SyncLiveMatches(); err != nil {
					log.Printf("Background sync failed: %v", err)
				}
			}
		}()

		log.Printf("Background sync started (every %ds)", cfg.SyncInterval)
	}

	log.Println("Service is running. Press Ctrl+C to stop.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down service...")

	server.Stop()

	log.Println("Service stopped")
}
