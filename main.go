package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/goudachat/chatrelay/api"
	"github.com/goudachat/chatrelay/config"
	"github.com/goudachat/chatrelay/llm"
	"github.com/goudachat/chatrelay/relay"
	"github.com/goudachat/chatrelay/session"
	"github.com/goudachat/chatrelay/store"
	"github.com/goudachat/chatrelay/streamcache"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting chat relay...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Upstream: %s (model %s)", cfg.OpenAIBaseURL, cfg.Model)
	log.Printf("Event log: %s", cfg.DatabaseURL)

	// Initialize the stream event log
	events, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize event log: %v", err)
	}
	defer events.Close()

	// Initialize session store and stream token cache
	sessions := session.NewStore(cfg.DefaultInstructions, cfg.HistoryMaxItems)
	cache := streamcache.New(cfg.StreamTokenTTL)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go cache.Run(sweepCtx, cfg.StreamTokenTTL)

	// Initialize upstream client and relay engine
	llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMTimeout)
	engine := relay.NewEngine(llmClient, sessions, cfg.Model, cfg.MaxTokens)

	// Initialize handler
	h := api.NewHandler(sessions, cache, engine, events)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat relay started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chat relay...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chat relay stopped")
}
