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

	"github.com/gin-gonic/gin"
	"github.com/settleops/tradeflow/config"
	"github.com/settleops/tradeflow/internal/cache"
	"github.com/settleops/tradeflow/internal/database"
	"github.com/settleops/tradeflow/internal/handlers"
	"github.com/settleops/tradeflow/internal/middleware"
	"github.com/settleops/tradeflow/internal/pricefeed"
	"github.com/settleops/tradeflow/internal/repository"
	"github.com/settleops/tradeflow/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context for initialization
	ctx := context.Background()

	// Initialize database connection
	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize settle-price feed client
	feedClient := pricefeed.NewClient(cfg.PriceFeedURL, cfg.PriceFeedTimeout)

	// Initialize caches
	priceCache := cache.NewMemoryCache(5 * time.Minute)

	// Initialize repositories
	referenceRepo := repository.NewReferenceRepository(db.Pool)
	stagingRepo := repository.NewStagingRepository(db.Pool, cfg.StagingTable)
	settlementRepo := repository.NewSettlementRepository(db.Pool)

	// Initialize services
	importSvc := services.NewImportService(referenceRepo, feedClient, stagingRepo, priceCache, cfg)
	settlementSvc := services.NewSettlementService(settlementRepo, feedClient)

	// Initialize handlers
	importHandler := handlers.NewImportHandler(importSvc, settlementSvc)

	// Setup Gin router
	router := gin.Default()

	// Apply global middleware
	router.Use(middleware.RequestLogger())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Pipeline routes
	router.POST("/trades/upload", importHandler.UploadTrades)
	router.POST("/settlement-prices/import", importHandler.ImportSettlementPrices)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	fmt.Println("Server exited")
}
