// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scratchwin/api/database"
	"scratchwin/api/handlers"
	"scratchwin/api/metrics"
	"scratchwin/api/middleware"
	"scratchwin/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- PostgreSQL (admin accounts) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- ClickHouse (event + AI cost logs) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Stores and engine ---
	userStore := store.NewUserStore(dbClient.DB)
	eventStore := store.NewEventStore(chClient)
	engine := metrics.NewEngine(eventStore, metrics.Config{Pricing: pricingFromEnv()})

	// --- Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	trackHandlers := handlers.NewTrackHandlers(eventStore)
	metricsHandlers := handlers.NewMetricsHandlers(engine)

	middleware.InitMetrics()

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Authentication endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		// Protected routes (valid JWT or X-API-KEY)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/track", trackHandlers.TrackEvents)
			protected.POST("/track/ai", trackHandlers.TrackAICalls)

			stats := protected.Group("/stats")
			{
				stats.GET("/metrics", metricsHandlers.GetMetrics)
				stats.GET("/sections", metricsHandlers.ListSections)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Analytics API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Analytics API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// pricingFromEnv reads the AI token pricing override, falling back to the
// documented default rate so the engine stays authoritative on pricing
// without log rewrites.
func pricingFromEnv() metrics.Pricing {
	p := metrics.DefaultPricing
	if v := os.Getenv("AI_INPUT_USD_PER_MTOK"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			p.InputUSDPerMTok = f
		} else {
			log.Printf("Ignoring invalid AI_INPUT_USD_PER_MTOK: %q", v)
		}
	}
	if v := os.Getenv("AI_OUTPUT_USD_PER_MTOK"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			p.OutputUSDPerMTok = f
		} else {
			log.Printf("Ignoring invalid AI_OUTPUT_USD_PER_MTOK: %q", v)
		}
	}
	return p
}
