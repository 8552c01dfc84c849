package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/spamlookup/spamlookup-backend/internal/config"
	"github.com/spamlookup/spamlookup-backend/internal/database"
	"github.com/spamlookup/spamlookup-backend/internal/handlers"
	"github.com/spamlookup/spamlookup-backend/internal/middleware"
	"github.com/spamlookup/spamlookup-backend/internal/routes"
	"github.com/spamlookup/spamlookup-backend/internal/services"
	"github.com/spamlookup/spamlookup-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (request audit log). The API stays up without it.
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Printf("Warning: Failed to connect to MongoDB: %v", err)
		log.Println("Request audit logging will not be available")
	} else {
		defer database.DisconnectMongo()
	}

	stores := store.NewPostgresStores(database.PostgresDB)
	sessions := services.NewRedisSessions(database.RedisClient)
	h := handlers.New(stores, sessions)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → in-process per-IP limiter
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Request audit trail for every API call
	r.Use(middleware.RequestLogger(sessions))

	// Health check (no rate limit concerns beyond the global ones)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r, h, cfg.ThrottleEnforce)

	if cfg.ThrottleEnforce {
		log.Println("✅ Per-endpoint throttle enforcement enabled")
	} else {
		log.Println("Per-endpoint throttles counting only (set THROTTLE_ENFORCE=true to enforce)")
	}

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/register/")
	log.Println("  POST /api/login/")
	log.Println("  POST /api/logout/")
	log.Println("  GET  /api/contacts/")
	log.Println("  POST /api/contacts/")
	log.Println("  GET/PUT/DELETE /api/contacts/{id}/")
	log.Println("  POST /api/report-spam/")
	log.Println("  GET  /api/search/")

	log.Printf("🚀 SpamLookup backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
