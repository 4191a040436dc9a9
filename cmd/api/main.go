package main

import (
	"context"
	"log"
	"os"
	"time"

	"khapey/internal/auth"
	"khapey/internal/branch"
	"khapey/internal/config"
	"khapey/internal/db"
	"khapey/internal/discount"
	"khapey/internal/flags"
	"khapey/internal/middleware"
	"khapey/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	cfg, err := config.Init()
	if err != nil {
		log.Fatal("❌ Config load failed:", err)
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── STORAGE ─────────────────────────
	mediaStore, err := storage.NewMediaStore(context.Background())
	if err != nil {
		log.Fatal("❌ R2 init failed:", err)
	}

	// ───────────────────────── AUTH ─────────────────────────
	userRepo := auth.NewPostgresUserRepository(pgDB)
	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(authService)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// ───────────────────────── CORE REPOS ─────────────────────────
	branchRepo := branch.NewPostgresRepository(pgDB)
	discountRepo := discount.NewPostgresRepository(pgDB)

	// ───────────────────────── SERVICES ─────────────────────────
	discountService := discount.NewService(discountRepo, branchRepo)

	// ───────────────────────── HANDLERS ─────────────────────────
	branchHandler := branch.NewHandler(branchRepo)
	discountHandler := discount.NewHandler(discountService, mediaStore)
	flagsHandler := flags.NewHandler(cfg.Flags)

	// ───────────────────────── PUBLIC API ─────────────────────────
	api := r.Group("/api")
	{
		api.GET("/discounts", discountHandler.List())
		api.POST("/discounts/calculate", discountHandler.Calculate())
		api.GET("/branches", branchHandler.List())
		api.GET("/branches/:id", branchHandler.Get())
		api.GET("/flags", flagsHandler.List())
	}

	// ───────────────────────── MANAGER API ─────────────────────────
	managed := r.Group("/api")
	managed.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRole(auth.RoleManager, auth.RoleAdmin),
	)
	{
		managed.POST("/discounts", discountHandler.Create())
		managed.PUT("/discounts", discountHandler.Update())
		managed.DELETE("/discounts", discountHandler.Delete())
		managed.POST("/discounts/:id/image", discountHandler.UploadImage())
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── START ─────────────────────────
	log.Printf("🚀 API running at http://localhost%s", cfg.Address)
	r.Run(cfg.Address)
}
