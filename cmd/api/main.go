package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hasinarivo/vax-slot-api/internal/config"
	"github.com/hasinarivo/vax-slot-api/internal/handlers"
	"github.com/hasinarivo/vax-slot-api/internal/middleware"
	"github.com/hasinarivo/vax-slot-api/internal/services"
	"github.com/hasinarivo/vax-slot-api/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set.")
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.MongoDatabase)
	log.Println("Successfully connected to MongoDB!")

	if err := services.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// --- Rate limiter (optional, needs Redis) ---
	var limiter *middleware.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		limiter = middleware.NewRateLimiter(rdb, cfg.RateLimitRequests,
			time.Duration(cfg.RateLimitWindow)*time.Second)
		log.Printf("Rate limiting enabled: %d req / %ds per IP", cfg.RateLimitRequests, cfg.RateLimitWindow)
	} else {
		log.Println("REDIS_ADDR not set, rate limiting disabled.")
	}

	slotSvc := services.NewSlotService(db)
	h := handlers.NewHandler(db, slotSvc, cfg)

	// --- Gin Router ---
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	r.POST("/register", throttled(limiter), h.RegisterUser)
	r.POST("/login", throttled(limiter), h.Login)
	r.POST("/admin/login", throttled(limiter), h.AdminLogin)

	slotRoutes := r.Group("/slots")
	slotRoutes.Use(middleware.AuthMiddleware())
	{
		slotRoutes.GET("", h.GetSlots)
		slotRoutes.POST("/register", throttled(limiter), h.RegisterSlot)
		slotRoutes.PUT("/update", throttled(limiter), h.UpdateSlot)
	}

	adminRoutes := r.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		adminRoutes.GET("/users", h.GetUsers)
		adminRoutes.GET("/slots", h.GetSlotRegistrations)
		adminRoutes.POST("/slots/init", h.InitSlots)
	}

	log.Printf("Starting server on port %s", cfg.APIPort)
	if err := r.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// throttled wraps the limiter so unconfigured deployments get a no-op.
func throttled(limiter *middleware.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return limiter.Middleware()
}
