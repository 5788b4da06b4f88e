package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gymconnect/gymconnect-backend/internal/database"
	"github.com/gymconnect/gymconnect-backend/internal/handlers"
	"github.com/gymconnect/gymconnect-backend/internal/middleware"
	"github.com/gymconnect/gymconnect-backend/internal/models"
	"github.com/gymconnect/gymconnect-backend/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	r.Static("/uploads", "/app/uploads")

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		api.GET("/gyms", handlers.GetGyms(db))
		api.GET("/gyms/:id", handlers.GetGym(db))
		api.GET("/gyms/:id/memberships", handlers.GetGymMemberships(db))

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(db), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(db))
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			// Gym management routes
			protected.POST("/gyms",
				middleware.RequireRoles(models.RoleGymOwner, models.RoleAdmin),
				handlers.CreateGym(db))
			protected.PUT("/gyms/:id", handlers.UpdateGym(db))
			protected.POST("/gyms/:id/image", handlers.UploadGymImage(db))

			owner := protected.Group("/owner")
			owner.Use(middleware.RequireRoles(models.RoleGymOwner, models.RoleAdmin))
			{
				owner.GET("/gyms", handlers.GetOwnerGyms(db))
			}

			// Membership routes
			memberships := protected.Group("/memberships")
			{
				memberships.POST("",
					middleware.RequireRoles(models.RoleGymOwner, models.RoleAdmin),
					handlers.CreateMembership(db))
				memberships.PUT("/:id", handlers.UpdateMembership(db))
				memberships.GET("/my", handlers.GetMyMemberships(db))
			}

			// Booking routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db))
				bookings.GET("", handlers.GetMyBookings(db))
				bookings.GET("/:id", handlers.GetBooking(db))
				bookings.PUT("/:id/status", handlers.UpdateBookingStatus(db, hub))
				bookings.POST("/:id/cancel", handlers.CancelBooking(db, hub))
				bookings.PUT("/:id/status/owner",
					middleware.RequireRoles(models.RoleGymOwner, models.RoleAdmin),
					handlers.UpdateBookingStatusOwner(db, hub))
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/stats", handlers.GetAdminStats(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
