// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skillset/skillset-backend/internal/config"
	"github.com/skillset/skillset-backend/internal/handlers"
	"github.com/skillset/skillset-backend/internal/middleware"
	"github.com/skillset/skillset-backend/internal/services"
	"github.com/skillset/skillset-backend/internal/store"
	"github.com/skillset/skillset-backend/internal/utils"
)

// Initialize wires services, handlers and routes. The store, object
// storage and mailer are injected so tests can swap in fakes.
func Initialize(st store.Store, storage services.ObjectStorage, mailer services.Mailer, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(st, cfg)
	uploadService := services.NewUploadService(st)
	priceService := services.NewPriceService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Session)
	taskHandler := handlers.NewTaskHandler(st)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	objectHandler := handlers.NewObjectHandler(storage, uploadService)
	contactHandler := handlers.NewContactHandler(mailer)
	priceHandler := handlers.NewPriceHandler(priceService)

	utils.SetSessionSecret(cfg.Session.SecretKey)

	sessionRequired := middleware.SessionRequired(st, cfg.Session.CookieName)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", sessionRequired, authHandler.Logout)
			auth.GET("/me", sessionRequired, authHandler.Me)
		}

		// Task catalog (public, read-only)
		api.GET("/tasks", taskHandler.List)

		// Upload workflow
		uploads := api.Group("/uploads")
		uploads.Use(sessionRequired)
		{
			uploads.POST("", uploadHandler.Create)
			uploads.GET("/me", uploadHandler.ListMine)
			uploads.POST("/:uploadId/cancel", uploadHandler.Cancel)
			uploads.PUT("/:uploadId/file", uploadHandler.AttachFile)

			// Admin decisions
			uploads.POST("/:uploadId/validate", middleware.AdminRequired(), uploadHandler.Validate)
			uploads.POST("/:uploadId/reject", middleware.AdminRequired(), uploadHandler.Reject)
		}

		// Admin listing
		admin := api.Group("/admin")
		admin.Use(sessionRequired, middleware.AdminRequired())
		{
			admin.GET("/uploads", uploadHandler.ListAll)
		}

		// Object storage gateway
		api.POST("/objects/upload", sessionRequired, objectHandler.IssueUploadURL)

		// Public integrations
		api.POST("/contact", contactHandler.Submit)
		api.GET("/skill-price", priceHandler.SkillPrice)
	}

	// Object download keeps its path outside /api for compatibility.
	r.GET("/objects/*objectPath", sessionRequired, objectHandler.Download)

	return r
}
