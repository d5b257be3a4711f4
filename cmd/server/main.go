package main

import (
	"log"
	"time"

	"letterflow_app_go/config"
	"letterflow_app_go/db"
	"letterflow_app_go/handlers"
	"letterflow_app_go/middleware"
	"letterflow_app_go/models"
	"letterflow_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.PasswordResetToken{},
		&models.Letter{},
		&models.SourceDocument{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize file storage (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files
	e.Static("/static", "static")

	// Public routes (no authentication required)
	e.GET("/", handlers.LoginHandler)
	e.GET("/login", handlers.LoginHandler)
	e.POST("/login", handlers.LoginPostHandler)
	e.GET("/register", handlers.RegisterHandler)
	e.POST("/register", handlers.RegisterPostHandler)
	e.GET("/forgot-password", handlers.ForgotPasswordHandler)
	e.POST("/forgot-password", handlers.ForgotPasswordPostHandler)
	e.GET("/reset-password", handlers.ResetPasswordHandler)
	e.POST("/reset-password", handlers.ResetPasswordPostHandler)

	// Protected routes
	protected := e.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/logout", handlers.LogoutHandler)
		protected.GET("/api/me", handlers.GetCurrentUserHandler)

		// Letters
		protected.GET("/letters", handlers.LettersHandler)
		protected.POST("/letters", handlers.CreateLetterHandler)
		protected.DELETE("/letters/:id", handlers.DeleteLetterHandler)
		protected.PUT("/letters/:id", handlers.UpdateLetterDetailsHandler)
		protected.GET("/letters/export/register", handlers.ExportRegisterHandler)

		// Editor
		protected.GET("/letters/:id/edit", handlers.EditorHandler)
		protected.PUT("/letters/:id/content", handlers.SaveLetterContentHandler)
		protected.PUT("/letters/:id/margins", handlers.UpdateLetterMarginsHandler)
		protected.POST("/letters/:id/pagination", handlers.PaginationHandler)

		// AI drafting
		protected.POST("/letters/:id/draft", handlers.GenerateDraftHandler)

		// Source documents
		protected.POST("/letters/:id/sources", handlers.UploadSourceHandler)
		protected.GET("/letters/:id/sources/:sourceID/file", handlers.DownloadSourceHandler)
		protected.DELETE("/letters/:id/sources/:sourceID", handlers.DeleteSourceHandler)

		// Exports
		protected.GET("/letters/:id/export/pdf", handlers.ExportPDFHandler)
		protected.GET("/letters/:id/export/doc", handlers.ExportDOCHandler)
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
			if err := services.CleanupExpiredTokens(db.DB); err != nil {
				log.Printf("Error cleaning up expired tokens: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
