package main

import (
	"log"
	"rent_flow_app_go/config"
	"rent_flow_app_go/db"
	"rent_flow_app_go/handlers"
	"rent_flow_app_go/middleware"
	"rent_flow_app_go/models"
	"rent_flow_app_go/services"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.TursoDatabaseURL, cfg.TursoAuthToken, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Vehicle{},
		&models.BlockedDate{},
		&models.Reservation{},
		&models.Contract{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize file storage (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files (local storage uploads)
	e.Static("/static", "static")

	// Public routes (no authentication required)
	e.POST("/api/auth/register", handlers.RegisterHandler)
	e.POST("/api/auth/login", handlers.LoginHandler)
	e.GET("/api/vehicles", handlers.ListVehiclesHandler)
	e.GET("/api/vehicles/:id", handlers.GetVehicleHandler)
	e.GET("/api/vehicles/:id/unavailable-dates", handlers.GetUnavailableDatesHandler)
	e.GET("/api/vehicles/:id/availability", handlers.CheckAvailabilityHandler)

	// Protected routes (authentication required)
	protected := e.Group("/api")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/auth/logout", handlers.LogoutHandler)
		protected.GET("/me", handlers.GetCurrentUserHandler)
		protected.GET("/dashboard", handlers.DashboardHandler)

		// Identity verification
		protected.POST("/kyc", handlers.SubmitKYCHandler)

		// Reservations (handler-level party checks)
		protected.POST("/reservations", handlers.CreateReservationHandler)
		protected.GET("/reservations", handlers.ListMyReservationsHandler)
		protected.GET("/reservations/:id", handlers.GetReservationHandler)
		protected.POST("/reservations/:id/cancel", handlers.CancelReservationHandler)
		protected.PUT("/reservations/:id/dates", handlers.RescheduleReservationHandler)

		// Contracts
		protected.GET("/reservations/:id/contract", handlers.GetContractHandler)
		protected.GET("/reservations/:id/contract/download", handlers.DownloadContractHandler)
		protected.POST("/reservations/:id/contract/sign", handlers.SignContractHandler)

		// Owner-only routes
		ownerRoutes := protected.Group("")
		ownerRoutes.Use(middleware.RequireRole("owner", "admin"))
		{
			ownerRoutes.GET("/owner/vehicles", handlers.ListMyVehiclesHandler)
			ownerRoutes.POST("/vehicles", handlers.CreateVehicleHandler)
			ownerRoutes.PUT("/vehicles/:id", handlers.UpdateVehicleHandler)
			ownerRoutes.DELETE("/vehicles/:id", handlers.DeleteVehicleHandler)
			ownerRoutes.POST("/vehicles/:id/publish", handlers.PublishVehicleHandler)
			ownerRoutes.POST("/vehicles/:id/photos", handlers.UploadVehiclePhotoHandler)

			ownerRoutes.POST("/vehicles/:id/blocked-dates", handlers.CreateBlockedDateHandler)
			ownerRoutes.GET("/vehicles/:id/blocked-dates", handlers.ListBlockedDatesHandler)
			ownerRoutes.DELETE("/blocked-dates/:blockedDateId", handlers.DeleteBlockedDateHandler)

			ownerRoutes.GET("/owner/reservations", handlers.ListOwnerReservationsHandler)
			ownerRoutes.POST("/reservations/:id/confirm", handlers.ConfirmReservationHandler)
			ownerRoutes.POST("/reservations/:id/start", handlers.StartRentalHandler)
			ownerRoutes.POST("/reservations/:id/complete", handlers.CompleteRentalHandler)
			ownerRoutes.GET("/owner/reports/earnings", handlers.DownloadEarningsReportHandler)
		}

		// Admin-only routes
		adminRoutes := protected.Group("/admin")
		adminRoutes.Use(middleware.RequireRole("admin"))
		{
			adminRoutes.GET("/kyc", handlers.ListPendingKYCHandler)
			adminRoutes.POST("/kyc/:userId/review", handlers.ReviewKYCHandler)
			adminRoutes.GET("/kyc/:userId/document", handlers.GetKYCDocumentHandler)
		}
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			// Clean up expired sessions
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}

			// Cancel booking requests the owner never answered
			if err := services.ExpireStalePendingReservations(db.DB); err != nil {
				log.Printf("Error expiring stale reservations: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
