package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/citytransit/fleet-admin-backend/internal/config"
	"github.com/citytransit/fleet-admin-backend/internal/database"
	"github.com/citytransit/fleet-admin-backend/internal/handlers"
	"github.com/citytransit/fleet-admin-backend/internal/middleware"
	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
	"github.com/citytransit/fleet-admin-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting CityTransit Fleet Administration Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("Failed to run database migrations: %v", err)
	}
	logger.Info("Database schema is up to date")

	// Initialize repositories
	userRepository := database.NewUserRepository(db)

	// Seed the initial admin account when configured. There is no
	// registration endpoint; accounts exist only through this path or
	// direct database inserts.
	if cfg.Security.AdminEmail != "" && cfg.Security.AdminPassword != "" {
		if err := bootstrapAdmin(cfg, userRepository, logger); err != nil {
			logger.Fatalf("Failed to bootstrap admin account: %v", err)
		}
	}
	busRepository := database.NewBusRepository(db)
	routeRepository := database.NewRouteRepository(db)
	scheduleRepository := database.NewScheduleRepository(db)
	contactRepository := database.NewContactRepository(db)
	staffContactRepository := database.NewStaffContactRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	resolver := services.NewResolver(userRepository, routeRepository, busRepository)

	authService := services.NewAuthService(userRepository, jwtService, logger)
	fleetService := services.NewFleetService(busRepository, resolver, logger)
	routeService := services.NewRouteService(routeRepository, logger)
	scheduleService := services.NewScheduleService(scheduleRepository, resolver, logger)
	contactService := services.NewContactService(contactRepository, resolver, logger)
	staffContactService := services.NewStaffContactService(staffContactRepository, logger)
	dashboardService := services.NewDashboardService(&services.RepositoryAggregate{
		Buses:     busRepository,
		Routes:    routeRepository,
		Schedules: scheduleRepository,
		Contacts:  contactRepository,
	}, logger)

	// Initialize handlers
	production := cfg.IsProduction()
	authHandler := handlers.NewAuthHandler(authService, production)
	fleetHandler := handlers.NewFleetHandler(fleetService, production)
	routeHandler := handlers.NewRouteHandler(routeService, production)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, production)
	contactHandler := handlers.NewContactHandler(contactService, production)
	staffContactHandler := handlers.NewStaffContactHandler(staffContactService, production)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Router and middleware
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}
		v1.POST("/inquiries", contactHandler.CreateInquiry)

		// Authenticated endpoints
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService))
		adminOnly := middleware.RequireRole(string(models.RoleAdmin))
		{
			contacts := authed.Group("/contacts")
			{
				contacts.POST("", contactHandler.Create)
				contacts.GET("", contactHandler.List)
				contacts.GET("/stats/summary", contactHandler.Stats)
				contacts.GET("/category/:category", contactHandler.ListByCategory)
				contacts.GET("/urgent/all", contactHandler.ListUrgent)
				contacts.GET("/:id", contactHandler.Get)
				contacts.PUT("/:id", contactHandler.Update)
				contacts.POST("/:id/respond", contactHandler.Respond)
				contacts.DELETE("/:id", adminOnly, contactHandler.Delete)
			}

			inquiries := authed.Group("/inquiries")
			{
				inquiries.GET("", contactHandler.ListInquiries)
				inquiries.GET("/:id", contactHandler.Get)
				inquiries.PUT("/:id", contactHandler.Update)
				inquiries.POST("/:id/respond", contactHandler.Respond)
			}

			fleet := authed.Group("/fleet")
			{
				fleet.POST("", fleetHandler.Create)
				fleet.GET("", fleetHandler.List)
				fleet.GET("/stats/summary", fleetHandler.Stats)
				fleet.GET("/:id", fleetHandler.Get)
				fleet.PUT("/:id", fleetHandler.Update)
				fleet.DELETE("/:id", adminOnly, fleetHandler.Delete)
			}

			routes := authed.Group("/routes")
			{
				routes.POST("", routeHandler.Create)
				routes.GET("", routeHandler.List)
				routes.GET("/:id", routeHandler.Get)
				routes.PUT("/:id", routeHandler.Update)
				routes.DELETE("/:id", adminOnly, routeHandler.Delete)
			}

			schedules := authed.Group("/schedules")
			{
				schedules.POST("", scheduleHandler.Create)
				schedules.GET("", scheduleHandler.List)
				schedules.GET("/:id", scheduleHandler.Get)
				schedules.PUT("/:id", scheduleHandler.Update)
				schedules.POST("/:id/delays", scheduleHandler.AddDelay)
				schedules.DELETE("/:id", adminOnly, scheduleHandler.Delete)
			}

			dashboard := authed.Group("/dashboard")
			{
				dashboard.GET("/stats", dashboardHandler.Stats)
				dashboard.GET("/overview", dashboardHandler.Overview)
				dashboard.GET("/fleet-status", dashboardHandler.FleetStatus)
				dashboard.GET("/alerts", dashboardHandler.Alerts)
				dashboard.GET("/performance", dashboardHandler.Performance)
				dashboard.GET("/routes/performance", dashboardHandler.RoutePerformance)
				dashboard.GET("/trends/weekly", dashboardHandler.WeeklyTrends)
				dashboard.GET("/complete", dashboardHandler.Complete)
			}

			staffContacts := authed.Group("/staff-contacts")
			{
				staffContacts.POST("", staffContactHandler.Create)
				staffContacts.GET("", staffContactHandler.List)
				staffContacts.GET("/:id", staffContactHandler.Get)
				staffContacts.PUT("/:id", staffContactHandler.Update)
				staffContacts.DELETE("/:id", adminOnly, staffContactHandler.Delete)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// bootstrapAdmin creates the configured admin account if it does not exist
func bootstrapAdmin(cfg *config.Config, users *database.UserRepository, logger *logrus.Logger) error {
	email := models.NormalizeEmail(cfg.Security.AdminEmail)

	existing, err := users.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Security.AdminPassword), cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:           database.NewID(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "System",
		LastName:     "Administrator",
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := users.Create(admin); err != nil {
		return err
	}

	logger.WithField("email", email).Info("Admin account created")
	return nil
}

// healthCheckHandler reports server and database health
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
