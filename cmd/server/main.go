package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/yukikurage/org-hierarchy-api/internal/config"
	"github.com/yukikurage/org-hierarchy-api/internal/constants"
	"github.com/yukikurage/org-hierarchy-api/internal/database"
	"github.com/yukikurage/org-hierarchy-api/internal/handlers"
	"github.com/yukikurage/org-hierarchy-api/internal/logging"
	"github.com/yukikurage/org-hierarchy-api/internal/middleware"
	"github.com/yukikurage/org-hierarchy-api/internal/repository"
	"github.com/yukikurage/org-hierarchy-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.IsRelease())
	logrus.SetLevel(logger.GetLevel())
	logrus.SetFormatter(logger.Formatter)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,              // Redis pool size
		"tcp",           // network type
		cfg.RedisAddr(), // Redis address from config
		"",              // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatalf("Failed to create Redis store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsRelease(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Hierarchy walks read through a snapshot transaction on both drivers
	orgRepo := repository.NewOrganizationRepository(database.GetDB(), repository.WithSnapshotReads())
	userRepo := repository.NewUserRepository(database.GetDB())

	authHandler := handlers.NewAuthHandler(services.NewAuthService(userRepo))
	orgHandler := handlers.NewOrganizationHandler(services.NewOrganizationService(orgRepo))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Organization Hierarchy API is running",
		})
	})

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	handlers.RegisterRoutes(r.Group("/api"), authHandler, orgHandler, orgRepo)

	// Start server
	addr := ":" + cfg.Port
	logger.WithField("addr", addr).Info("Server starting")
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
