package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/PhilipFalla/pokecollect-gui/internal/api/handlers"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
	"github.com/PhilipFalla/pokecollect-gui/internal/services"
)

// Config holds the router's environment-derived settings
type Config struct {
	CORSOrigins      []string
	FrontendDistPath string
	LoginRateLimit   int // attempts per minute per IP, 0 disables
}

// DefaultLoginRateLimit is the per-IP credential checks allowed per minute
const DefaultLoginRateLimit = 10

// ConfigFromEnv reads CORS_ALLOWED_ORIGINS, FRONTEND_DIST_PATH and LOGIN_RATE_LIMIT
func ConfigFromEnv() Config {
	cfg := Config{
		CORSOrigins:      []string{"http://localhost:5173", "http://localhost:3000"},
		FrontendDistPath: os.Getenv("FRONTEND_DIST_PATH"),
		LoginRateLimit:   DefaultLoginRateLimit,
	}
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		cfg.CORSOrigins = strings.Split(corsOrigins, ",")
	}
	if limitStr := os.Getenv("LOGIN_RATE_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			cfg.LoginRateLimit = limit
		}
	}
	return cfg
}

// Services bundles what the handlers depend on
type Services struct {
	DB           *gorm.DB
	Prices       *services.PriceService
	Passwords    *services.PasswordService
	ImageStorage *services.ImageStorageService
	Snapshots    *services.SnapshotService
	Logger       *slog.Logger
}

func SetupRouter(cfg Config, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	router.Use(RequestLogger(logger))

	serveFrontend := cfg.FrontendDistPath != "" && dirExists(cfg.FrontendDistPath)

	// CORS configuration. No origins means same-origin only.
	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		corsConfig.AllowCredentials = false // Explicitly set
		router.Use(cors.New(corsConfig))
	}

	// Initialize handlers
	userHandler := handlers.NewUserHandler(svc.DB, svc.Passwords, svc.ImageStorage)
	collectionHandler := handlers.NewCollectionHandler(svc.DB, svc.Prices, svc.Snapshots)
	cardHandler := handlers.NewCardHandler(svc.DB, svc.Prices, svc.ImageStorage)
	priceHandler := handlers.NewPriceHandler(svc.Prices)

	// Serve stored card images
	if svc.ImageStorage != nil {
		router.Static(handlers.ImageRoute, svc.ImageStorage.GetStorageDir())
	}

	users := router.Group("/users")
	{
		users.POST("/", userHandler.CreateUser)
		users.GET("/:email", LoginRateLimit(cfg.LoginRateLimit), userHandler.GetUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	collections := router.Group("/collections")
	{
		collections.POST("/", collectionHandler.CreateCollection)
		collections.GET("/user/:userId", collectionHandler.GetCollectionsByUser)
		collections.GET("/:id", collectionHandler.GetCollection)
		collections.PUT("/:id/exchange_rate", collectionHandler.UpdateExchangeRate)
		collections.GET("/:id/history", collectionHandler.GetValueHistory)
	}

	cards := router.Group("/cards_in_collection")
	{
		cards.GET("/details/:collectionId", cardHandler.GetCardsByCollection)
		cards.POST("/", cardHandler.AddCardToCollection)
		cards.DELETE("/", cardHandler.RemoveCardFromCollection)
	}

	router.PUT("/prices/", priceHandler.UpsertPrice)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "Not found"})
	}

	// Serve frontend static files
	if serveFrontend {
		indexPath := filepath.Join(cfg.FrontendDistPath, "index.html")

		router.Static("/assets", filepath.Join(cfg.FrontendDistPath, "assets"))

		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet || isAPIPath(c.Request.URL.Path) {
				notFound(c)
				return
			}
			c.File(indexPath)
		})
	} else {
		router.NoRoute(notFound)
	}

	return router
}

func isAPIPath(path string) bool {
	for _, prefix := range []string{"/users", "/collections/", "/cards_in_collection", "/prices", "/images"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
