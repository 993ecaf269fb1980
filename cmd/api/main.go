package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	_ "timologio/api/swagger" // swagger docs
	"timologio/internal/database"
	"timologio/internal/handler"
	"timologio/internal/middleware"
	"timologio/internal/repository"
	"timologio/internal/service"
	"timologio/internal/vat"
	"timologio/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Timologio VAT Service API
// @version         1.0
// @description     Checkout backend for Greek/EU VAT autofill and invoice-vs-receipt orders.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub for admin order notifications
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	cacheRepo := repository.NewLookupCacheRepository(db)

	// VAT provider clients. Endpoints and the AADE timeout are overridable
	// for staging against recorded fixtures.
	aadeClient := vat.NewAADEClient(os.Getenv("AADE_ENDPOINT"), aadeTimeoutFromEnv(), cacheRepo)
	viesClient := vat.NewVIESClient(os.Getenv("VIES_ENDPOINT"), 0)

	// Services (Repository -> Service -> Handler)
	authService := service.NewAuthService(userRepo)
	settingsService := service.NewSettingsService(db, settingRepo)
	lookupService := service.NewLookupService(db, settingRepo, aadeClient, viesClient)
	checkoutService := service.NewCheckoutService(db, orderRepo, wsHub)

	// Seed the admin account when configured
	if err := authService.EnsureAdmin(
		context.Background(),
		os.Getenv("ADMIN_USERNAME"),
		os.Getenv("ADMIN_EMAIL"),
		os.Getenv("ADMIN_PASSWORD"),
	); err != nil {
		log.Printf("WARNING: Failed to seed admin account: %v", err)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	vatHandler := handler.NewVATHandler(lookupService, authService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration: storefront + admin origins
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	if origin := os.Getenv("STOREFRONT_ORIGIN"); origin != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint (admin order feed)
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	vatHandler.RegisterRoutes(router.Group(""))
	checkoutHandler.RegisterRoutes(router.Group(""))
	settingsHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func aadeTimeoutFromEnv() time.Duration {
	if v := os.Getenv("AADE_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0 // client default
}
