package main

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/thanhtike404/hotel-booking/config"
	"github.com/thanhtike404/hotel-booking/controllers"
	"github.com/thanhtike404/hotel-booking/delivery"
	"github.com/thanhtike404/hotel-booking/middleware"
	"github.com/thanhtike404/hotel-booking/repositories"
	"github.com/thanhtike404/hotel-booking/routes"
	"github.com/thanhtike404/hotel-booking/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize Firebase (optional; enables the FCM delivery fallback)
	config.InitFirebase()

	// Connect to Redis (optional; enables the shared connection registry)
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Connection registry: Redis-backed when available, in-memory otherwise
	var registry websocket.Registry
	if redisClient != nil && os.Getenv("REGISTRY_BACKEND") == "redis" {
		registry = websocket.NewRedisRegistry(redisClient, 24*time.Hour)
		log.Println("Using Redis-backed connection registry")
	} else {
		registry = websocket.NewRegistry()
	}

	// Create WebSocket hub
	wsHub := websocket.NewHub(registry)
	go wsHub.Run()

	// Delivery gateway with its fallback ladder: direct hub push, HTTP relay,
	// FCM, then log-only. Push failure never propagates past the gateway.
	gateway := delivery.NewGateway(
		delivery.NewHubStrategy(wsHub, registry),
		delivery.NewRelayStrategy(os.Getenv("NOTIFY_RELAY_URL")),
		delivery.NewFCMStrategy(client),
		delivery.NewLogStrategy(os.Getenv("DELIVERY_LOG_ONLY") == "true"),
	)

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories
	notificationRepo := repositories.NewNotificationRepository(client)
	bookingRepo := repositories.NewBookingRepository(client)
	hotelRepo := repositories.NewHotelRepository(client)
	userRepo := repositories.NewUserRepository(client)

	// Initialize controllers
	authController := controllers.NewAuthController(userRepo)
	hotelController := controllers.NewHotelController(hotelRepo)
	dashboardController := controllers.NewDashboardController(client)
	bookingController := controllers.NewBookingController(bookingRepo, hotelRepo, userRepo, notificationRepo, gateway)
	notificationController := controllers.NewNotificationController(notificationRepo, bookingRepo, userRepo, gateway)
	wsController := controllers.NewWebSocketController(wsHub, registry, gateway)

	// Register routes
	routes.RegisterAuthRoutes(e, authController)
	routes.RegisterHotelRoutes(e, hotelController, dashboardController)
	routes.RegisterBookingRoutes(e, bookingController)
	routes.RegisterNotificationRoutes(e, notificationController, wsController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
