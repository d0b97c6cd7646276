package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/thanhtike404/hotel-booking/controllers"
	"github.com/thanhtike404/hotel-booking/middleware"
)

// RegisterAuthRoutes registers signup/login and device token routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	authGroup := e.Group("/api/v1/auth")
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)

	userGroup := e.Group("/api/v1/users")
	userGroup.Use(middleware.JWTMiddleware())
	userGroup.POST("/device-token", authController.UpdateDeviceToken)
}
