package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/thanhtike404/hotel-booking/controllers"
	"github.com/thanhtike404/hotel-booking/middleware"
)

// RegisterHotelRoutes registers public hotel browsing and admin management routes
func RegisterHotelRoutes(e *echo.Echo, hotelController *controllers.HotelController, dashboardController *controllers.DashboardController) {
	hotelGroup := e.Group("/api/v1/hotels")
	hotelGroup.GET("", hotelController.GetHotels)
	hotelGroup.GET("/:id", hotelController.GetHotel)

	adminGroup := e.Group("/api/v1/admin")
	adminGroup.Use(middleware.JWTMiddleware(), middleware.AdminOnly())
	adminGroup.POST("/hotels", hotelController.CreateHotel)
	adminGroup.PUT("/hotels/:id", hotelController.UpdateHotel)
	adminGroup.DELETE("/hotels/:id", hotelController.DeleteHotel)
	adminGroup.POST("/hotels/:id/rooms", hotelController.CreateRoom)
	adminGroup.DELETE("/rooms/:id", hotelController.DeleteRoom)
	adminGroup.GET("/dashboard", dashboardController.GetStats)
}
