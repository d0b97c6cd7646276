package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/thanhtike404/hotel-booking/controllers"
	"github.com/thanhtike404/hotel-booking/middleware"
)

// RegisterBookingRoutes registers booking routes
func RegisterBookingRoutes(e *echo.Echo, bookingController *controllers.BookingController) {
	bookingGroup := e.Group("/api/v1/bookings")
	bookingGroup.Use(middleware.JWTMiddleware())
	bookingGroup.POST("", bookingController.CreateBooking)
	bookingGroup.GET("", bookingController.GetUserBookings)
	bookingGroup.GET("/:id", bookingController.GetBooking)
	bookingGroup.GET("/:id/qr", bookingController.GetBookingQR)

	adminGroup := e.Group("/api/v1/admin/bookings")
	adminGroup.Use(middleware.JWTMiddleware(), middleware.AdminOnly())
	adminGroup.GET("", bookingController.GetBookings)
}
