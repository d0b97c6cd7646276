package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/thanhtike404/hotel-booking/controllers"
	"github.com/thanhtike404/hotel-booking/middleware"
)

// RegisterNotificationRoutes registers all notification-related routes
func RegisterNotificationRoutes(e *echo.Echo, notificationController *controllers.NotificationController, wsController *controllers.WebSocketController) {
	// The upgrade endpoint authenticates via the userId it subscribes for;
	// pushes only flow to it after the registry binds the connection.
	e.GET("/api/v1/ws", wsController.HandleWebSocket)

	notificationGroup := e.Group("/api/v1/notifications")
	notificationGroup.Use(middleware.JWTMiddleware())
	notificationGroup.POST("", notificationController.CreateNotification)
	notificationGroup.GET("", notificationController.GetNotifications)
	notificationGroup.GET("/:id", notificationController.GetNotification)
	notificationGroup.PATCH("/:id", notificationController.MarkRead)
	notificationGroup.PATCH("/:id/status", notificationController.UpdateStatus)
	notificationGroup.DELETE("/:id", notificationController.DeleteNotification)

	websocketGroup := e.Group("/api/v1/websocket")
	websocketGroup.Use(middleware.JWTMiddleware())
	websocketGroup.POST("/connect", wsController.Connect)
	websocketGroup.POST("/notify", wsController.Notify)
}
