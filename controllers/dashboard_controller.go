package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thanhtike404/hotel-booking/config"
	"github.com/thanhtike404/hotel-booking/models"
)

// DashboardController aggregates counts for the admin dashboard
type DashboardController struct {
	db *mongo.Client
}

func NewDashboardController(db *mongo.Client) *DashboardController {
	return &DashboardController{db: db}
}

// GetStats handles GET /api/v1/admin/dashboard
func (dc *DashboardController) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats := map[string]interface{}{
		"hotels":              dc.count(ctx, "hotels", bson.M{}),
		"rooms":               dc.count(ctx, "rooms", bson.M{}),
		"users":               dc.count(ctx, "users", bson.M{"role": models.RoleUser}),
		"bookingsPending":     dc.count(ctx, "bookings", bson.M{"status": models.BookingPending}),
		"bookingsConfirmed":   dc.count(ctx, "bookings", bson.M{"status": models.BookingConfirmed}),
		"bookingsCancelled":   dc.count(ctx, "bookings", bson.M{"status": models.BookingCancelled}),
		"unreadNotifications": dc.count(ctx, "notifications", bson.M{"isRead": false}),
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats retrieved successfully",
		Data:    stats,
	})
}

func (dc *DashboardController) count(ctx context.Context, collection string, filter bson.M) int64 {
	n, err := config.GetCollection(dc.db, collection).CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("Error counting %s: %v", collection, err)
		return 0
	}
	return n
}
