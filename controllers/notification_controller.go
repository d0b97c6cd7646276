package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thanhtike404/hotel-booking/delivery"
	"github.com/thanhtike404/hotel-booking/middleware"
	"github.com/thanhtike404/hotel-booking/models"
	"github.com/thanhtike404/hotel-booking/repositories"
	"github.com/thanhtike404/hotel-booking/utils"
)

// NotificationController exposes the notification store over HTTP and fans
// booking decisions out through the delivery gateway. Store errors propagate
// as structured responses; gateway failures are absorbed into counts.
type NotificationController struct {
	store    repositories.NotificationStore
	bookings repositories.BookingStore
	users    repositories.UserStore
	gateway  *delivery.Gateway
}

func NewNotificationController(store repositories.NotificationStore, bookings repositories.BookingStore, users repositories.UserStore, gateway *delivery.Gateway) *NotificationController {
	return &NotificationController{store: store, bookings: bookings, users: users, gateway: gateway}
}

// storeErrorResponse maps store error kinds onto HTTP statuses.
func storeErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repositories.ErrValidation):
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Not found",
		})
	default:
		log.Printf("Notification store error: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
}

// CreateNotification handles POST /api/v1/notifications. The durable write
// commits first; the push afterwards is best-effort only.
func (nc *NotificationController) CreateNotification(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var req models.CreateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.UserID == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var bookingID *primitive.ObjectID
	if req.BookingID != "" {
		id, err := primitive.ObjectIDFromHex(req.BookingID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid booking ID",
			})
		}
		bookingID = &id
	}

	notification, err := nc.store.Create(c.Request().Context(), userID, req.Message, bookingID, req.Status)
	if err != nil {
		return storeErrorResponse(c, err)
	}

	// Push only after the durable write has committed.
	nc.gateway.Deliver(c.Request().Context(), []string{req.UserID}, utils.BuildPushMessage(notification, "notification", nil))

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":      true,
		"notification": notification,
	})
}

// GetNotifications handles GET /api/v1/notifications?userId=
func (nc *NotificationController) GetNotifications(c echo.Context) error {
	userIDParam := c.QueryParam("userId")
	if userIDParam == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "userId query parameter is required",
		})
	}

	userID, err := primitive.ObjectIDFromHex(userIDParam)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	notifications, err := nc.store.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, notifications)
}

// GetNotification handles GET /api/v1/notifications/:id
func (nc *NotificationController) GetNotification(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	notification, err := nc.store.Get(c.Request().Context(), id)
	if err != nil {
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, notification)
}

// MarkRead handles PATCH /api/v1/notifications/:id
func (nc *NotificationController) MarkRead(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	var req models.MarkReadRequest
	if err := c.Bind(&req); err != nil || req.IsRead == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "isRead field is required",
		})
	}

	notification, err := nc.store.MarkRead(c.Request().Context(), id, *req.IsRead)
	if err != nil {
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, notification)
}

// UpdateStatus handles PATCH /api/v1/notifications/:id/status. An ACCEPTED or
// REJECTED decision mirrors onto the correlated booking, then pushes to the
// guest and every admin.
func (nc *NotificationController) UpdateStatus(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	var req models.NotificationStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if !models.ValidNotificationStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "status must be REQUESTED, ACCEPTED or REJECTED",
		})
	}

	notification, err := nc.store.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return storeErrorResponse(c, err)
	}

	message := "Notification status updated"
	if req.Status == models.NotificationAccepted || req.Status == models.NotificationRejected {
		message = nc.notifyDecision(c.Request().Context(), notification, req.Status)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"notification": notification,
		"message":      message,
	})
}

// notifyDecision pushes the booking decision to the guest and all admins.
// Everything here is best-effort; the decision itself has already committed.
func (nc *NotificationController) notifyDecision(ctx context.Context, notification *models.Notification, status models.NotificationStatus) string {
	decision := "accepted"
	if status == models.NotificationRejected {
		decision = "rejected"
	}
	message := "Booking " + decision

	if notification.BookingID == nil {
		return message
	}

	booking, err := nc.bookings.Get(ctx, *notification.BookingID)
	if err != nil {
		log.Printf("Failed to load booking %s for decision push: %v", notification.BookingID.Hex(), err)
		return message
	}

	guestID := booking.UserID.Hex()
	guestMsg := utils.BuildAdHocPushMessage("Your booking has been "+decision, "booking_update", booking)
	nc.gateway.Deliver(ctx, []string{guestID}, guestMsg)

	admins, err := nc.users.ListAdmins(ctx)
	if err != nil {
		log.Printf("Failed to list admins for decision push: %v", err)
	} else {
		adminIDs := make([]string, 0, len(admins))
		for _, admin := range admins {
			adminIDs = append(adminIDs, admin.ID.Hex())
		}
		adminMsg := utils.BuildAdHocPushMessage("Booking "+booking.ID.Hex()+" has been "+decision, "booking_decision", booking)
		nc.gateway.Deliver(ctx, adminIDs, adminMsg)
	}

	if guest, err := nc.users.FindByID(ctx, booking.UserID); err == nil {
		if err := utils.SendBookingDecisionEmail(guest, booking, decision); err != nil {
			log.Printf("Failed to send booking decision email to %s: %v", guest.Email, err)
		}
	}

	return message
}

// DeleteNotification handles DELETE /api/v1/notifications/:id
func (nc *NotificationController) DeleteNotification(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid notification ID",
		})
	}

	if err := nc.store.Delete(c.Request().Context(), id); err != nil {
		return storeErrorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
