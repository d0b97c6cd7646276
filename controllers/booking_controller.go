package controllers

import (
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

// BookingController handles booking-related API endpoints
type BookingController struct {
	bookings      *repositories.BookingRepository
	hotels        *repositories.HotelRepository
	users         *repositories.UserRepository
	notifications repositories.NotificationStore
	gateway       *delivery.Gateway
}

// NewBookingController creates a new booking controller
func NewBookingController(bookings *repositories.BookingRepository, hotels *repositories.HotelRepository, users *repositories.UserRepository, notifications repositories.NotificationStore, gateway *delivery.Gateway) *BookingController {
	return &BookingController{
		bookings:      bookings,
		hotels:        hotels,
		users:         users,
		notifications: notifications,
		gateway:       gateway,
	}
}

// CreateBooking handles the creation of a new booking. The booking and its
// notifications are durably written before any push is attempted.
func (bc *BookingController) CreateBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	user, err := bc.users.FindByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User not found",
		})
	}

	var req models.BookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing required fields",
		})
	}
	if !req.CheckOut.After(req.CheckIn) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "checkOut must be after checkIn",
		})
	}

	hotelID, err := primitive.ObjectIDFromHex(req.HotelID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid hotel ID",
		})
	}
	roomID, err := primitive.ObjectIDFromHex(req.RoomID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid room ID",
		})
	}

	room, err := bc.hotels.GetRoom(c.Request().Context(), roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Room not found",
			})
		}
		return storeErrorResponse(c, err)
	}
	if room.HotelID != hotelID {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Room does not belong to this hotel",
		})
	}
	if room.Available <= 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "No rooms of this type are available",
		})
	}

	booking := models.Booking{
		UserID:   user.ID,
		HotelID:  hotelID,
		RoomID:   roomID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
	}
	if err := bc.bookings.Create(c.Request().Context(), &booking); err != nil {
		return storeErrorResponse(c, err)
	}

	// Durable notifications first: guest confirmation plus one per admin.
	guestNotif, err := bc.notifications.Create(c.Request().Context(), user.ID,
		"Your booking request has been received", &booking.ID, models.NotificationRequested)
	if err != nil {
		log.Printf("Failed to save booking notification for guest %s: %v", user.ID.Hex(), err)
	}

	admins, err := bc.users.ListAdmins(c.Request().Context())
	if err != nil {
		log.Printf("Failed to list admins for booking notification: %v", err)
	}

	adminIDs := make([]string, 0, len(admins))
	for _, admin := range admins {
		adminIDs = append(adminIDs, admin.ID.Hex())
		if _, err := bc.notifications.Create(c.Request().Context(), admin.ID,
			"New booking request from "+user.FullName, &booking.ID, models.NotificationRequested); err != nil {
			log.Printf("Failed to save booking notification for admin %s: %v", admin.ID.Hex(), err)
		}
	}

	// Best-effort push, strictly after the store writes.
	if guestNotif != nil {
		bc.gateway.Deliver(c.Request().Context(), []string{user.ID.Hex()},
			utils.BuildPushMessage(guestNotif, "booking_request", booking))
	}
	if len(adminIDs) > 0 {
		bc.gateway.Deliver(c.Request().Context(), adminIDs,
			utils.BuildAdHocPushMessage("New booking request from "+user.FullName, "booking_request", booking))
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// GetUserBookings retrieves all bookings for the authenticated user
func (bc *BookingController) GetUserBookings(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	bookings, err := bc.bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetBookings retrieves all bookings (admin)
func (bc *BookingController) GetBookings(c echo.Context) error {
	bookings, err := bc.bookings.ListAll(c.Request().Context())
	if err != nil {
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetBooking retrieves a single booking
func (bc *BookingController) GetBooking(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	booking, err := bc.bookings.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Booking not found",
			})
		}
		return storeErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    booking,
	})
}

// GetBookingQR serves the check-in QR code for a confirmed booking
func (bc *BookingController) GetBookingQR(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	booking, err := bc.bookings.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Booking not found",
			})
		}
		return storeErrorResponse(c, err)
	}

	if booking.Status != models.BookingConfirmed {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "QR code is only available for confirmed bookings",
		})
	}

	qrPNG, err := utils.BookingQRCode(booking.ID.Hex(), 256)
	if err != nil {
		log.Printf("Failed to render booking QR: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}

	return c.Blob(http.StatusOK, "image/png", qrPNG)
}
