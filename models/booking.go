package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking status values. A booking starts as PENDING and is moved to
// CONFIRMED or CANCELLED by the admin decision on its notification.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking model
type Booking struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	HotelID   primitive.ObjectID `json:"hotelId" bson:"hotelId"`
	RoomID    primitive.ObjectID `json:"roomId" bson:"roomId"`
	CheckIn   time.Time          `json:"checkIn" bson:"checkIn"`
	CheckOut  time.Time          `json:"checkOut" bson:"checkOut"`
	Guests    int                `json:"guests" bson:"guests"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// BookingRequest model
type BookingRequest struct {
	HotelID  string    `json:"hotelId" validate:"required"`
	RoomID   string    `json:"roomId" validate:"required"`
	CheckIn  time.Time `json:"checkIn" validate:"required"`
	CheckOut time.Time `json:"checkOut" validate:"required"`
	Guests   int       `json:"guests"`
}
