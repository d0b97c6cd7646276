package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hotel model
type Hotel struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	City        string             `json:"city" bson:"city"`
	Country     string             `json:"country" bson:"country"`
	Address     string             `json:"address,omitempty" bson:"address,omitempty"`
	Rating      float64            `json:"rating,omitempty" bson:"rating,omitempty"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Room model. Available is the number of units currently bookable; it is
// decremented when a booking is confirmed and restored when a confirmed
// booking is cancelled.
type Room struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	HotelID   primitive.ObjectID `json:"hotelId" bson:"hotelId"`
	Name      string             `json:"name" bson:"name"`
	RoomType  string             `json:"roomType,omitempty" bson:"roomType,omitempty"`
	Price     float64            `json:"price" bson:"price"`
	Total     int                `json:"total" bson:"total"`
	Available int                `json:"available" bson:"available"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// HotelRequest model for admin create/update
type HotelRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	City        string  `json:"city" validate:"required"`
	Country     string  `json:"country" validate:"required"`
	Address     string  `json:"address,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// RoomRequest model for admin create/update
type RoomRequest struct {
	Name     string  `json:"name" validate:"required"`
	RoomType string  `json:"roomType,omitempty"`
	Price    float64 `json:"price" validate:"required"`
	Total    int     `json:"total" validate:"required"`
}
