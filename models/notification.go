package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationStatus is the booking-decision state carried by a notification.
// It is independent from IsRead.
type NotificationStatus string

const (
	NotificationRequested NotificationStatus = "REQUESTED"
	NotificationAccepted  NotificationStatus = "ACCEPTED"
	NotificationRejected  NotificationStatus = "REJECTED"
)

// ValidNotificationStatus reports whether s is one of the known status values.
func ValidNotificationStatus(s NotificationStatus) bool {
	switch s {
	case NotificationRequested, NotificationAccepted, NotificationRejected:
		return true
	}
	return false
}

// Notification model. Immutable after creation except for IsRead and Status.
type Notification struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `json:"userId" bson:"userId"`
	Message   string              `json:"message" bson:"message"`
	BookingID *primitive.ObjectID `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	Status    NotificationStatus  `json:"status,omitempty" bson:"status,omitempty"`
	IsRead    bool                `json:"isRead" bson:"isRead"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}

// CreateNotificationRequest is the request body for creating a notification
type CreateNotificationRequest struct {
	UserID    string             `json:"userId" validate:"required"`
	Message   string             `json:"message" validate:"required"`
	BookingID string             `json:"bookingId,omitempty"`
	Status    NotificationStatus `json:"status,omitempty"`
}

// MarkReadRequest is the request body for the read-acknowledgement endpoint
type MarkReadRequest struct {
	IsRead *bool `json:"isRead" validate:"required"`
}

// NotificationStatusRequest is the request body for the status update endpoint
type NotificationStatusRequest struct {
	Status NotificationStatus `json:"status" validate:"required"`
}

// NotifyRequest is the request body for the fire-and-forget push endpoint
type NotifyRequest struct {
	UserIDs []string    `json:"userIds" validate:"required"`
	Message string      `json:"message" validate:"required"`
	Type    string      `json:"type,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ConnectRequest registers or removes a connection binding
type ConnectRequest struct {
	UserID       string `json:"userId" validate:"required"`
	ConnectionID string `json:"connectionId"`
	Action       string `json:"action" validate:"required"` // "connect" or "disconnect"
}
