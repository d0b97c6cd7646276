package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thanhtike404/hotel-booking/config"
	"github.com/thanhtike404/hotel-booking/models"
)

// Error kinds surfaced by the notification store. Callers must distinguish
// NotFound from infrastructure failure: only ErrStoreUnavailable is retryable.
var (
	ErrValidation       = errors.New("invalid notification input")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// NotificationStore is the durable source of truth for notifications.
type NotificationStore interface {
	Create(ctx context.Context, userID primitive.ObjectID, message string, bookingID *primitive.ObjectID, status models.NotificationStatus) (*models.Notification, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, isRead bool) (*models.Notification, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.NotificationStatus) (*models.Notification, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
}

// NotificationRepository is the MongoDB-backed NotificationStore.
type NotificationRepository struct {
	db            *mongo.Client
	notifications *mongo.Collection
	bookings      *mongo.Collection
	rooms         *mongo.Collection
}

func NewNotificationRepository(db *mongo.Client) *NotificationRepository {
	return &NotificationRepository{
		db:            db,
		notifications: config.GetCollection(db, "notifications"),
		bookings:      config.GetCollection(db, "bookings"),
		rooms:         config.GetCollection(db, "rooms"),
	}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// Create inserts a new notification. It never silently drops: either the
// record is durably written or an error is returned.
func (r *NotificationRepository) Create(ctx context.Context, userID primitive.ObjectID, message string, bookingID *primitive.ObjectID, status models.NotificationStatus) (*models.Notification, error) {
	if userID.IsZero() || message == "" {
		return nil, ErrValidation
	}
	if status != "" && !models.ValidNotificationStatus(status) {
		return nil, ErrValidation
	}

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		BookingID: bookingID,
		Status:    status,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if _, err := r.notifications.InsertOne(ctx, notification); err != nil {
		return nil, storeErr(err)
	}
	return &notification, nil
}

// ListByUser returns all notifications for the user, newest first. No
// notifications is an empty slice, not an error.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.notifications.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, storeErr(err)
	}
	return notifications, nil
}

// Get fetches a single notification by id.
func (r *NotificationRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var notification models.Notification
	err := r.notifications.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &notification, nil
}

// MarkRead sets the read flag. Setting the same value twice is a no-op that
// still succeeds.
func (r *NotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID, isRead bool) (*models.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var notification models.Notification
	err := r.notifications.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isRead": isRead}},
		opts,
	).Decode(&notification)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &notification, nil
}

// UpdateStatus sets the booking-decision status on the notification. When the
// decision is ACCEPTED or REJECTED and the notification is tied to a booking,
// the correlated booking status is mirrored in the same transaction: both
// writes commit together or not at all.
func (r *NotificationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.NotificationStatus) (*models.Notification, error) {
	if !models.ValidNotificationStatus(status) {
		return nil, ErrValidation
	}

	session, err := r.db.StartSession()
	if err != nil {
		return nil, storeErr(err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var notification models.Notification
		err := r.notifications.FindOneAndUpdate(sc,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": status}},
			opts,
		).Decode(&notification)
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, storeErr(err)
		}

		if notification.BookingID != nil && (status == models.NotificationAccepted || status == models.NotificationRejected) {
			if err := r.mirrorBookingStatus(sc, *notification.BookingID, status); err != nil {
				return nil, err
			}
		}
		return &notification, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Notification), nil
}

// bookingTransition computes the booking-side effect of a notification
// decision against the booking's current status. changed is false when the
// booking already carries the target status, which makes reapplying the same
// decision a no-op. availabilityDelta is the room adjustment: a unit is taken
// on confirmation and given back only when a previously confirmed booking is
// cancelled.
func bookingTransition(current string, decision models.NotificationStatus) (next string, availabilityDelta int, changed bool) {
	next = models.BookingConfirmed
	if decision == models.NotificationRejected {
		next = models.BookingCancelled
	}
	if current == next {
		return next, 0, false
	}
	switch {
	case next == models.BookingConfirmed:
		availabilityDelta = -1
	case current == models.BookingConfirmed:
		availabilityDelta = 1
	}
	return next, availabilityDelta, true
}

// mirrorBookingStatus applies the booking-side effect of a notification
// decision. Applying the same decision twice leaves the booking in the same
// consistent state, and room availability is only adjusted on an actual
// transition.
func (r *NotificationRepository) mirrorBookingStatus(sc mongo.SessionContext, bookingID primitive.ObjectID, status models.NotificationStatus) error {
	var booking models.Booking
	err := r.bookings.FindOne(sc, bson.M{"_id": bookingID}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return storeErr(err)
	}

	next, delta, changed := bookingTransition(booking.Status, status)
	if !changed {
		return nil
	}

	_, err = r.bookings.UpdateOne(sc,
		bson.M{"_id": bookingID},
		bson.M{"$set": bson.M{"status": next, "updatedAt": time.Now()}},
	)
	if err != nil {
		return storeErr(err)
	}

	switch {
	case delta < 0:
		_, err = r.rooms.UpdateOne(sc,
			bson.M{"_id": booking.RoomID, "available": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"available": delta}},
		)
	case delta > 0:
		_, err = r.rooms.UpdateOne(sc,
			bson.M{"_id": booking.RoomID},
			bson.M{"$inc": bson.M{"available": delta}},
		)
	}
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// Delete removes the notification. Hard delete, no tombstoning.
func (r *NotificationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.notifications.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
