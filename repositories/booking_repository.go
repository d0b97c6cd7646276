package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thanhtike404/hotel-booking/config"
	"github.com/thanhtike404/hotel-booking/models"
)

// BookingStore is the subset of booking persistence the notification flow
// needs to resolve the guest behind a decision.
type BookingStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
}

type BookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Client) *BookingRepository {
	return &BookingRepository{
		collection: config.GetCollection(db, "bookings"),
	}
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.ID = primitive.NewObjectID()
	booking.Status = models.BookingPending
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *BookingRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &booking, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, bson.M{})
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, storeErr(err)
	}
	return bookings, nil
}
