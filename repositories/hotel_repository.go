package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thanhtike404/hotel-booking/config"
	"github.com/thanhtike404/hotel-booking/models"
)

type HotelRepository struct {
	hotels *mongo.Collection
	rooms  *mongo.Collection
}

func NewHotelRepository(db *mongo.Client) *HotelRepository {
	return &HotelRepository{
		hotels: config.GetCollection(db, "hotels"),
		rooms:  config.GetCollection(db, "rooms"),
	}
}

// List returns hotels, optionally filtered by city and/or name substring.
func (r *HotelRepository) List(ctx context.Context, city, name string) ([]models.Hotel, error) {
	filter := bson.M{}
	if city != "" {
		filter["city"] = bson.M{"$regex": city, "$options": "i"}
	}
	if name != "" {
		filter["name"] = bson.M{"$regex": name, "$options": "i"}
	}

	cursor, err := r.hotels.Find(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	hotels := []models.Hotel{}
	if err = cursor.All(ctx, &hotels); err != nil {
		return nil, storeErr(err)
	}
	return hotels, nil
}

func (r *HotelRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.hotels.FindOne(ctx, bson.M{"_id": id}).Decode(&hotel)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &hotel, nil
}

func (r *HotelRepository) Create(ctx context.Context, hotel *models.Hotel) error {
	now := time.Now()
	hotel.ID = primitive.NewObjectID()
	hotel.CreatedAt = now
	hotel.UpdatedAt = now

	_, err := r.hotels.InsertOne(ctx, hotel)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *HotelRepository) Update(ctx context.Context, id primitive.ObjectID, req models.HotelRequest) (*models.Hotel, error) {
	update := bson.M{"$set": bson.M{
		"name":        req.Name,
		"description": req.Description,
		"city":        req.City,
		"country":     req.Country,
		"address":     req.Address,
		"rating":      req.Rating,
		"image":       req.Image,
		"updatedAt":   time.Now(),
	}}

	res, err := r.hotels.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return nil, storeErr(err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a hotel and its rooms.
func (r *HotelRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.hotels.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := r.rooms.DeleteMany(ctx, bson.M{"hotelId": id}); err != nil {
		return storeErr(err)
	}
	return nil
}

// ListRooms returns all rooms of a hotel.
func (r *HotelRepository) ListRooms(ctx context.Context, hotelID primitive.ObjectID) ([]models.Room, error) {
	cursor, err := r.rooms.Find(ctx, bson.M{"hotelId": hotelID})
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	rooms := []models.Room{}
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, storeErr(err)
	}
	return rooms, nil
}

func (r *HotelRepository) GetRoom(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	var room models.Room
	err := r.rooms.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &room, nil
}

func (r *HotelRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	now := time.Now()
	room.ID = primitive.NewObjectID()
	room.Available = room.Total
	room.CreatedAt = now
	room.UpdatedAt = now

	_, err := r.rooms.InsertOne(ctx, room)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *HotelRepository) DeleteRoom(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.rooms.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
