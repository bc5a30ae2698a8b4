package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wanderplan/models"
)

// savedTrip is the stored document. City doubles as the unique key.
type savedTrip struct {
	models.TravelPackage `bson:",inline"`
	SavedAt              time.Time `bson:"saved_at"`
	UpdatedAt            time.Time `bson:"updated_at"`
}

// MongoStore keeps saved trips in a MongoDB collection with a unique index on
// city.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore uses coll and makes sure the city index exists.
func NewMongoStore(ctx context.Context, coll *mongo.Collection) (*MongoStore, error) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "city", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create city index: %w", err)
	}
	return &MongoStore{coll: coll}, nil
}

func (s *MongoStore) List(ctx context.Context) ([]models.TravelPackage, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "saved_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trips := []models.TravelPackage{}
	for cursor.Next(ctx) {
		var t savedTrip
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode saved trip: %w", err)
		}
		trips = append(trips, t.TravelPackage)
	}
	return trips, cursor.Err()
}

func (s *MongoStore) Get(ctx context.Context, city string) (*models.TravelPackage, error) {
	var t savedTrip
	err := s.coll.FindOne(ctx, bson.M{"city": city}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t.TravelPackage, nil
}

func (s *MongoStore) Contains(ctx context.Context, city string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"city": city}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Toggle deletes first; only when nothing was deleted is the trip inserted.
func (s *MongoStore) Toggle(ctx context.Context, pkg *models.TravelPackage) (bool, error) {
	if pkg == nil {
		return false, errors.New("nil package")
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"city": pkg.City})
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	now := time.Now()
	_, err = s.coll.InsertOne(ctx, savedTrip{TravelPackage: *pkg.Clone(), SavedAt: now, UpdatedAt: now})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MongoStore) ReplaceItinerary(ctx context.Context, city string, items []models.ItineraryItem) error {
	if items == nil {
		items = []models.ItineraryItem{}
	}
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"city": city},
		bson.M{"$set": bson.M{"itinerary": items, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrTripNotFound
	}
	return nil
}

func (s *MongoStore) Remove(ctx context.Context, city string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"city": city})
	return err
}

// ConnectMongo dials uri and returns the client. Callers disconnect it.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}
