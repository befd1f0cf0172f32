package repository

import (
	"context"
	"fmt"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightAuditRepository implements FlightAuditRepository
type MongoFlightAuditRepository struct {
	collection *mongo.Collection
}

// NewMongoFlightAuditRepository creates a new flight audit repository
func NewMongoFlightAuditRepository(ctx context.Context, db *mongo.Database) (repository.FlightAuditRepository, error) {
	collection := db.Collection("flight_audit")

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "flightCode", Value: 1}, {Key: "occurredAt", Value: -1}}},
		{Keys: bson.M{"flightId": 1}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create flight_audit indexes: %w", err)
	}

	return &MongoFlightAuditRepository{
		collection: collection,
	}, nil
}

// Record appends one lifecycle event
func (r *MongoFlightAuditRepository) Record(ctx context.Context, event *entity.FlightEvent) error {
	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert flight event: %w", err)
	}
	return nil
}

// FindByFlightCode returns the newest events for a flight code
func (r *MongoFlightAuditRepository) FindByFlightCode(ctx context.Context, flightCode string, limit int) ([]*entity.FlightEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurredAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"flightCode": entity.NormalizeFlightCode(flightCode)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*entity.FlightEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
