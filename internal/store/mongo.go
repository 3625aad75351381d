package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"GO2GETHER_PLANNER/internal/itinerary"
	"GO2GETHER_PLANNER/internal/models"
)

// itineraryDoc is the Mongo shape of one itinerary, keyed by trip id.
type itineraryDoc struct {
	TripID    string          `bson:"_id"`
	OwnerID   string          `bson:"owner_id"`
	Document  models.Document `bson:"document"`
	Truncated bool            `bson:"prompt_truncated"`
	Version   int64           `bson:"version"`
	Cleared   bool            `bson:"cleared"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

// MongoItineraries stores itinerary documents in a Mongo collection while
// trips and surveys stay relational.
type MongoItineraries struct {
	coll *mongo.Collection
}

// NewMongoItineraries wraps coll.
func NewMongoItineraries(coll *mongo.Collection) *MongoItineraries {
	return &MongoItineraries{coll: coll}
}

func (m *MongoItineraries) GetItinerary(ctx context.Context, tripID uuid.UUID) (*models.Itinerary, error) {
	var d itineraryDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": tripID.String(), "cleared": bson.M{"$ne": true}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find itinerary: %w", err)
	}
	if d.Document.Version > itinerary.CurrentVersion {
		return nil, itinerary.ErrUnsupportedVersion
	}

	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("decode itinerary owner: %w", err)
	}
	return &models.Itinerary{
		TripID:    tripID,
		OwnerID:   owner,
		Document:  itinerary.Normalize(d.Document),
		Truncated: d.Truncated,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func (m *MongoItineraries) ItineraryVersion(ctx context.Context, tripID uuid.UUID) (int64, error) {
	var d struct {
		Version int64 `bson:"version"`
	}
	err := m.coll.FindOne(ctx, bson.M{"_id": tripID.String()},
		options.FindOne().SetProjection(bson.M{"version": 1})).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find itinerary version: %w", err)
	}
	return d.Version, nil
}

func (m *MongoItineraries) SaveItinerary(ctx context.Context, it *models.Itinerary, expectedVersion int64) error {
	doc := it.Document
	doc.Version = itinerary.CurrentVersion
	fields := bson.M{
		"owner_id":         it.OwnerID.String(),
		"document":         doc,
		"prompt_truncated": it.Truncated,
		"cleared":          false,
		"updated_at":       it.UpdatedAt,
	}
	update := bson.M{"$set": fields, "$inc": bson.M{"version": 1}}

	filter := bson.M{"_id": it.TripID.String(), "version": expectedVersion}
	if expectedVersion == 0 {
		// nothing visible yet; continue from a cleared tombstone if there is one
		filter = bson.M{"_id": it.TripID.String(), "cleared": true}
	}
	var d itineraryDoc
	err := m.coll.FindOneAndUpdate(ctx, filter, update, returnAfter).Decode(&d)
	switch {
	case err == nil:
		it.Version = d.Version
		return nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("update itinerary: %w", err)
	case expectedVersion != 0:
		return ErrConflict
	}

	fresh := itineraryDoc{
		TripID:    it.TripID.String(),
		OwnerID:   it.OwnerID.String(),
		Document:  doc,
		Truncated: it.Truncated,
		Version:   1,
		UpdatedAt: it.UpdatedAt,
	}
	if _, err := m.coll.InsertOne(ctx, fresh); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert itinerary: %w", err)
	}
	it.Version = 1
	return nil
}

func (m *MongoItineraries) ClearItinerary(ctx context.Context, tripID uuid.UUID) (int64, error) {
	update := bson.M{
		"$set": bson.M{
			"document":         models.Document{Version: itinerary.CurrentVersion},
			"prompt_truncated": false,
			"cleared":          true,
			"updated_at":       time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}
	var d itineraryDoc
	err := m.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": tripID.String(), "cleared": bson.M{"$ne": true}}, update, returnAfter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return m.ItineraryVersion(ctx, tripID)
	}
	if err != nil {
		return 0, fmt.Errorf("clear itinerary: %w", err)
	}
	return d.Version, nil
}

func (m *MongoItineraries) DeleteItinerary(ctx context.Context, tripID uuid.UUID) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": tripID.String()}); err != nil {
		return fmt.Errorf("delete itinerary: %w", err)
	}
	return nil
}

// Split routes itinerary calls to a separate backend and everything else to
// the relational store.
type Split struct {
	Store
	Itineraries ItineraryStore
}

func (s Split) GetItinerary(ctx context.Context, tripID uuid.UUID) (*models.Itinerary, error) {
	return s.Itineraries.GetItinerary(ctx, tripID)
}

func (s Split) SaveItinerary(ctx context.Context, it *models.Itinerary, expectedVersion int64) error {
	return s.Itineraries.SaveItinerary(ctx, it, expectedVersion)
}

func (s Split) ItineraryVersion(ctx context.Context, tripID uuid.UUID) (int64, error) {
	return s.Itineraries.ItineraryVersion(ctx, tripID)
}

func (s Split) ClearItinerary(ctx context.Context, tripID uuid.UUID) (int64, error) {
	return s.Itineraries.ClearItinerary(ctx, tripID)
}

// DeleteItinerary drops the itinerary and its version. DeleteTrip on the wrapped
// store only cascades within its own backend, so the planner calls this too.
func (s Split) DeleteItinerary(ctx context.Context, tripID uuid.UUID) error {
	return s.Itineraries.DeleteItinerary(ctx, tripID)
}
