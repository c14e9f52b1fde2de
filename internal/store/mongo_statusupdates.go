package store

import (
	"context"

	"feedfind-api-server/internal/apperrors"
	"feedfind-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStatusUpdateStore reads the "updates" collection. Records are only
// ever inserted through MongoLocationStore.UpdateStatus, which keeps the
// location aggregate and the history in one transaction.
type MongoStatusUpdateStore struct {
	DB *mongo.Database
}

func NewMongoStatusUpdateStore(db *mongo.Database) *MongoStatusUpdateStore {
	return &MongoStatusUpdateStore{DB: db}
}

// GetHistory returns up to 50 records for one location, newest first.
func (s *MongoStatusUpdateStore) GetHistory(ctx context.Context, locationID string) ([]models.StatusUpdate, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(historyLimit)

	cursor, err := s.DB.Collection("updates").Find(ctx, bson.M{"locationID": locationID}, opts)
	if err != nil {
		return nil, apperrors.NewNetwork("updates.getHistory", err)
	}
	defer cursor.Close(ctx)

	var updates []models.StatusUpdate
	if err = cursor.All(ctx, &updates); err != nil {
		return nil, apperrors.NewNetwork("updates.getHistory", err)
	}
	if updates == nil {
		updates = []models.StatusUpdate{}
	}
	return updates, nil
}

// GetRecentByProviderID resolves the provider's locations first, then pulls
// the 20 most recent records across them. Two queries and an in-memory merge;
// the store has no joins.
func (s *MongoStatusUpdateStore) GetRecentByProviderID(ctx context.Context, providerID string) ([]models.StatusUpdate, error) {
	locCursor, err := s.DB.Collection("locations").Find(ctx,
		bson.M{"providerID": providerID},
		options.Find().SetProjection(bson.M{"locationID": 1}))
	if err != nil {
		return nil, apperrors.NewNetwork("updates.getRecentByProvider", err)
	}
	defer locCursor.Close(ctx)

	var locs []struct {
		LocationID string `bson:"locationID"`
	}
	if err = locCursor.All(ctx, &locs); err != nil {
		return nil, apperrors.NewNetwork("updates.getRecentByProvider", err)
	}
	if len(locs) == 0 {
		return []models.StatusUpdate{}, nil
	}

	ids := make([]string, 0, len(locs))
	for _, l := range locs {
		ids = append(ids, l.LocationID)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(recentLimit)

	cursor, err := s.DB.Collection("updates").Find(ctx, bson.M{"locationID": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, apperrors.NewNetwork("updates.getRecentByProvider", err)
	}
	defer cursor.Close(ctx)

	var updates []models.StatusUpdate
	if err = cursor.All(ctx, &updates); err != nil {
		return nil, apperrors.NewNetwork("updates.getRecentByProvider", err)
	}
	if updates == nil {
		updates = []models.StatusUpdate{}
	}
	return updates, nil
}
