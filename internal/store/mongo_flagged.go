package store

import (
	"context"
	"time"

	"feedfind-api-server/internal/apperrors"
	"feedfind-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoFlaggedContentStore struct {
	DB *mongo.Database
}

func NewMongoFlaggedContentStore(db *mongo.Database) *MongoFlaggedContentStore {
	return &MongoFlaggedContentStore{DB: db}
}

func (s *MongoFlaggedContentStore) collection() *mongo.Collection {
	return s.DB.Collection("flaggedContent")
}

func (s *MongoFlaggedContentStore) Create(ctx context.Context, f *models.FlaggedContent) (*models.FlaggedContent, error) {
	now := time.Now()
	f.Status = models.FlagPending
	f.CreatedAt = now
	f.UpdatedAt = now

	result, err := s.collection().InsertOne(ctx, f)
	if err != nil {
		return nil, apperrors.NewNetwork("flags.create", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid
	}
	return f, nil
}

func (s *MongoFlaggedContentStore) ListByStatus(ctx context.Context, status models.FlagStatus, limit int64) ([]models.FlaggedContent, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, apperrors.NewNetwork("flags.list", err)
	}
	defer cursor.Close(ctx)

	var flags []models.FlaggedContent
	if err = cursor.All(ctx, &flags); err != nil {
		return nil, apperrors.NewNetwork("flags.list", err)
	}
	if flags == nil {
		flags = []models.FlaggedContent{}
	}
	return flags, nil
}

// Moderate performs the single terminal transition pending -> approved or
// rejected, stamping the moderator fields. The filter matches on pending so
// an item can only ever be moderated once.
func (s *MongoFlaggedContentStore) Moderate(ctx context.Context, id string, status models.FlagStatus, moderatorID, notes string) (*models.FlaggedContent, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidation("id", "must be a valid object id")
	}

	now := time.Now()
	var f models.FlaggedContent
	err = s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": models.FlagPending},
		bson.M{"$set": bson.M{
			"status":         status,
			"moderatorID":    moderatorID,
			"moderatorNotes": notes,
			"moderatedAt":    now,
			"updatedAt":      now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&f)
	if err == mongo.ErrNoDocuments {
		count, countErr := s.collection().CountDocuments(ctx, bson.M{"_id": oid})
		if countErr != nil {
			return nil, apperrors.NewNetwork("flags.moderate", countErr)
		}
		if count > 0 {
			return nil, apperrors.NewValidation("status", "item has already been moderated")
		}
		return nil, apperrors.NewNotFound("flagged content", id)
	}
	if err != nil {
		return nil, apperrors.NewNetwork("flags.moderate", err)
	}
	return &f, nil
}
