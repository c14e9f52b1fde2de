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

type MongoProviderStore struct {
	DB *mongo.Database
}

func NewMongoProviderStore(db *mongo.Database) *MongoProviderStore {
	return &MongoProviderStore{DB: db}
}

func (s *MongoProviderStore) collection() *mongo.Collection {
	return s.DB.Collection("providers")
}

func (s *MongoProviderStore) Create(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	count, err := s.collection().CountDocuments(ctx, bson.M{"providerID": p.ProviderID})
	if err != nil {
		return nil, apperrors.NewNetwork("providers.create", err)
	}
	if count > 0 {
		return nil, apperrors.NewValidation("providerID", "already exists")
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	result, err := s.collection().InsertOne(ctx, p)
	if err != nil {
		return nil, apperrors.NewNetwork("providers.create", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return p, nil
}

func (s *MongoProviderStore) GetByProviderID(ctx context.Context, providerID string) (*models.Provider, error) {
	var p models.Provider
	err := s.collection().FindOne(ctx, bson.M{"providerID": providerID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFound("provider", providerID)
	}
	if err != nil {
		return nil, apperrors.NewNetwork("providers.get", err)
	}
	return &p, nil
}

func (s *MongoProviderStore) List(ctx context.Context, status models.ProviderStatus, limit int64) ([]models.Provider, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, apperrors.NewNetwork("providers.list", err)
	}
	defer cursor.Close(ctx)

	var providers []models.Provider
	if err = cursor.All(ctx, &providers); err != nil {
		return nil, apperrors.NewNetwork("providers.list", err)
	}
	if providers == nil {
		providers = []models.Provider{}
	}
	return providers, nil
}

// SetStatus is the admin approval path. verified is optional; nil leaves the
// current flag untouched.
func (s *MongoProviderStore) SetStatus(ctx context.Context, providerID string, status models.ProviderStatus, verified *bool) (*models.Provider, error) {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if verified != nil {
		set["isVerified"] = *verified
	}

	var p models.Provider
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"providerID": providerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFound("provider", providerID)
	}
	if err != nil {
		return nil, apperrors.NewNetwork("providers.setStatus", err)
	}
	return &p, nil
}
