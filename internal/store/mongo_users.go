package store

import (
	"context"
	"time"

	"feedfind-api-server/internal/apperrors"
	"feedfind-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoUserStore struct {
	DB *mongo.Database
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{DB: db}
}

func (s *MongoUserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	count, err := s.DB.Collection("users").CountDocuments(ctx, bson.M{"email": u.Email})
	if err != nil {
		return nil, apperrors.NewNetwork("users.create", err)
	}
	if count > 0 {
		return nil, apperrors.NewValidation("email", "already registered")
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	result, err := s.DB.Collection("users").InsertOne(ctx, u)
	if err != nil {
		return nil, apperrors.NewNetwork("users.create", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return u, nil
}

// Delete removes a user account. Used to roll back a half-finished provider
// registration; deleting an already-absent user is not an error.
func (s *MongoUserStore) Delete(ctx context.Context, userID string) error {
	_, err := s.DB.Collection("users").DeleteOne(ctx, bson.M{"userID": userID})
	if err != nil {
		return apperrors.NewNetwork("users.delete", err)
	}
	return nil
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFound("user", email)
	}
	if err != nil {
		return nil, apperrors.NewNetwork("users.get", err)
	}
	return &u, nil
}
