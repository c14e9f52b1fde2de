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

type MongoReviewStore struct {
	DB *mongo.Database
}

func NewMongoReviewStore(db *mongo.Database) *MongoReviewStore {
	return &MongoReviewStore{DB: db}
}

func (s *MongoReviewStore) collection() *mongo.Collection {
	return s.DB.Collection("reviews")
}

func (s *MongoReviewStore) Create(ctx context.Context, r *models.Review) (*models.Review, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return nil, apperrors.NewValidation("rating", "must be between 1 and 5")
	}

	now := time.Now()
	r.Status = models.ReviewPending
	r.CreatedAt = now
	r.UpdatedAt = now

	result, err := s.collection().InsertOne(ctx, r)
	if err != nil {
		return nil, apperrors.NewNetwork("reviews.create", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		r.ID = oid
	}
	return r, nil
}

func (s *MongoReviewStore) ListByLocation(ctx context.Context, locationID string, status models.ReviewStatus) ([]models.Review, error) {
	query := bson.M{"locationID": locationID}
	if status != "" {
		query["status"] = status
	}

	cursor, err := s.collection().Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, apperrors.NewNetwork("reviews.list", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, apperrors.NewNetwork("reviews.list", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// Moderate applies the terminal pending -> approved/rejected transition.
func (s *MongoReviewStore) Moderate(ctx context.Context, id string, status models.ReviewStatus) (*models.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewValidation("id", "must be a valid object id")
	}

	var r models.Review
	err = s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": models.ReviewPending},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&r)
	if err == mongo.ErrNoDocuments {
		count, countErr := s.collection().CountDocuments(ctx, bson.M{"_id": oid})
		if countErr != nil {
			return nil, apperrors.NewNetwork("reviews.moderate", countErr)
		}
		if count > 0 {
			return nil, apperrors.NewValidation("status", "review has already been moderated")
		}
		return nil, apperrors.NewNotFound("review", id)
	}
	if err != nil {
		return nil, apperrors.NewNetwork("reviews.moderate", err)
	}
	return &r, nil
}

// Aggregates computes the approved review count and average rating for a
// location in memory, matching the store's no-join query posture.
func (s *MongoReviewStore) Aggregates(ctx context.Context, locationID string) (int, float64, error) {
	reviews, err := s.ListByLocation(ctx, locationID, models.ReviewApproved)
	if err != nil {
		return 0, 0, err
	}
	if len(reviews) == 0 {
		return 0, 0, nil
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return len(reviews), float64(total) / float64(len(reviews)), nil
}
