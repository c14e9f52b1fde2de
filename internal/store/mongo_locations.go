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

type MongoLocationStore struct {
	DB *mongo.Database
}

func NewMongoLocationStore(db *mongo.Database) *MongoLocationStore {
	return &MongoLocationStore{DB: db}
}

func (s *MongoLocationStore) collection() *mongo.Collection {
	return s.DB.Collection("locations")
}

func (s *MongoLocationStore) Create(ctx context.Context, loc *models.Location) (*models.Location, error) {
	count, err := s.collection().CountDocuments(ctx, bson.M{"locationID": loc.LocationID})
	if err != nil {
		return nil, apperrors.NewNetwork("locations.create", err)
	}
	if count > 0 {
		return nil, apperrors.NewValidation("locationID", "already exists")
	}

	now := time.Now()
	loc.CreatedAt = now
	loc.UpdatedAt = now

	result, err := s.collection().InsertOne(ctx, loc)
	if err != nil {
		return nil, apperrors.NewNetwork("locations.create", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		loc.ID = oid
	}
	return loc, nil
}

func (s *MongoLocationStore) GetByLocationID(ctx context.Context, locationID string) (*models.Location, error) {
	var loc models.Location
	err := s.collection().FindOne(ctx, bson.M{"locationID": locationID}).Decode(&loc)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFound("location", locationID)
	}
	if err != nil {
		return nil, apperrors.NewNetwork("locations.get", err)
	}
	return &loc, nil
}

func (s *MongoLocationStore) List(ctx context.Context, filter LocationFilter) ([]models.Location, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.CurrentStatus != "" {
		query["currentStatus"] = filter.CurrentStatus
	}
	if filter.ProviderID != "" {
		query["providerID"] = filter.ProviderID
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := s.collection().Find(ctx, query, opts)
	if err != nil {
		return nil, apperrors.NewNetwork("locations.list", err)
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	if err = cursor.All(ctx, &locations); err != nil {
		return nil, apperrors.NewNetwork("locations.list", err)
	}
	if locations == nil {
		locations = []models.Location{}
	}
	return locations, nil
}

func (s *MongoLocationStore) ListByProviderID(ctx context.Context, providerID string) ([]models.Location, error) {
	return s.List(ctx, LocationFilter{ProviderID: providerID})
}

// UpdateStatus patches the location's denormalized currentStatus and appends
// the history record in a single transaction, so the aggregate can never
// drift from the append-only log.
func (s *MongoLocationStore) UpdateStatus(ctx context.Context, in StatusUpdateInput) (*models.StatusUpdate, error) {
	if err := ValidateStatusUpdate(in); err != nil {
		return nil, err
	}

	session, err := s.DB.Client().StartSession()
	if err != nil {
		return nil, apperrors.NewNetwork("locations.updateStatus", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var loc models.Location
		err := s.collection().FindOne(sc, bson.M{"locationID": in.LocationID}).Decode(&loc)
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NewNotFound("location", in.LocationID)
		}
		if err != nil {
			return nil, apperrors.NewNetwork("locations.updateStatus", err)
		}

		now := time.Now()
		_, err = s.collection().UpdateOne(sc,
			bson.M{"locationID": in.LocationID},
			bson.M{"$set": bson.M{
				"currentStatus":    in.Status,
				"lastStatusUpdate": in.Timestamp,
				"updatedAt":        now,
			}})
		if err != nil {
			return nil, apperrors.NewNetwork("locations.updateStatus", err)
		}

		update := models.StatusUpdate{
			LocationID:        in.LocationID,
			Status:            in.Status,
			UpdatedBy:         in.UpdatedBy,
			Timestamp:         in.Timestamp,
			Notes:             in.Notes,
			EstimatedWaitTime: in.EstimatedWaitTime,
			FoodAvailable:     in.FoodAvailable,
			CreatedAt:         now,
		}
		insertResult, err := s.DB.Collection("updates").InsertOne(sc, update)
		if err != nil {
			return nil, apperrors.NewNetwork("locations.updateStatus", err)
		}
		if oid, ok := insertResult.InsertedID.(primitive.ObjectID); ok {
			update.ID = oid
		}
		return &update, nil
	})
	if err != nil {
		switch err.(type) {
		case *apperrors.ValidationError, *apperrors.PermissionError, *apperrors.NotFoundError, *apperrors.NetworkError:
			return nil, err
		}
		return nil, apperrors.NewNetwork("locations.updateStatus", err)
	}

	return result.(*models.StatusUpdate), nil
}

// BatchUpdateStatus applies UpdateStatus independently per item. Best-effort:
// there is no rollback of earlier items when a later one fails.
func (s *MongoLocationStore) BatchUpdateStatus(ctx context.Context, inputs []StatusUpdateInput) *BatchResult {
	result := &BatchResult{Items: make([]BatchItemResult, 0, len(inputs))}
	for _, in := range inputs {
		update, err := s.UpdateStatus(ctx, in)
		if err != nil {
			result.Failed++
			result.Items = append(result.Items, BatchItemResult{LocationID: in.LocationID, Error: err.Error()})
			continue
		}
		result.Accepted++
		result.Items = append(result.Items, BatchItemResult{LocationID: in.LocationID, OK: true, Update: update})
	}
	return result
}

// UpdateDetails patches the descriptive fields supplied in the patch and
// returns the updated document.
func (s *MongoLocationStore) UpdateDetails(ctx context.Context, locationID string, patch LocationPatch) (*models.Location, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Capacity != nil {
		set["capacity"] = *patch.Capacity
	}
	if len(set) == 0 {
		return nil, apperrors.NewValidation("", "no fields to update")
	}
	set["updatedAt"] = time.Now()

	var loc models.Location
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"locationID": locationID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&loc)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFound("location", locationID)
	}
	if err != nil {
		return nil, apperrors.NewNetwork("locations.updateDetails", err)
	}
	return &loc, nil
}

// SetLifecycle is the admin approval/suspension path. Approval to active
// always verifies the location; the handler passes verified accordingly.
func (s *MongoLocationStore) SetLifecycle(ctx context.Context, locationID string, status models.LocationStatus, verified bool) (*models.Location, error) {
	var loc models.Location
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"locationID": locationID},
		bson.M{"$set": bson.M{
			"status":     status,
			"isVerified": verified,
			"updatedAt":  time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&loc)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFound("location", locationID)
	}
	if err != nil {
		return nil, apperrors.NewNetwork("locations.setLifecycle", err)
	}
	return &loc, nil
}

func (s *MongoLocationStore) SetPhotoURL(ctx context.Context, locationID, url string) error {
	result, err := s.collection().UpdateOne(ctx,
		bson.M{"locationID": locationID},
		bson.M{"$set": bson.M{"photoURL": url, "updatedAt": time.Now()}})
	if err != nil {
		return apperrors.NewNetwork("locations.setPhotoURL", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("location", locationID)
	}
	return nil
}

func (s *MongoLocationStore) SetReviewAggregates(ctx context.Context, locationID string, count int, avg float64) error {
	result, err := s.collection().UpdateOne(ctx,
		bson.M{"locationID": locationID},
		bson.M{"$set": bson.M{"reviewCount": count, "averageRating": avg, "updatedAt": time.Now()}})
	if err != nil {
		return apperrors.NewNetwork("locations.setReviewAggregates", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("location", locationID)
	}
	return nil
}
