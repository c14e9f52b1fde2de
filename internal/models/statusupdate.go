package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusUpdate is an immutable, append-only record of a reported availability
// change. Records are never mutated or deleted; history reads are
// newest-first. EstimatedWaitTime and FoodAvailable are pointers so a blank
// value produces no document key at all rather than 0/false.
type StatusUpdate struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LocationID        string             `bson:"locationID" json:"locationID"`
	Status            AvailabilityStatus `bson:"status" json:"status"`
	UpdatedBy         string             `bson:"updatedBy" json:"updatedBy"`
	Timestamp         time.Time          `bson:"timestamp" json:"timestamp"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	EstimatedWaitTime *int               `bson:"estimatedWaitTime,omitempty" json:"estimatedWaitTime,omitempty"` // minutes
	FoodAvailable     *bool              `bson:"foodAvailable,omitempty" json:"foodAvailable,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
