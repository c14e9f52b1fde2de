package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Review is a user-submitted rating/comment on a location. It goes through
// the moderation state machine (pending -> approved/rejected) and only
// approved reviews count toward the location's aggregate rating.
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LocationID string             `bson:"locationID" json:"locationID"`
	UserID     string             `bson:"userID" json:"userID"`
	Rating     int                `bson:"rating" json:"rating"` // 1-5
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Status     ReviewStatus       `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
