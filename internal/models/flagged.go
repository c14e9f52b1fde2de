package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FlagStatus string

const (
	FlagPending  FlagStatus = "pending"
	FlagApproved FlagStatus = "approved"
	FlagRejected FlagStatus = "rejected"
)

type ContentType string

const (
	ContentReview   ContentType = "review"
	ContentLocation ContentType = "location"
	ContentProvider ContentType = "provider"
	ContentComment  ContentType = "comment"
)

// FlaggedContent is a moderation queue entry referencing some piece of
// content. It is mutated exactly once: the terminal approve/reject transition,
// which stamps the moderator attribution fields.
type FlaggedContent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContentID      string             `bson:"contentID" json:"contentID"`
	ContentType    ContentType        `bson:"contentType" json:"contentType"`
	FlagReason     string             `bson:"flagReason" json:"flagReason"`
	FlaggedBy      string             `bson:"flaggedBy" json:"flaggedBy"`
	Status         FlagStatus         `bson:"status" json:"status"`
	ModeratorID    string             `bson:"moderatorID,omitempty" json:"moderatorID,omitempty"`
	ModeratorNotes string             `bson:"moderatorNotes,omitempty" json:"moderatorNotes,omitempty"`
	ModeratedAt    *time.Time         `bson:"moderatedAt,omitempty" json:"moderatedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
