package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RoleProvider  = "provider"
	RoleAdmin     = "admin"
	RoleSuperuser = "superuser"
)

// User matches the document in MongoDB.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"userID" json:"userID"` // e.g. "user-7b3a90ff"
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name" json:"name"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role" json:"role"`
	ProviderID string             `bson:"providerID,omitempty" json:"providerID,omitempty"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
