package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProviderStatus string

const (
	ProviderPending   ProviderStatus = "pending"
	ProviderApproved  ProviderStatus = "approved"
	ProviderSuspended ProviderStatus = "suspended"
)

// Member is the denormalized access-control entry for one user of a provider
// organization. Keyed by userID in Provider.Members.
type Member struct {
	Role        string   `bson:"role" json:"role"` // "owner" or "member"
	Permissions []string `bson:"permissions,omitempty" json:"permissions,omitempty"`
}

// Provider is an organization that owns zero or more locations. Created
// pending on registration; only an admin approval action moves it to
// approved/suspended.
type Provider struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProviderID   string             `bson:"providerID" json:"providerID"` // e.g. "prov-4d81e0c2"
	Name         string             `bson:"name" json:"name"`
	ContactEmail string             `bson:"contactEmail" json:"contactEmail"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Website      string             `bson:"website,omitempty" json:"website,omitempty"`
	Status       ProviderStatus     `bson:"status" json:"status"`
	IsVerified   bool               `bson:"isVerified" json:"isVerified"`
	Members      map[string]Member  `bson:"members" json:"members"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasMember reports whether the given user belongs to this provider.
func (p *Provider) HasMember(userID string) bool {
	_, ok := p.Members[userID]
	return ok
}
