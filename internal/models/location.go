package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationStatus is the lifecycle state of a location, controlled by admins.
type LocationStatus string

const (
	LocationPending   LocationStatus = "pending"
	LocationActive    LocationStatus = "active"
	LocationInactive  LocationStatus = "inactive"
	LocationSuspended LocationStatus = "suspended"
)

// AvailabilityStatus is the provider-reported "can I get food right now" state.
type AvailabilityStatus string

const (
	AvailabilityOpen    AvailabilityStatus = "open"
	AvailabilityClosed  AvailabilityStatus = "closed"
	AvailabilityLimited AvailabilityStatus = "limited"
)

// ValidAvailability reports whether s is one of the three accepted values.
func ValidAvailability(s AvailabilityStatus) bool {
	switch s {
	case AvailabilityOpen, AvailabilityClosed, AvailabilityLimited:
		return true
	}
	return false
}

// Location is a physical food-assistance site. currentStatus and
// lastStatusUpdate are denormalized from the newest accepted StatusUpdate so
// search reads never need a second query.
type Location struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LocationID       string             `bson:"locationID" json:"locationID"` // user-friendly unique ID, e.g. "loc-9f2c11ab"
	ProviderID       string             `bson:"providerID" json:"providerID"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Address          Address            `bson:"address" json:"address"`
	Status           LocationStatus     `bson:"status" json:"status"`
	IsVerified       bool               `bson:"isVerified" json:"isVerified"`
	CurrentStatus    AvailabilityStatus `bson:"currentStatus,omitempty" json:"currentStatus,omitempty"`
	LastStatusUpdate *time.Time         `bson:"lastStatusUpdate,omitempty" json:"lastStatusUpdate,omitempty"`
	Capacity         int                `bson:"capacity,omitempty" json:"capacity,omitempty"`
	PhotoURL         string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	ReviewCount      int                `bson:"reviewCount" json:"reviewCount"`
	AverageRating    float64            `bson:"averageRating" json:"averageRating"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
