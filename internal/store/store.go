// Package store holds the persistence interfaces and their MongoDB
// implementations. Handlers depend on the interfaces so tests can substitute
// in-memory fakes.
package store

import (
	"context"
	"time"

	"feedfind-api-server/internal/apperrors"
	"feedfind-api-server/internal/models"
)

const (
	maxNotesLength = 200
	historyLimit   = 50
	recentLimit    = 20
)

// StatusUpdateInput is everything needed to record one availability change.
type StatusUpdateInput struct {
	LocationID        string
	Status            models.AvailabilityStatus
	UpdatedBy         string
	Timestamp         time.Time
	Notes             string
	EstimatedWaitTime *int
	FoodAvailable     *bool
}

// ValidateStatusUpdate checks the input before any write is attempted.
func ValidateStatusUpdate(in StatusUpdateInput) error {
	if in.LocationID == "" {
		return apperrors.NewValidation("locationID", "is required")
	}
	if in.UpdatedBy == "" {
		return apperrors.NewValidation("updatedBy", "is required")
	}
	if in.Timestamp.IsZero() {
		return apperrors.NewValidation("timestamp", "is required")
	}
	if !models.ValidAvailability(in.Status) {
		return apperrors.NewValidation("status", `must be one of "open", "closed" or "limited"`)
	}
	if len(in.Notes) > maxNotesLength {
		return apperrors.NewValidation("notes", "must be at most 200 characters")
	}
	if in.EstimatedWaitTime != nil && *in.EstimatedWaitTime < 0 {
		return apperrors.NewValidation("estimatedWaitTime", "must not be negative")
	}
	return nil
}

// BatchItemResult is the per-item outcome of a bulk status update. Bulk
// operations are best-effort: one bad record never blocks the rest, and
// callers get the full breakdown rather than a single pass/fail flag.
type BatchItemResult struct {
	LocationID string               `json:"locationID"`
	OK         bool                 `json:"ok"`
	Error      string               `json:"error,omitempty"`
	Update     *models.StatusUpdate `json:"update,omitempty"`
}

type BatchResult struct {
	Accepted int               `json:"accepted"`
	Failed   int               `json:"failed"`
	Items    []BatchItemResult `json:"items"`
}

// LocationPatch is the partial-edit shape for a location's descriptive
// fields. Nil fields are left untouched. Lifecycle state and verification
// are not editable through this path; they have their own operation.
type LocationPatch struct {
	Name        *string
	Description *string
	Address     *models.Address
	Capacity    *int
}

// LocationFilter is the public search query shape: single-field equality
// filters plus a numeric limit. No joins.
type LocationFilter struct {
	Status        models.LocationStatus
	CurrentStatus models.AvailabilityStatus
	ProviderID    string
	Limit         int64
}

// StatusUpdateStore reads the append-only availability history. There is
// deliberately no update or delete operation on this collection.
type StatusUpdateStore interface {
	GetHistory(ctx context.Context, locationID string) ([]models.StatusUpdate, error)
	GetRecentByProviderID(ctx context.Context, providerID string) ([]models.StatusUpdate, error)
}

// LocationStore owns the locations collection. UpdateStatus is the only path
// that mutates currentStatus/lastStatusUpdate, keeping the denormalized
// aggregate consistent with the history records.
type LocationStore interface {
	Create(ctx context.Context, loc *models.Location) (*models.Location, error)
	GetByLocationID(ctx context.Context, locationID string) (*models.Location, error)
	List(ctx context.Context, filter LocationFilter) ([]models.Location, error)
	ListByProviderID(ctx context.Context, providerID string) ([]models.Location, error)
	UpdateStatus(ctx context.Context, in StatusUpdateInput) (*models.StatusUpdate, error)
	BatchUpdateStatus(ctx context.Context, inputs []StatusUpdateInput) *BatchResult
	UpdateDetails(ctx context.Context, locationID string, patch LocationPatch) (*models.Location, error)
	SetLifecycle(ctx context.Context, locationID string, status models.LocationStatus, verified bool) (*models.Location, error)
	SetPhotoURL(ctx context.Context, locationID, url string) error
	SetReviewAggregates(ctx context.Context, locationID string, count int, avg float64) error
}

type ProviderStore interface {
	Create(ctx context.Context, p *models.Provider) (*models.Provider, error)
	GetByProviderID(ctx context.Context, providerID string) (*models.Provider, error)
	List(ctx context.Context, status models.ProviderStatus, limit int64) ([]models.Provider, error)
	SetStatus(ctx context.Context, providerID string, status models.ProviderStatus, verified *bool) (*models.Provider, error)
}

type FlaggedContentStore interface {
	Create(ctx context.Context, f *models.FlaggedContent) (*models.FlaggedContent, error)
	ListByStatus(ctx context.Context, status models.FlagStatus, limit int64) ([]models.FlaggedContent, error)
	Moderate(ctx context.Context, id string, status models.FlagStatus, moderatorID, notes string) (*models.FlaggedContent, error)
}

type ReviewStore interface {
	Create(ctx context.Context, r *models.Review) (*models.Review, error)
	ListByLocation(ctx context.Context, locationID string, status models.ReviewStatus) ([]models.Review, error)
	Moderate(ctx context.Context, id string, status models.ReviewStatus) (*models.Review, error)
	Aggregates(ctx context.Context, locationID string) (count int, avg float64, err error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, userID string) error
}
