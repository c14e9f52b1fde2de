package handlers

import (
	"context"
	"errors"
	"sort"
	"time"

	"feedfind-api-server/internal/apperrors"
	"feedfind-api-server/internal/models"
	"feedfind-api-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes. The handlers depend on the store interfaces for
// exactly this reason: tests exercise the controller logic without a
// database.

type fakeLocationStore struct {
	locations map[string]*models.Location
	updates   []models.StatusUpdate

	updateErr error // forced failure for UpdateStatus
	listErr   error // forced failure for List/ListByProviderID
}

func newFakeLocationStore(locs ...*models.Location) *fakeLocationStore {
	s := &fakeLocationStore{locations: make(map[string]*models.Location)}
	for _, loc := range locs {
		s.locations[loc.LocationID] = loc
	}
	return s
}

func (s *fakeLocationStore) Create(_ context.Context, loc *models.Location) (*models.Location, error) {
	if _, ok := s.locations[loc.LocationID]; ok {
		return nil, apperrors.NewValidation("locationID", "already exists")
	}
	now := time.Now()
	loc.CreatedAt = now
	loc.UpdatedAt = now
	s.locations[loc.LocationID] = loc
	return loc, nil
}

func (s *fakeLocationStore) GetByLocationID(_ context.Context, locationID string) (*models.Location, error) {
	loc, ok := s.locations[locationID]
	if !ok {
		return nil, apperrors.NewNotFound("location", locationID)
	}
	return loc, nil
}

func (s *fakeLocationStore) List(_ context.Context, filter store.LocationFilter) ([]models.Location, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []models.Location{}
	for _, loc := range s.locations {
		if filter.Status != "" && loc.Status != filter.Status {
			continue
		}
		if filter.CurrentStatus != "" && loc.CurrentStatus != filter.CurrentStatus {
			continue
		}
		if filter.ProviderID != "" && loc.ProviderID != filter.ProviderID {
			continue
		}
		out = append(out, *loc)
	}
	return out, nil
}

func (s *fakeLocationStore) ListByProviderID(ctx context.Context, providerID string) ([]models.Location, error) {
	return s.List(ctx, store.LocationFilter{ProviderID: providerID})
}

func (s *fakeLocationStore) UpdateStatus(_ context.Context, in store.StatusUpdateInput) (*models.StatusUpdate, error) {
	if err := store.ValidateStatusUpdate(in); err != nil {
		return nil, err
	}
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	loc, ok := s.locations[in.LocationID]
	if !ok {
		return nil, apperrors.NewNotFound("location", in.LocationID)
	}

	now := time.Now()
	loc.CurrentStatus = in.Status
	ts := in.Timestamp
	loc.LastStatusUpdate = &ts
	loc.UpdatedAt = now

	update := models.StatusUpdate{
		ID:                primitive.NewObjectID(),
		LocationID:        in.LocationID,
		Status:            in.Status,
		UpdatedBy:         in.UpdatedBy,
		Timestamp:         in.Timestamp,
		Notes:             in.Notes,
		EstimatedWaitTime: in.EstimatedWaitTime,
		FoodAvailable:     in.FoodAvailable,
		CreatedAt:         now,
	}
	s.updates = append(s.updates, update)
	return &update, nil
}

func (s *fakeLocationStore) BatchUpdateStatus(ctx context.Context, inputs []store.StatusUpdateInput) *store.BatchResult {
	result := &store.BatchResult{Items: make([]store.BatchItemResult, 0, len(inputs))}
	for _, in := range inputs {
		update, err := s.UpdateStatus(ctx, in)
		if err != nil {
			result.Failed++
			result.Items = append(result.Items, store.BatchItemResult{LocationID: in.LocationID, Error: err.Error()})
			continue
		}
		result.Accepted++
		result.Items = append(result.Items, store.BatchItemResult{LocationID: in.LocationID, OK: true, Update: update})
	}
	return result
}

func (s *fakeLocationStore) UpdateDetails(_ context.Context, locationID string, patch store.LocationPatch) (*models.Location, error) {
	loc, ok := s.locations[locationID]
	if !ok {
		return nil, apperrors.NewNotFound("location", locationID)
	}
	if patch.Name == nil && patch.Description == nil && patch.Address == nil && patch.Capacity == nil {
		return nil, apperrors.NewValidation("", "no fields to update")
	}
	if patch.Name != nil {
		loc.Name = *patch.Name
	}
	if patch.Description != nil {
		loc.Description = *patch.Description
	}
	if patch.Address != nil {
		loc.Address = *patch.Address
	}
	if patch.Capacity != nil {
		loc.Capacity = *patch.Capacity
	}
	loc.UpdatedAt = time.Now()
	return loc, nil
}

func (s *fakeLocationStore) SetLifecycle(_ context.Context, locationID string, status models.LocationStatus, verified bool) (*models.Location, error) {
	loc, ok := s.locations[locationID]
	if !ok {
		return nil, apperrors.NewNotFound("location", locationID)
	}
	loc.Status = status
	loc.IsVerified = verified
	loc.UpdatedAt = time.Now()
	return loc, nil
}

func (s *fakeLocationStore) SetPhotoURL(_ context.Context, locationID, url string) error {
	loc, ok := s.locations[locationID]
	if !ok {
		return apperrors.NewNotFound("location", locationID)
	}
	loc.PhotoURL = url
	return nil
}

func (s *fakeLocationStore) SetReviewAggregates(_ context.Context, locationID string, count int, avg float64) error {
	loc, ok := s.locations[locationID]
	if !ok {
		return apperrors.NewNotFound("location", locationID)
	}
	loc.ReviewCount = count
	loc.AverageRating = avg
	return nil
}

type fakeProviderStore struct {
	providers map[string]*models.Provider

	createErr error // forced failure for Create
}

func newFakeProviderStore(providers ...*models.Provider) *fakeProviderStore {
	s := &fakeProviderStore{providers: make(map[string]*models.Provider)}
	for _, p := range providers {
		s.providers[p.ProviderID] = p
	}
	return s
}

func (s *fakeProviderStore) Create(_ context.Context, p *models.Provider) (*models.Provider, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, ok := s.providers[p.ProviderID]; ok {
		return nil, apperrors.NewValidation("providerID", "already exists")
	}
	s.providers[p.ProviderID] = p
	return p, nil
}

func (s *fakeProviderStore) GetByProviderID(_ context.Context, providerID string) (*models.Provider, error) {
	p, ok := s.providers[providerID]
	if !ok {
		return nil, apperrors.NewNotFound("provider", providerID)
	}
	return p, nil
}

func (s *fakeProviderStore) List(_ context.Context, status models.ProviderStatus, _ int64) ([]models.Provider, error) {
	out := []models.Provider{}
	for _, p := range s.providers {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeProviderStore) SetStatus(_ context.Context, providerID string, status models.ProviderStatus, verified *bool) (*models.Provider, error) {
	p, ok := s.providers[providerID]
	if !ok {
		return nil, apperrors.NewNotFound("provider", providerID)
	}
	p.Status = status
	if verified != nil {
		p.IsVerified = *verified
	}
	return p, nil
}

type fakeStatusUpdateStore struct {
	loc       *fakeLocationStore
	recentErr error // forced failure for GetRecentByProviderID
}

func (s *fakeStatusUpdateStore) GetHistory(_ context.Context, locationID string) ([]models.StatusUpdate, error) {
	out := []models.StatusUpdate{}
	for _, u := range s.loc.updates {
		if u.LocationID == locationID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > 50 {
		out = out[:50]
	}
	return out, nil
}

func (s *fakeStatusUpdateStore) GetRecentByProviderID(ctx context.Context, providerID string) ([]models.StatusUpdate, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	locs, err := s.loc.ListByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(locs))
	for _, l := range locs {
		owned[l.LocationID] = true
	}
	out := []models.StatusUpdate{}
	for _, u := range s.loc.updates {
		if owned[u.LocationID] {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > 20 {
		out = out[:20]
	}
	return out, nil
}

type fakeFlagStore struct {
	flags       map[string]*models.FlaggedContent
	moderations int // writes attempted
}

func newFakeFlagStore(flags ...*models.FlaggedContent) *fakeFlagStore {
	s := &fakeFlagStore{flags: make(map[string]*models.FlaggedContent)}
	for _, f := range flags {
		if f.ID.IsZero() {
			f.ID = primitive.NewObjectID()
		}
		s.flags[f.ID.Hex()] = f
	}
	return s
}

func (s *fakeFlagStore) Create(_ context.Context, f *models.FlaggedContent) (*models.FlaggedContent, error) {
	f.ID = primitive.NewObjectID()
	f.Status = models.FlagPending
	f.CreatedAt = time.Now()
	s.flags[f.ID.Hex()] = f
	return f, nil
}

func (s *fakeFlagStore) ListByStatus(_ context.Context, status models.FlagStatus, _ int64) ([]models.FlaggedContent, error) {
	out := []models.FlaggedContent{}
	for _, f := range s.flags {
		if status != "" && f.Status != status {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

func (s *fakeFlagStore) Moderate(_ context.Context, id string, status models.FlagStatus, moderatorID, notes string) (*models.FlaggedContent, error) {
	s.moderations++
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.NewValidation("id", "must be a valid object id")
	}
	f, ok := s.flags[id]
	if !ok {
		return nil, apperrors.NewNotFound("flagged content", id)
	}
	if f.Status != models.FlagPending {
		return nil, apperrors.NewValidation("status", "item has already been moderated")
	}
	now := time.Now()
	f.Status = status
	f.ModeratorID = moderatorID
	f.ModeratorNotes = notes
	f.ModeratedAt = &now
	return f, nil
}

type fakeReviewStore struct {
	reviews map[string]*models.Review
}

func newFakeReviewStore(reviews ...*models.Review) *fakeReviewStore {
	s := &fakeReviewStore{reviews: make(map[string]*models.Review)}
	for _, r := range reviews {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		s.reviews[r.ID.Hex()] = r
	}
	return s
}

func (s *fakeReviewStore) Create(_ context.Context, r *models.Review) (*models.Review, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return nil, apperrors.NewValidation("rating", "must be between 1 and 5")
	}
	r.ID = primitive.NewObjectID()
	r.Status = models.ReviewPending
	r.CreatedAt = time.Now()
	s.reviews[r.ID.Hex()] = r
	return r, nil
}

func (s *fakeReviewStore) ListByLocation(_ context.Context, locationID string, status models.ReviewStatus) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range s.reviews {
		if r.LocationID != locationID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *fakeReviewStore) Moderate(_ context.Context, id string, status models.ReviewStatus) (*models.Review, error) {
	r, ok := s.reviews[id]
	if !ok {
		return nil, apperrors.NewNotFound("review", id)
	}
	if r.Status != models.ReviewPending {
		return nil, apperrors.NewValidation("status", "review has already been moderated")
	}
	r.Status = status
	return r, nil
}

func (s *fakeReviewStore) Aggregates(ctx context.Context, locationID string) (int, float64, error) {
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

type fakeUserStore struct {
	users map[string]*models.User // keyed by email
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	if _, ok := s.users[u.Email]; ok {
		return nil, apperrors.NewValidation("email", "already registered")
	}
	u.CreatedAt = time.Now()
	s.users[u.Email] = u
	return u, nil
}

func (s *fakeUserStore) Delete(_ context.Context, userID string) error {
	for email, u := range s.users {
		if u.UserID == userID {
			delete(s.users, email)
			return nil
		}
	}
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, apperrors.NewNotFound("user", email)
	}
	return u, nil
}

var errBackendDown = apperrors.NewNetwork("test", errors.New("connection refused"))
