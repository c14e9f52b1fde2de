package handlers

import (
	"fmt"
	"net/http"
	"time"

	"feedfind-api-server/internal/apperrors"
	"feedfind-api-server/internal/models"
	"feedfind-api-server/internal/s3"
	"feedfind-api-server/internal/socket"
	"feedfind-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProviderHandler is the screen-level controller for providers (or admins
// acting on their behalf): dashboard reads, location creation, single and
// bulk status changes, photo uploads.
type ProviderHandler struct {
	Providers store.ProviderStore
	Locations store.LocationStore
	Updates   store.StatusUpdateStore
	Uploader  *s3.Uploader
	Hub       *socket.Hub
	Log       *zap.Logger
}

type UpdateStatusRequest struct {
	Status            models.AvailabilityStatus `json:"status" binding:"required"`
	Notes             string                    `json:"notes"`
	EstimatedWaitTime *int                      `json:"estimatedWaitTime"` // omitted entirely when blank
	FoodAvailable     *bool                     `json:"foodAvailable"`
}

type BulkUpdateStatusRequest struct {
	LocationIDs []string                  `json:"locationIDs" binding:"required,min=1"`
	Status      models.AvailabilityStatus `json:"status" binding:"required"`
	Notes       string                    `json:"notes"`
}

type CreateLocationRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Address     AddressRequest `json:"address" binding:"required"`
	Capacity    int            `json:"capacity"`
}

type AddressRequest struct {
	FullText  string  `json:"fullText" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// dashboardSlice carries one independently-loaded piece of the dashboard.
// A failure in one slice leaves the others usable.
type dashboardSlice struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// resolveProviderID maps the :id path segment to a concrete provider id,
// with "my" standing for the caller's own organization.
func resolveProviderID(c *gin.Context, id Identity) string {
	providerID := c.Param("id")
	if providerID == "my" || providerID == "" {
		return id.ProviderID
	}
	return providerID
}

// authorizeProvider loads the provider and evaluates the caller's capability
// once, before any write is issued.
func (h *ProviderHandler) authorizeProvider(c *gin.Context, providerID string) (*models.Provider, bool) {
	id := identityFrom(c)
	provider, err := h.Providers.GetByProviderID(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if !id.CanManageProvider(provider) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to manage this provider"})
		return nil, false
	}
	return provider, true
}

// GetDashboard loads the provider document, its locations and the recent
// status updates as three independent slices, so a partial backend failure
// still renders the rest of the screen.
func (h *ProviderHandler) GetDashboard(c *gin.Context) {
	id := identityFrom(c)
	providerID := resolveProviderID(c, id)
	if providerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No provider associated with this account"})
		return
	}

	ctx := c.Request.Context()

	providerSlice := dashboardSlice{}
	provider, err := h.Providers.GetByProviderID(ctx, providerID)
	if err != nil {
		providerSlice.Error = err.Error()
	} else {
		if !id.CanManageProvider(provider) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view this dashboard"})
			return
		}
		providerSlice.Data = provider
	}
	if provider == nil && !id.IsAdmin() && id.ProviderID != providerID {
		// Without the provider document a membership claim cannot be verified.
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view this dashboard"})
		return
	}

	locationsSlice := dashboardSlice{}
	if locations, err := h.Locations.ListByProviderID(ctx, providerID); err != nil {
		locationsSlice.Error = err.Error()
	} else {
		locationsSlice.Data = locations
	}

	updatesSlice := dashboardSlice{}
	if updates, err := h.Updates.GetRecentByProviderID(ctx, providerID); err != nil {
		updatesSlice.Error = err.Error()
	} else {
		updatesSlice.Data = updates
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":  providerSlice,
		"locations": locationsSlice,
		"updates":   updatesSlice,
	})
}

// UpdateLocationStatus records one availability change for one location.
func (h *ProviderHandler) UpdateLocationStatus(c *gin.Context) {
	locationID := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, err := h.Locations.GetByLocationID(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, ok := h.authorizeProvider(c, loc.ProviderID); !ok {
		return
	}

	id := identityFrom(c)
	update, err := h.Locations.UpdateStatus(c.Request.Context(), store.StatusUpdateInput{
		LocationID:        locationID,
		Status:            req.Status,
		UpdatedBy:         id.UserID,
		Timestamp:         time.Now(),
		Notes:             req.Notes,
		EstimatedWaitTime: req.EstimatedWaitTime,
		FoodAvailable:     req.FoodAvailable,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.BroadcastStatus(socket.StatusEvent{
		LocationID: locationID,
		Status:     update.Status,
		Timestamp:  update.Timestamp,
	})
	h.Log.Info("status updated",
		zap.String("locationID", locationID),
		zap.String("status", string(update.Status)),
		zap.String("updatedBy", id.UserID))

	c.JSON(http.StatusCreated, gin.H{"status": "success", "update": update})
}

// BulkUpdateStatus applies one target status to the selected locations,
// independently per item. The response carries per-item outcomes, never a
// single pass/fail flag; partial application is an accepted outcome.
func (h *ProviderHandler) BulkUpdateStatus(c *gin.Context) {
	id := identityFrom(c)
	providerID := resolveProviderID(c, id)

	var req BulkUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := h.authorizeProvider(c, providerID); !ok {
		return
	}

	owned, err := h.Locations.ListByProviderID(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, err)
		return
	}
	ownedSet := make(map[string]bool, len(owned))
	for _, loc := range owned {
		ownedSet[loc.LocationID] = true
	}

	now := time.Now()
	inputs := make([]store.StatusUpdateInput, 0, len(req.LocationIDs))
	for _, locID := range req.LocationIDs {
		if !ownedSet[locID] {
			continue
		}
		inputs = append(inputs, store.StatusUpdateInput{
			LocationID: locID,
			Status:     req.Status,
			UpdatedBy:  id.UserID,
			Timestamp:  now,
			Notes:      req.Notes,
		})
	}

	batch := h.Locations.BatchUpdateStatus(c.Request.Context(), inputs)

	// Re-merge in request order, reporting non-owned ids as per-item failures.
	items := make([]store.BatchItemResult, 0, len(req.LocationIDs))
	next := 0
	failed := 0
	for _, locID := range req.LocationIDs {
		if !ownedSet[locID] {
			failed++
			items = append(items, store.BatchItemResult{
				LocationID: locID,
				Error:      apperrors.NewNotFound("location", locID).Error(),
			})
			continue
		}
		item := batch.Items[next]
		next++
		items = append(items, item)
		if item.OK {
			h.Hub.BroadcastStatus(socket.StatusEvent{
				LocationID: item.LocationID,
				Status:     item.Update.Status,
				Timestamp:  item.Update.Timestamp,
			})
		}
	}

	h.Log.Info("bulk status update",
		zap.String("providerID", providerID),
		zap.Int("accepted", batch.Accepted),
		zap.Int("failed", batch.Failed+failed))

	c.JSON(http.StatusOK, store.BatchResult{
		Accepted: batch.Accepted,
		Failed:   batch.Failed + failed,
		Items:    items,
	})
}

// CreateLocation registers a new site under the provider; it starts pending
// and only becomes publicly visible once an admin approves it.
func (h *ProviderHandler) CreateLocation(c *gin.Context) {
	id := identityFrom(c)
	providerID := resolveProviderID(c, id)

	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := h.authorizeProvider(c, providerID); !ok {
		return
	}

	newLocation := &models.Location{
		LocationID:  "loc-" + uuid.New().String()[:8],
		ProviderID:  providerID,
		Name:        req.Name,
		Description: req.Description,
		Address: models.Address{
			FullText:  req.Address.FullText,
			Latitude:  req.Address.Latitude,
			Longitude: req.Address.Longitude,
		},
		Status:   models.LocationPending,
		Capacity: req.Capacity,
	}

	created, err := h.Locations.Create(c.Request.Context(), newLocation)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UploadPhoto stores a location photo in S3 and records its URL on the
// location document.
func (h *ProviderHandler) UploadPhoto(c *gin.Context) {
	locationID := c.Param("id")

	loc, err := h.Locations.GetByLocationID(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, ok := h.authorizeProvider(c, loc.ProviderID); !ok {
		return
	}

	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A photo file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	objectKey := fmt.Sprintf("locations/%s/%s", locationID, uuid.New().String())

	url, err := h.Uploader.UploadFile(c.Request.Context(), file, objectKey, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
		return
	}

	if err := h.Locations.SetPhotoURL(c.Request.Context(), locationID, url); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "photoURL": url})
}
