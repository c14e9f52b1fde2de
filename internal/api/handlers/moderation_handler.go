package handlers

import (
	"net/http"
	"strings"

	"feedfind-api-server/internal/models"
	"feedfind-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModerationHandler covers the admin queues: flagged content review, bulk
// approval, and provider/location lifecycle approvals. Every flagged item
// gets exactly one terminal transition (pending -> approved/rejected) with
// moderator attribution stamped on it.
type ModerationHandler struct {
	Flags     store.FlaggedContentStore
	Providers store.ProviderStore
	Locations store.LocationStore
	Log       *zap.Logger
}

type FlagContentRequest struct {
	ContentID   string             `json:"contentID" binding:"required"`
	ContentType models.ContentType `json:"contentType" binding:"required,oneof=review location provider comment"`
	FlagReason  string             `json:"flagReason" binding:"required"`
}

type ModerateFlagRequest struct {
	Notes string `json:"notes"`
}

type BulkApproveRequest struct {
	IDs   []string `json:"ids" binding:"required,min=1"`
	Notes string   `json:"notes"`
}

type ApproveProviderRequest struct {
	Verified *bool `json:"verified"`
}

type UpdateLocationRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Address     *AddressRequest `json:"address"`
	Capacity    *int            `json:"capacity"`
}

// FlagContent creates a moderation queue entry. Any authenticated user can
// flag content.
func (h *ModerationHandler) FlagContent(c *gin.Context) {
	var req FlagContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := identityFrom(c)
	flag, err := h.Flags.Create(c.Request.Context(), &models.FlaggedContent{
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		FlagReason:  req.FlagReason,
		FlaggedBy:   id.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, flag)
}

func (h *ModerationHandler) ListFlags(c *gin.Context) {
	status := models.FlagStatus(c.DefaultQuery("status", string(models.FlagPending)))

	flags, err := h.Flags.ListByStatus(c.Request.Context(), status, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, flags)
}

// ApproveFlag applies the terminal approve transition. Notes are optional on
// approval.
func (h *ModerationHandler) ApproveFlag(c *gin.Context) {
	var req ModerateFlagRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	id := identityFrom(c)
	flag, err := h.Flags.Moderate(c.Request.Context(), c.Param("id"), models.FlagApproved, id.UserID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, flag)
}

// RejectFlag applies the terminal reject transition. Rejection requires
// non-empty moderator notes, checked here before any write is attempted.
func (h *ModerationHandler) RejectFlag(c *gin.Context) {
	var req ModerateFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Notes) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Moderator notes are required when rejecting content"})
		return
	}

	id := identityFrom(c)
	flag, err := h.Flags.Moderate(c.Request.Context(), c.Param("id"), models.FlagRejected, id.UserID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, flag)
}

// BulkApproveFlags approves a list of queue items, all attributed to the one
// moderator performing the action. N independent writes, best-effort: the
// response is a per-item breakdown and partial success is not an error.
func (h *ModerationHandler) BulkApproveFlags(c *gin.Context) {
	var req BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := identityFrom(c)
	type itemResult struct {
		ID    string `json:"id"`
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	items := make([]itemResult, 0, len(req.IDs))
	accepted := 0
	for _, flagID := range req.IDs {
		_, err := h.Flags.Moderate(c.Request.Context(), flagID, models.FlagApproved, id.UserID, req.Notes)
		if err != nil {
			items = append(items, itemResult{ID: flagID, Error: err.Error()})
			continue
		}
		accepted++
		items = append(items, itemResult{ID: flagID, OK: true})
	}

	h.Log.Info("bulk flag approval",
		zap.String("moderatorID", id.UserID),
		zap.Int("accepted", accepted),
		zap.Int("failed", len(req.IDs)-accepted))

	c.JSON(http.StatusOK, gin.H{"accepted": accepted, "failed": len(req.IDs) - accepted, "items": items})
}

func (h *ModerationHandler) ListProviders(c *gin.Context) {
	status := models.ProviderStatus(c.Query("status"))

	providers, err := h.Providers.List(c.Request.Context(), status, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, providers)
}

// ApproveProvider moves a pending provider to approved, optionally marking
// it verified.
func (h *ModerationHandler) ApproveProvider(c *gin.Context) {
	var req ApproveProviderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	provider, err := h.Providers.SetStatus(c.Request.Context(), c.Param("id"), models.ProviderApproved, req.Verified)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, provider)
}

func (h *ModerationHandler) SuspendProvider(c *gin.Context) {
	provider, err := h.Providers.SetStatus(c.Request.Context(), c.Param("id"), models.ProviderSuspended, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, provider)
}

// ApproveLocation activates a pending location. Approval always sets
// isVerified; verification is not independently settable through this path.
func (h *ModerationHandler) ApproveLocation(c *gin.Context) {
	loc, err := h.Locations.SetLifecycle(c.Request.Context(), c.Param("id"), models.LocationActive, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loc)
}

func (h *ModerationHandler) SuspendLocation(c *gin.Context) {
	locationID := c.Param("id")

	// Suspension keeps whatever verification the location already earned.
	current, err := h.Locations.GetByLocationID(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}

	loc, err := h.Locations.SetLifecycle(c.Request.Context(), locationID, models.LocationSuspended, current.IsVerified)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loc)
}

// UpdateLocation edits a location's descriptive fields on a provider's
// behalf. Lifecycle state and verification go through the approve/suspend
// paths, never through here.
func (h *ModerationHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := store.LocationPatch{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
	if req.Address != nil {
		patch.Address = &models.Address{
			FullText:  req.Address.FullText,
			Latitude:  req.Address.Latitude,
			Longitude: req.Address.Longitude,
		}
	}

	loc, err := h.Locations.UpdateDetails(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loc)
}

// ListAllLocations is the admin view: any lifecycle state, optional filters.
func (h *ModerationHandler) ListAllLocations(c *gin.Context) {
	filter := store.LocationFilter{
		Status:     models.LocationStatus(c.Query("status")),
		ProviderID: c.Query("providerID"),
	}

	locations, err := h.Locations.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, locations)
}
