package handlers

import (
	"context"
	"net/http"
	"strconv"

	"feedfind-api-server/internal/models"
	"feedfind-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LocationHandler serves the public directory: search, detail, availability
// history and approved reviews. Only active locations are visible here.
// Reads go through the backoff retry helper; a transient backend failure is
// retried up to three times before the error surfaces.
type LocationHandler struct {
	Locations store.LocationStore
	Updates   store.StatusUpdateStore
	Reviews   store.ReviewStore
	Log       *zap.Logger
}

const defaultSearchLimit = 50

func (h *LocationHandler) ListLocations(c *gin.Context) {
	filter := store.LocationFilter{
		Status:        models.LocationActive,
		CurrentStatus: models.AvailabilityStatus(c.Query("currentStatus")),
		Limit:         defaultSearchLimit,
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.ParseInt(limitStr, 10, 64); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	var locations []models.Location
	err := store.Retry(c.Request.Context(), store.ReadAttempts, func(rc context.Context) error {
		var e error
		locations, e = h.Locations.List(rc, filter)
		return e
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	locationID := c.Param("id")

	var loc *models.Location
	err := store.Retry(c.Request.Context(), store.ReadAttempts, func(rc context.Context) error {
		var e error
		loc, e = h.Locations.GetByLocationID(rc, locationID)
		return e
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if loc.Status != models.LocationActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	c.JSON(http.StatusOK, loc)
}

// GetStatusHistory returns the newest-first availability history (up to 50
// records) for one location.
func (h *LocationHandler) GetStatusHistory(c *gin.Context) {
	locationID := c.Param("id")

	var updates []models.StatusUpdate
	err := store.Retry(c.Request.Context(), store.ReadAttempts, func(rc context.Context) error {
		var e error
		updates, e = h.Updates.GetHistory(rc, locationID)
		return e
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updates)
}

func (h *LocationHandler) ListReviews(c *gin.Context) {
	locationID := c.Param("id")

	var reviews []models.Review
	err := store.Retry(c.Request.Context(), store.ReadAttempts, func(rc context.Context) error {
		var e error
		reviews, e = h.Reviews.ListByLocation(rc, locationID, models.ReviewApproved)
		return e
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
