package handlers

import (
	"net/http"

	"feedfind-api-server/internal/models"
	"feedfind-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	Reviews   store.ReviewStore
	Locations store.LocationStore
	Log       *zap.Logger
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview submits a review for an active location. Reviews start
// pending and only count toward the aggregate rating once approved.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	locationID := c.Param("id")

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, err := h.Locations.GetByLocationID(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if loc.Status != models.LocationActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	id := identityFrom(c)
	review, err := h.Reviews.Create(c.Request.Context(), &models.Review{
		LocationID: locationID,
		UserID:     id.UserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ApproveReview applies the terminal approve transition and recomputes the
// location's denormalized review aggregates from the approved set.
func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	review, err := h.Reviews.Moderate(c.Request.Context(), c.Param("id"), models.ReviewApproved)
	if err != nil {
		respondError(c, err)
		return
	}

	count, avg, err := h.Reviews.Aggregates(c.Request.Context(), review.LocationID)
	if err == nil {
		err = h.Locations.SetReviewAggregates(c.Request.Context(), review.LocationID, count, avg)
	}
	if err != nil {
		// The approval itself committed; a stale aggregate self-corrects on
		// the next approval for this location.
		h.Log.Warn("failed to refresh review aggregates",
			zap.String("locationID", review.LocationID), zap.Error(err))
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) RejectReview(c *gin.Context) {
	review, err := h.Reviews.Moderate(c.Request.Context(), c.Param("id"), models.ReviewRejected)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ListPendingReviews is the admin moderation queue for reviews.
func (h *ReviewHandler) ListPendingReviews(c *gin.Context) {
	locationID := c.Query("locationID")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "locationID query parameter is required"})
		return
	}

	reviews, err := h.Reviews.ListByLocation(c.Request.Context(), locationID, models.ReviewPending)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
