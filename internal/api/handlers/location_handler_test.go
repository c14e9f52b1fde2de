package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feedfind-api-server/internal/models"
	"feedfind-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocationRouter(h *LocationHandler) *gin.Engine {
	router := gin.New()
	router.GET("/locations", h.ListLocations)
	router.GET("/locations/:id", h.GetLocation)
	router.GET("/locations/:id/updates", h.GetStatusHistory)
	router.GET("/locations/:id/reviews", h.ListReviews)
	return router
}

func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListLocations_ShowsOnlyActive(t *testing.T) {
	active := activeLocation("loc-1")
	hidden := activeLocation("loc-2")
	hidden.Status = models.LocationPending
	locs := newFakeLocationStore(active, hidden)
	h := &LocationHandler{Locations: locs, Updates: &fakeStatusUpdateStore{loc: locs}, Reviews: newFakeReviewStore(), Log: zap.NewNop()}
	router := newLocationRouter(h)

	w := getJSON(router, "/locations")
	require.Equal(t, http.StatusOK, w.Code)

	var out []models.Location
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "loc-1", out[0].LocationID)
}

func TestGetLocation_HidesNonActive(t *testing.T) {
	suspended := activeLocation("loc-1")
	suspended.Status = models.LocationSuspended
	locs := newFakeLocationStore(suspended)
	h := &LocationHandler{Locations: locs, Updates: &fakeStatusUpdateStore{loc: locs}, Reviews: newFakeReviewStore(), Log: zap.NewNop()}
	router := newLocationRouter(h)

	w := getJSON(router, "/locations/loc-1")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStatusHistory_NewestFirst(t *testing.T) {
	locs := newFakeLocationStore(activeLocation("loc-1"))
	base := time.Now().Add(-time.Hour)
	for i, status := range []models.AvailabilityStatus{
		models.AvailabilityOpen,
		models.AvailabilityLimited,
		models.AvailabilityClosed,
	} {
		_, err := locs.UpdateStatus(context.Background(), store.StatusUpdateInput{
			LocationID: "loc-1",
			Status:     status,
			UpdatedBy:  "user-1",
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	h := &LocationHandler{Locations: locs, Updates: &fakeStatusUpdateStore{loc: locs}, Reviews: newFakeReviewStore(), Log: zap.NewNop()}
	router := newLocationRouter(h)

	w := getJSON(router, "/locations/loc-1/updates")
	require.Equal(t, http.StatusOK, w.Code)

	var history []models.StatusUpdate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 3)
	assert.Equal(t, models.AvailabilityClosed, history[0].Status)
	assert.Equal(t, models.AvailabilityLimited, history[1].Status)
	assert.Equal(t, models.AvailabilityOpen, history[2].Status)
}

func TestListReviews_ApprovedOnly(t *testing.T) {
	locs := newFakeLocationStore(activeLocation("loc-1"))
	reviews := newFakeReviewStore(
		&models.Review{LocationID: "loc-1", UserID: "user-2", Rating: 5, Status: models.ReviewApproved},
		&models.Review{LocationID: "loc-1", UserID: "user-3", Rating: 1, Status: models.ReviewPending},
	)
	h := &LocationHandler{Locations: locs, Updates: &fakeStatusUpdateStore{loc: locs}, Reviews: reviews, Log: zap.NewNop()}
	router := newLocationRouter(h)

	w := getJSON(router, "/locations/loc-1/reviews")
	require.Equal(t, http.StatusOK, w.Code)

	var out []models.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, models.ReviewApproved, out[0].Status)
}

func TestGetLocation_NonRetryableErrorSurfacesOnce(t *testing.T) {
	locs := newFakeLocationStore()
	h := &LocationHandler{Locations: locs, Updates: &fakeStatusUpdateStore{loc: locs}, Reviews: newFakeReviewStore(), Log: zap.NewNop()}
	router := newLocationRouter(h)

	w := getJSON(router, "/locations/loc-missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
