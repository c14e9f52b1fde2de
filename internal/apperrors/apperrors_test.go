package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("notes", "too long"), http.StatusBadRequest},
		{"permission", NewPermission("not a member"), http.StatusForbidden},
		{"not found", NewNotFound("location", "loc-1"), http.StatusNotFound},
		{"network", NewNetwork("find", errors.New("timeout")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped network", fmt.Errorf("listing: %w", NewNetwork("find", errors.New("timeout"))), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewNetwork("find", errors.New("timeout"))))
	assert.True(t, IsRetryable(fmt.Errorf("outer: %w", NewNetwork("find", errors.New("timeout")))))

	assert.False(t, IsRetryable(NewValidation("status", "bad value")))
	assert.False(t, IsRetryable(NewPermission("nope")))
	assert.False(t, IsRetryable(NewNotFound("location", "loc-1")))
	assert.False(t, IsRetryable(errors.New("boom")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "notes: too long", NewValidation("notes", "too long").Error())
	assert.Equal(t, "too long", NewValidation("", "too long").Error())
	assert.Equal(t, `location "loc-1" not found`, NewNotFound("location", "loc-1").Error())

	inner := errors.New("connection reset")
	ne := NewNetwork("find", inner)
	assert.ErrorIs(t, ne, inner)
}
