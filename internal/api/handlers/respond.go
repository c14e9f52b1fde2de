package handlers

import (
	"feedfind-api-server/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps a taxonomy error onto the HTTP response. Validation and
// permission messages surface verbatim; anything unclassified becomes a 500.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
}
