package handlers

import (
	"net/http"

	"feedfind-api-server/internal/auth"
	"feedfind-api-server/internal/models"
	"feedfind-api-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Users     store.UserStore
	Providers store.ProviderStore
	Log       *zap.Logger
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterProviderRequest struct {
	OrganizationName string `json:"organizationName" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	Name             string `json:"name" binding:"required"`
	Phone            string `json:"phone"`
	Website          string `json:"website"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateJWT(user.UserID, user.Email, user.Role, user.ProviderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// RegisterProvider creates the user account and a pending provider owning it.
// The provider only becomes operable after an admin approves it.
func (h *AuthHandler) RegisterProvider(c *gin.Context) {
	var req RegisterProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	userID := "user-" + uuid.New().String()[:8]
	providerID := "prov-" + uuid.New().String()[:8]

	user := &models.User{
		UserID:     userID,
		Email:      req.Email,
		Name:       req.Name,
		Password:   hashedPassword,
		Role:       models.RoleProvider,
		ProviderID: providerID,
		Status:     "active",
	}
	if _, err := h.Users.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	provider := &models.Provider{
		ProviderID:   providerID,
		Name:         req.OrganizationName,
		ContactEmail: req.Email,
		Phone:        req.Phone,
		Website:      req.Website,
		Status:       models.ProviderPending,
		Members: map[string]models.Member{
			userID: {Role: "owner"},
		},
	}
	if _, err := h.Providers.Create(c.Request.Context(), provider); err != nil {
		// Roll back the user so the account does not end up referencing a
		// provider that was never created, and a retry can succeed.
		if delErr := h.Users.Delete(c.Request.Context(), userID); delErr != nil {
			h.Log.Warn("failed to roll back user after provider create failure",
				zap.String("userID", userID), zap.Error(delErr))
		}
		respondError(c, err)
		return
	}

	h.Log.Info("provider registered",
		zap.String("providerID", providerID), zap.String("userID", userID))

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"message":  "Registration received; the organization is pending approval",
		"provider": provider,
		"user":     user,
	})
}
