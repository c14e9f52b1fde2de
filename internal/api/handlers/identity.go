package handlers

import (
	"feedfind-api-server/internal/models"

	"github.com/gin-gonic/gin"
)

// Identity is the caller's resolved authorization capability, extracted once
// per request from the context values set by the Authenticate middleware.
// Every mutating handler evaluates permissions through this one object.
type Identity struct {
	UserID     string
	Email      string
	Role       string
	ProviderID string
}

func identityFrom(c *gin.Context) Identity {
	id := Identity{}
	if v, ok := c.Get("user_id"); ok {
		id.UserID, _ = v.(string)
	}
	if v, ok := c.Get("user_email"); ok {
		id.Email, _ = v.(string)
	}
	if v, ok := c.Get("user_role"); ok {
		id.Role, _ = v.(string)
	}
	if v, ok := c.Get("user_provider_id"); ok {
		id.ProviderID, _ = v.(string)
	}
	return id
}

// IsAdmin reports whether the caller holds a platform moderation role.
func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin || id.Role == models.RoleSuperuser
}

// CanManageProvider reports whether the caller may mutate the given
// provider's resources: platform admins, the user the provider token was
// issued for, and members of the provider's access map.
func (id Identity) CanManageProvider(p *models.Provider) bool {
	if id.IsAdmin() {
		return true
	}
	if id.ProviderID != "" && id.ProviderID == p.ProviderID {
		return true
	}
	return p.HasMember(id.UserID)
}
