package httpkit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity carries the authenticated caller extracted from the access token.
type Identity struct {
	UserID uuid.UUID
	Roles  []string
}

// GetIdentity reads the identity placed on the context by AuthRequired.
func GetIdentity(c *gin.Context) (Identity, bool) {
	rawID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return Identity{}, false
	}

	userID, ok := rawID.(uuid.UUID)
	if !ok {
		return Identity{}, false
	}

	identity := Identity{UserID: userID}
	if rawRoles, ok := c.Get(ContextRolesKey); ok {
		if roles, ok := rawRoles.([]string); ok {
			identity.Roles = roles
		}
	}
	return identity, true
}

// MustGetIdentity returns the identity or aborts with 401. Use only on routes
// behind AuthRequired.
func MustGetIdentity(c *gin.Context) (Identity, bool) {
	identity, ok := GetIdentity(c)
	if !ok {
		abortUnauthorized(c, errMissingToken)
		return Identity{}, false
	}
	return identity, true
}
