package auth

import (
	"errors"

	"github.com/crowddocs/contribution-service/internal/models"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)

// Identity is the caller derived from a validated auth token. It is threaded
// explicitly into every service operation, never read from ambient state.
type Identity struct {
	UserID uint
	Role   models.Role
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// IdentityFromClaims validates an auth-purpose payload into an Identity.
func IdentityFromClaims(claims Claims) (Identity, error) {
	if claims.UserID == 0 || !claims.Role.Valid() {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// RequireRole fails with ErrForbidden unless the caller holds one of the
// given roles.
func RequireRole(id Identity, roles ...models.Role) error {
	for _, role := range roles {
		if id.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// RequireOwnerOrAdmin enforces the mutation rule for contribution records:
// admins may touch anything, everyone else only their own records.
func RequireOwnerOrAdmin(id Identity, ownerID uint) error {
	if id.IsAdmin() || id.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}
