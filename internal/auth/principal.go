// Package auth carries the authenticated caller through the service layer.
package auth

import (
	"go-inventory-tracker/internal/model"

	"github.com/google/uuid"
)

// Principal is the caller of a request, taken from a verified token.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     model.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}
