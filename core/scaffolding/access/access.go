// Package access is the single home of role based authorization decisions.
// Handlers ask it questions; nothing else compares roles.
package access

import (
	"errors"
	"fmt"
)

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidRole     = errors.New("invalid role")
)

// Actor is the authenticated principal making a request.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ParseRole validates a role name. Empty means the default user role.
func ParseRole(role string) (string, error) {
	switch role {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
}

// RequireAdmin guards the user management surface.
func RequireAdmin(a Actor) error {
	if a.UserID == "" {
		return ErrUnauthenticated
	}
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// CanAccess allows the owner of a resource or an admin.
func CanAccess(a Actor, ownerID string) error {
	if a.UserID == "" {
		return ErrUnauthenticated
	}
	if a.IsAdmin() || a.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}

// OwnerForCreate resolves who owns a new task. Only admins may create on
// behalf of someone else.
func OwnerForCreate(a Actor, requested string) string {
	if a.IsAdmin() && requested != "" {
		return requested
	}
	return a.UserID
}

// ScopeOwner resolves the owner filter for a task listing. Non-admins are
// always pinned to themselves; admins see everything unless they ask for a
// specific owner.
func ScopeOwner(a Actor, requested string) *string {
	if !a.IsAdmin() {
		id := a.UserID
		return &id
	}
	if requested == "" {
		return nil
	}
	return &requested
}

// CanReassign reports whether the actor may change a task's owner.
func CanReassign(a Actor) bool {
	return a.IsAdmin()
}
