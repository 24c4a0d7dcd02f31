package usersrepo

import (
	"fmt"
	"strings"
	"time"

	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/sdk/validation"
)

// User is an account. PasswordHash never leaves the core.
type User struct {
	UserID       string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether u holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == access.RoleAdmin
}

// CreateUser is the input for registration and admin creation. Role
// defaults to user.
type CreateUser struct {
	Email    string
	Password string
	Role     string
}

// UpdateUser changes only the fields that are set. Password is re-hashed.
type UpdateUser struct {
	Email    *string
	Password *string
	Role     *string
}

// UserFilter narrows a user listing. Email matches as a case-insensitive
// substring.
type UserFilter struct {
	Role  *string
	Email *string
}

// Validate normalises and checks a create request.
func (c *CreateUser) Validate() error {
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" || c.Password == "" {
		return fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if !validation.IsEmail(c.Email) {
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}

	role, err := access.ParseRole(c.Role)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	c.Role = role
	return nil
}

// Validate normalises and checks an update request. Empty email and
// password values are treated as absent.
func (u *UpdateUser) Validate() error {
	u.Email = validation.TrimPtr(u.Email)
	if u.Email != nil && *u.Email == "" {
		u.Email = nil
	}
	if u.Email != nil && !validation.IsEmail(*u.Email) {
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if u.Password != nil && *u.Password == "" {
		u.Password = nil
	}
	if u.Role != nil {
		if *u.Role == "" {
			return fmt.Errorf("%w: role cannot be empty", ErrInvalidInput)
		}
		role, err := access.ParseRole(*u.Role)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		u.Role = &role
	}
	return nil
}
