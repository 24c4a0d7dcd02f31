// Package usersrepo manages accounts and their credentials.
package usersrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/taskforge/core/repositories"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
	"github.com/jrazmi/taskforge/sdk/logger"
	"github.com/jrazmi/taskforge/sdk/passwords"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid user input")
)

// Storer persists user records. Stores return ErrDuplicateEmail when a
// write collides with an existing email.
type Storer interface {
	repositories.Store[User, string, UserFilter]
	GetByEmail(ctx context.Context, email string) (User, error)
}

// Repository provides access to user storage.
type Repository struct {
	log    *logger.Logger
	storer Storer
	hasher passwords.Hasher
	now    func() time.Time
}

// NewRepository creates a new User repository
func NewRepository(log *logger.Logger, storer Storer, hasher passwords.Hasher) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
		hasher: hasher,
		now:    time.Now,
	}
}

// Create hashes the password and inserts the account.
func (r *Repository) Create(ctx context.Context, input CreateUser) (User, error) {
	if err := input.Validate(); err != nil {
		return User{}, err
	}

	hash, err := r.hasher.Hash(input.Password)
	if err != nil {
		return User{}, err
	}

	now := r.now().UTC()
	user := User{
		UserID:       uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := r.storer.Create(ctx, user)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	r.log.InfoContext(ctx, "user created", "user_id", created.UserID, "role", created.Role)
	return created, nil
}

// Get returns the user with the given id.
func (r *Repository) Get(ctx context.Context, userID string) (User, error) {
	user, err := r.storer.Get(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetByEmail returns the user registered under email, matched exactly.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	user, err := r.storer.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// List returns one page of users matching filter.
func (r *Repository) List(ctx context.Context, filter UserFilter, orderBy fop.By, page fop.PageOffset) ([]User, error) {
	users, err := r.storer.List(ctx, filter, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Count returns how many users match filter, ignoring pagination.
func (r *Repository) Count(ctx context.Context, filter UserFilter) (int, error) {
	n, err := r.storer.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Update applies input to the stored account.
func (r *Repository) Update(ctx context.Context, userID string, input UpdateUser) (User, error) {
	if err := input.Validate(); err != nil {
		return User{}, err
	}

	user, err := r.storer.Get(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Password != nil {
		hash, err := r.hasher.Hash(*input.Password)
		if err != nil {
			return User{}, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = r.now().UTC()

	updated, err := r.storer.Update(ctx, user)
	if err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// Delete removes the account. Callers clear the user's tasks first.
func (r *Repository) Delete(ctx context.Context, userID string) error {
	if err := r.storer.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	r.log.InfoContext(ctx, "user deleted", "user_id", userID)
	return nil
}

// Authenticate returns the account for email when password matches. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (r *Repository) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := r.storer.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}

	if err := r.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, passwords.ErrMismatch) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	return user, nil
}
