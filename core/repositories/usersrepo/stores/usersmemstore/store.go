// Package usersmemstore is an in-process account store for degraded mode
// and tests.
package usersmemstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
)

// Store implements usersrepo.Storer in memory.
type Store struct {
	mu    sync.RWMutex
	users map[string]usersrepo.User
}

func NewStore() *Store {
	return &Store{users: make(map[string]usersrepo.User)}
}

func (s *Store) Create(ctx context.Context, user usersrepo.User) (usersrepo.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, "") {
		return usersrepo.User{}, usersrepo.ErrDuplicateEmail
	}
	s.users[user.UserID] = user
	return user, nil
}

func (s *Store) Get(ctx context.Context, userID string) (usersrepo.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return usersrepo.User{}, usersrepo.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (usersrepo.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return usersrepo.User{}, usersrepo.ErrNotFound
}

func (s *Store) List(ctx context.Context, filter usersrepo.UserFilter, orderBy fop.By, page fop.PageOffset) ([]usersrepo.User, error) {
	s.mu.RLock()
	matched := s.match(filter)
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b usersrepo.User) int {
		c := compareField(a, b, orderBy.Field)
		if c == 0 {
			c = strings.Compare(a.UserID, b.UserID)
		}
		if orderBy.Direction == fop.DESC {
			return -c
		}
		return c
	})

	start := page.Offset()
	if start >= len(matched) {
		return []usersrepo.User{}, nil
	}
	end := min(start+page.Limit, len(matched))
	return matched[start:end], nil
}

func (s *Store) Count(ctx context.Context, filter usersrepo.UserFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.match(filter)), nil
}

func (s *Store) Update(ctx context.Context, user usersrepo.User) (usersrepo.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UserID]; !ok {
		return usersrepo.User{}, usersrepo.ErrNotFound
	}
	if s.emailTaken(user.Email, user.UserID) {
		return usersrepo.User{}, usersrepo.ErrDuplicateEmail
	}
	s.users[user.UserID] = user
	return user, nil
}

func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return usersrepo.ErrNotFound
	}
	delete(s.users, userID)
	return nil
}

// emailTaken must be called with the lock held.
func (s *Store) emailTaken(email, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

// match must be called with the lock held.
func (s *Store) match(f usersrepo.UserFilter) []usersrepo.User {
	var needle string
	if f.Email != nil {
		needle = strings.ToLower(*f.Email)
	}

	out := make([]usersrepo.User, 0, len(s.users))
	for _, u := range s.users {
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		if f.Email != nil && !strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func compareField(a, b usersrepo.User, field string) int {
	switch field {
	case usersrepo.OrderByPK:
		return strings.Compare(a.UserID, b.UserID)
	case usersrepo.OrderByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case usersrepo.OrderByEmail:
		return cmp.Compare(a.Email, b.Email)
	case usersrepo.OrderByRole:
		return cmp.Compare(a.Role, b.Role)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
