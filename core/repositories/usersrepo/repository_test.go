package usersrepo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo/stores/usersmemstore"
	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
	"github.com/jrazmi/taskforge/sdk/logger"
	"github.com/jrazmi/taskforge/sdk/passwords"
	"github.com/jrazmi/taskforge/sdk/validation"
	"golang.org/x/crypto/bcrypt"
)

func newRepo() *usersrepo.Repository {
	log := logger.NewDefault(logger.WithLevel("ERROR"))
	return usersrepo.NewRepository(log, usersmemstore.NewStore(), passwords.New(bcrypt.MinCost))
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	user, err := repo.Create(ctx, usersrepo.CreateUser{Email: " Ann@example.com ", Password: "s3cret"})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if user.Email != "Ann@example.com" {
		t.Errorf("email = %q, want trimmed with case kept", user.Email)
	}
	if user.Role != access.RoleUser {
		t.Errorf("role = %q, want default user", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret" {
		t.Errorf("password was not hashed")
	}

	got, err := repo.Authenticate(ctx, "Ann@example.com", "s3cret")
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if got.UserID != user.UserID {
		t.Errorf("authenticated %s, want %s", got.UserID, user.UserID)
	}

	if _, err := repo.Authenticate(ctx, "Ann@example.com", "wrong"); !errors.Is(err, usersrepo.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := repo.Authenticate(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, usersrepo.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	tests := map[string]usersrepo.CreateUser{
		"missing email":    {Password: "x"},
		"missing password": {Email: "a@example.com"},
		"bad email":        {Email: "not-an-email", Password: "x"},
		"bad role":         {Email: "a@example.com", Password: "x", Role: "root"},
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := repo.Create(ctx, input); !errors.Is(err, usersrepo.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	if _, err := repo.Create(ctx, usersrepo.CreateUser{Email: "a@example.com", Password: "x"}); err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if _, err := repo.Create(ctx, usersrepo.CreateUser{Email: "a@example.com", Password: "y"}); !errors.Is(err, usersrepo.ErrDuplicateEmail) {
		t.Errorf("duplicate create: err = %v", err)
	}

	other, err := repo.Create(ctx, usersrepo.CreateUser{Email: "b@example.com", Password: "x"})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if _, err := repo.Update(ctx, other.UserID, usersrepo.UpdateUser{Email: validation.Ptr("a@example.com")}); !errors.Is(err, usersrepo.ErrDuplicateEmail) {
		t.Errorf("duplicate update: err = %v", err)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	user, err := repo.Create(ctx, usersrepo.CreateUser{Email: "a@example.com", Password: "old"})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}

	updated, err := repo.Update(ctx, user.UserID, usersrepo.UpdateUser{
		Email:    validation.Ptr(""),
		Password: validation.Ptr("new"),
		Role:     validation.Ptr(access.RoleAdmin),
	})
	if err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if updated.Email != "a@example.com" {
		t.Errorf("blank email should leave email unchanged, got %q", updated.Email)
	}
	if !updated.IsAdmin() {
		t.Errorf("role = %q, want admin", updated.Role)
	}
	if _, err := repo.Authenticate(ctx, "a@example.com", "new"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	if _, err := repo.Update(ctx, "missing", usersrepo.UpdateUser{}); !errors.Is(err, usersrepo.ErrNotFound) {
		t.Errorf("update missing: err = %v", err)
	}
	if _, err := repo.Update(ctx, user.UserID, usersrepo.UpdateUser{Role: validation.Ptr("root")}); !errors.Is(err, usersrepo.ErrInvalidInput) {
		t.Errorf("bad role: err = %v", err)
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	for i, email := range []string{"Alice@Example.com", "bob@example.com", "carol@other.org"} {
		role := access.RoleUser
		if i == 0 {
			role = access.RoleAdmin
		}
		if _, err := repo.Create(ctx, usersrepo.CreateUser{Email: email, Password: "x", Role: role}); err != nil {
			t.Fatalf("failed to create %s: %v", email, err)
		}
	}

	tests := []struct {
		filter usersrepo.UserFilter
		want   int
	}{
		{usersrepo.UserFilter{}, 3},
		{usersrepo.UserFilter{Role: validation.Ptr(access.RoleAdmin)}, 1},
		{usersrepo.UserFilter{Email: validation.Ptr("EXAMPLE")}, 2},
		{usersrepo.UserFilter{Email: validation.Ptr("example"), Role: validation.Ptr(access.RoleUser)}, 1},
		{usersrepo.UserFilter{Email: validation.Ptr("nobody")}, 0},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			users, err := repo.List(ctx, tt.filter, fop.NewBy(usersrepo.OrderByEmail, fop.ASC), fop.PageOffset{Page: 1, Limit: 10})
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(users) != tt.want {
				t.Errorf("listed %d users, want %d", len(users), tt.want)
			}
			n, err := repo.Count(ctx, tt.filter)
			if err != nil {
				t.Fatalf("failed to count: %v", err)
			}
			if n != tt.want {
				t.Errorf("count = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	user, err := repo.Create(ctx, usersrepo.CreateUser{Email: "a@example.com", Password: "x"})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if err := repo.Delete(ctx, user.UserID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := repo.Get(ctx, user.UserID); !errors.Is(err, usersrepo.ErrNotFound) {
		t.Errorf("get after delete: err = %v", err)
	}
	if err := repo.Delete(ctx, user.UserID); !errors.Is(err, usersrepo.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}
