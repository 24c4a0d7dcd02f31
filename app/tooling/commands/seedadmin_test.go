package commands_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jrazmi/taskforge/app/tooling/commands"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo/stores/usersmemstore"
	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/sdk/logger"
	"github.com/jrazmi/taskforge/sdk/passwords"
	"golang.org/x/crypto/bcrypt"
)

func newUsers() (*logger.Logger, *usersrepo.Repository) {
	log := logger.NewDefault(logger.WithLevel("ERROR"))
	return log, usersrepo.NewRepository(log, usersmemstore.NewStore(), passwords.New(bcrypt.MinCost))
}

func TestSeedAdminCreates(t *testing.T) {
	ctx := context.Background()
	log, users := newUsers()

	args := []string{"-email", "root@example.com", "-password", "s3cret"}
	if err := commands.SeedAdmin(ctx, log, users, "TOOLING", args, io.Discard); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	u, err := users.Authenticate(ctx, "root@example.com", "s3cret")
	if err != nil {
		t.Fatalf("seeded admin cannot log in: %v", err)
	}
	if u.Role != access.RoleAdmin {
		t.Errorf("role = %s, want admin", u.Role)
	}
}

func TestSeedAdminPromotesExisting(t *testing.T) {
	ctx := context.Background()
	log, users := newUsers()

	existing, err := users.Create(ctx, usersrepo.CreateUser{Email: "ann@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	args := []string{"-email", "ann@example.com", "-password", "other"}
	if err := commands.SeedAdmin(ctx, log, users, "TOOLING", args, io.Discard); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	u, err := users.Get(ctx, existing.UserID)
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if !u.IsAdmin() {
		t.Errorf("role = %s, want admin", u.Role)
	}
	if _, err := users.Authenticate(ctx, "ann@example.com", "pw"); err != nil {
		t.Errorf("promotion must keep the password: %v", err)
	}
}

func TestSeedAdminRequiresCredentials(t *testing.T) {
	log, users := newUsers()
	t.Setenv("TOOLING_ADMIN_PASSWORD", "")

	err := commands.SeedAdmin(context.Background(), log, users, "TOOLING", []string{"-email", "root@example.com"}, io.Discard)
	if !errors.Is(err, usersrepo.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}

	err = commands.SeedAdmin(context.Background(), log, users, "TOOLING", []string{"-h"}, io.Discard)
	if !errors.Is(err, commands.ErrHelp) {
		t.Errorf("err = %v, want ErrHelp", err)
	}
}
