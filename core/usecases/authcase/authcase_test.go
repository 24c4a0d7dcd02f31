package authcase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo/stores/usersmemstore"
	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/core/usecases/authcase"
	"github.com/jrazmi/taskforge/sdk/logger"
	"github.com/jrazmi/taskforge/sdk/passwords"
	"github.com/jrazmi/taskforge/sdk/tokens"
	"golang.org/x/crypto/bcrypt"
)

func newCase(t *testing.T) (*authcase.Case, *tokens.Issuer) {
	t.Helper()
	log := logger.NewDefault(logger.WithLevel("ERROR"))

	issuer, err := tokens.New(tokens.Options{SigningKey: "0123456789abcdef0123456789abcdef", Lifetime: time.Hour, Issuer: "test"})
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}
	users := usersrepo.NewRepository(log, usersmemstore.NewStore(), passwords.New(bcrypt.MinCost))
	return authcase.NewCase(log, users, issuer), issuer
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	c, issuer := newCase(t)

	user, err := c.Register(ctx, usersrepo.CreateUser{Email: "a@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	session, err := c.Login(ctx, " a@example.com ", "pw")
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if session.User.UserID != user.UserID {
		t.Errorf("session user = %s, want %s", session.User.UserID, user.UserID)
	}

	claims, err := issuer.Verify(session.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID() != user.UserID || claims.Role != access.RoleUser {
		t.Errorf("claims = %s/%s, want %s/user", claims.UserID(), claims.Role, user.UserID)
	}

	me, err := c.Me(ctx, claims.UserID())
	if err != nil {
		t.Fatalf("failed to resolve me: %v", err)
	}
	if me.Email != "a@example.com" {
		t.Errorf("me = %q", me.Email)
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	c, _ := newCase(t)

	if _, err := c.Register(ctx, usersrepo.CreateUser{Email: "a@example.com", Password: "pw"}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	if _, err := c.Login(ctx, "a@example.com", "nope"); !errors.Is(err, usersrepo.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := c.Login(ctx, "", "pw"); !errors.Is(err, authcase.ErrMissingCredentials) {
		t.Errorf("missing email: err = %v", err)
	}
	if _, err := c.Register(ctx, usersrepo.CreateUser{Email: "b@example.com"}); !errors.Is(err, authcase.ErrMissingCredentials) {
		t.Errorf("missing password: err = %v", err)
	}
	if _, err := c.Register(ctx, usersrepo.CreateUser{Email: "a@example.com", Password: "pw"}); !errors.Is(err, usersrepo.ErrDuplicateEmail) {
		t.Errorf("duplicate register: err = %v", err)
	}
}
