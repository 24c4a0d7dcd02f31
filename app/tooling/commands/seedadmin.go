package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/sdk/logger"
)

// SeedAdmin creates an admin account, or promotes the existing account with
// that email. The password falls back to PREFIX_ADMIN_PASSWORD so it need
// not appear in shell history.
func SeedAdmin(ctx context.Context, log *logger.Logger, users *usersrepo.Repository, prefix string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	fs.SetOutput(out)
	email := fs.String("email", "", "admin email address")
	password := fs.String("password", "", "admin password (default $"+prefix+"_ADMIN_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return err
	}
	if *password == "" {
		*password = os.Getenv(prefix + "_ADMIN_PASSWORD")
	}

	user, err := users.Create(ctx, usersrepo.CreateUser{
		Email:    *email,
		Password: *password,
		Role:     access.RoleAdmin,
	})
	switch {
	case err == nil:
		log.InfoContext(ctx, "admin created", "user_id", user.UserID, "email", user.Email)
		return nil

	case errors.Is(err, usersrepo.ErrDuplicateEmail):
		return promote(ctx, log, users, *email)

	default:
		return fmt.Errorf("seed admin: %w", err)
	}
}

func promote(ctx context.Context, log *logger.Logger, users *usersrepo.Repository, email string) error {
	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("find existing user: %w", err)
	}
	if u.IsAdmin() {
		log.InfoContext(ctx, "user is already an admin", "user_id", u.UserID, "email", u.Email)
		return nil
	}

	role := access.RoleAdmin
	if _, err := users.Update(ctx, u.UserID, usersrepo.UpdateUser{Role: &role}); err != nil {
		return fmt.Errorf("promote %s: %w", email, err)
	}
	log.InfoContext(ctx, "existing user promoted to admin", "user_id", u.UserID, "email", u.Email)
	return nil
}
