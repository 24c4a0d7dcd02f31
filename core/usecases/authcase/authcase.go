// Package authcase registers accounts and exchanges credentials for bearer
// tokens.
package authcase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/sdk/logger"
	"github.com/jrazmi/taskforge/sdk/tokens"
)

var ErrMissingCredentials = errors.New("email and password are required")

// Session is the result of a successful login.
type Session struct {
	Token string
	User  usersrepo.User
}

// Case ties the user repository to the token issuer.
type Case struct {
	log    *logger.Logger
	users  *usersrepo.Repository
	issuer *tokens.Issuer
}

func NewCase(log *logger.Logger, users *usersrepo.Repository, issuer *tokens.Issuer) *Case {
	return &Case{
		log:    log,
		users:  users,
		issuer: issuer,
	}
}

// Register creates an account. The caller may request a role.
func (c *Case) Register(ctx context.Context, input usersrepo.CreateUser) (usersrepo.User, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return usersrepo.User{}, ErrMissingCredentials
	}

	user, err := c.users.Create(ctx, input)
	if err != nil {
		return usersrepo.User{}, err
	}
	return user, nil
}

// Login verifies the credentials and issues a token carrying the user's id
// and role.
func (c *Case) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, ErrMissingCredentials
	}

	user, err := c.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, usersrepo.ErrInvalidCredentials) {
			c.log.InfoContext(ctx, "login rejected", "email", email)
		}
		return Session{}, err
	}

	token, err := c.issuer.Issue(user.UserID, user.Role)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, User: user}, nil
}

// Me resolves the account behind a verified token.
func (c *Case) Me(ctx context.Context, userID string) (usersrepo.User, error) {
	return c.users.Get(ctx, userID)
}
