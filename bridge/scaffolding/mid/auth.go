package mid

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/infrastructure/web"
	"github.com/jrazmi/taskforge/sdk/tokens"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (tokens.Claims, error)
}

// Authenticate requires a valid bearer token and places the caller in the
// context.
func Authenticate(verifier TokenVerifier) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			token, ok := bearerToken(r)
			if !ok {
				return errs.Wrap(errs.Unauthenticated, access.ErrUnauthenticated, "Authentication required")
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return errs.Wrap(errs.Unauthenticated, err, "Invalid or expired token")
			}

			role, err := access.ParseRole(claims.Role)
			if err != nil || claims.UserID() == "" {
				return errs.Wrap(errs.Unauthenticated, errors.Join(tokens.ErrInvalidToken, err), "Invalid or expired token")
			}

			ctx = setActor(ctx, access.Actor{UserID: claims.UserID(), Role: role})
			return next(ctx, r)
		}
	}
}

// RequireAdmin rejects callers without the admin role. It must run after
// Authenticate.
func RequireAdmin() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			actor, err := GetActor(ctx)
			if err != nil {
				return errs.Wrap(errs.Unauthenticated, err, "Authentication required")
			}
			if err := access.RequireAdmin(actor); err != nil {
				return errs.Wrap(errs.PermissionDenied, err, "Admin access required")
			}
			return next(ctx, r)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
