package authcasebridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/taskforge/bridge/repositories/usersrepobridge"
	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/bridge/scaffolding/mid"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/usecases/authcase"
	"github.com/jrazmi/taskforge/infrastructure/web"
	"github.com/jrazmi/taskforge/sdk/logger"
)

// Config holds configuration for the auth bridge. Register and login are
// public; Middleware guards /auth/me and must authenticate the caller.
type Config struct {
	Log        *logger.Logger
	AuthCase   *authcase.Case
	Middleware []web.Middleware
}

// AddHttpRoutes registers the auth routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.AuthCase)

	group.POST("/auth/register", b.httpRegister)
	group.POST("/auth/login", b.httpLogin)
	group.GET("/auth/me", b.httpMe, cfg.Middleware...)
}

func (b *bridge) httpRegister(ctx context.Context, r *http.Request) web.Encoder {
	var input RegisterInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Wrap(errs.InvalidArgument, err, "Invalid request body")
	}

	user, err := b.authCase.Register(ctx, usersrepo.CreateUser{
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return toAppError(err)
	}
	return web.NewJSONResponseWithStatus(usersrepobridge.MarshalToBridge(user), http.StatusCreated)
}

func (b *bridge) httpLogin(ctx context.Context, r *http.Request) web.Encoder {
	var input LoginInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Wrap(errs.InvalidArgument, err, "Invalid request body")
	}

	session, err := b.authCase.Login(ctx, input.Email, input.Password)
	if err != nil {
		return toAppError(err)
	}
	return web.NewJSONResponse(Session{
		Token: session.Token,
		User:  usersrepobridge.MarshalToBridge(session.User),
	})
}

func (b *bridge) httpMe(ctx context.Context, r *http.Request) web.Encoder {
	actor, err := mid.GetActor(ctx)
	if err != nil {
		return errs.Wrap(errs.Unauthenticated, err, "Authentication required")
	}

	user, err := b.authCase.Me(ctx, actor.UserID)
	if err != nil {
		return toAppError(err)
	}
	return web.NewJSONResponse(usersrepobridge.MarshalToBridge(user))
}
