package usersrepobridge

import (
	"context"
	"net/http"
	"slices"

	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/taskforge/bridge/scaffolding/mid"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/fop"
	"github.com/jrazmi/taskforge/infrastructure/web"
	"github.com/jrazmi/taskforge/sdk/logger"
)

// Config holds configuration for the User bridge. Tasks is used to remove a
// user's tasks and attachments before the account goes.
type Config struct {
	Log        *logger.Logger
	Repository *usersrepo.Repository
	Tasks      *tasksrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers the admin only user routes. Middleware must
// authenticate the caller; the admin check is appended here.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository, cfg.Tasks)
	mw := append(slices.Clone(cfg.Middleware), mid.RequireAdmin())

	group.GET("/users", b.httpList, mw...)
	group.POST("/users", b.httpCreate, mw...)
	group.GET("/users/{user_id}", b.httpGetByID, mw...)
	group.PUT("/users/{user_id}", b.httpUpdate, mw...)
	group.DELETE("/users/{user_id}", b.httpDelete, mw...)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	qp := parseQueryParams(r)
	filter := parseFilter(qp)
	orderBy := parseOrderBy(qp)
	page := fop.ParsePageOffset(qp.Page, qp.Limit)

	users, err := b.usersRepository.List(ctx, filter, orderBy, page)
	if err != nil {
		return ToAppError(err)
	}
	total, err := b.usersRepository.Count(ctx, filter)
	if err != nil {
		return ToAppError(err)
	}

	return fopbridge.NewPageResponse(MarshalListToBridge(users), total, page)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	user, err := b.usersRepository.Get(ctx, parsePath(r).UserID)
	if err != nil {
		return ToAppError(err)
	}
	return web.NewJSONResponse(MarshalToBridge(user))
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	var input CreateUserInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Wrap(errs.InvalidArgument, err, "Invalid request body")
	}

	user, err := b.usersRepository.Create(ctx, MarshalCreateToRepository(input))
	if err != nil {
		return ToAppError(err)
	}
	return web.NewJSONResponseWithStatus(MarshalToBridge(user), http.StatusCreated)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	var input UpdateUserInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Wrap(errs.InvalidArgument, err, "Invalid request body")
	}

	user, err := b.usersRepository.Update(ctx, parsePath(r).UserID, MarshalUpdateToRepository(input))
	if err != nil {
		return ToAppError(err)
	}
	return web.NewJSONResponse(MarshalToBridge(user))
}

// httpDelete removes the user's tasks first so no attachment outlives its
// owner.
func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	userID := parsePath(r).UserID
	if _, err := b.usersRepository.Get(ctx, userID); err != nil {
		return ToAppError(err)
	}
	if _, err := b.tasksRepository.DeleteByOwner(ctx, userID); err != nil {
		return errs.Wrap(errs.Internal, err, "Internal Server Error")
	}
	if err := b.usersRepository.Delete(ctx, userID); err != nil {
		return ToAppError(err)
	}
	return nil
}
