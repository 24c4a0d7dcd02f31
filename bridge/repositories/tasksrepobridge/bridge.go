// Package tasksrepobridge exposes tasks and their attachments over HTTP.
package tasksrepobridge

import (
	"context"
	"errors"

	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/bridge/scaffolding/mid"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/scaffolding/access"
	"github.com/jrazmi/taskforge/sdk/logger"
)

// DefaultMaxFileSize is the per file upload ceiling when none is configured.
const DefaultMaxFileSize int64 = 5 << 20

type bridge struct {
	log             *logger.Logger
	tasksRepository *tasksrepo.Repository
	maxFileSize     int64
}

func newBridge(log *logger.Logger, tasksRepository *tasksrepo.Repository, maxFileSize int64) *bridge {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &bridge{
		log:             log,
		tasksRepository: tasksRepository,
		maxFileSize:     maxFileSize,
	}
}

// loadTask fetches a task and checks the caller may touch it. A missing task
// is reported before ownership.
func (b *bridge) loadTask(ctx context.Context, taskID string) (tasksrepo.Task, access.Actor, error) {
	actor, err := mid.GetActor(ctx)
	if err != nil {
		return tasksrepo.Task{}, access.Actor{}, err
	}
	task, err := b.tasksRepository.Get(ctx, taskID)
	if err != nil {
		return tasksrepo.Task{}, access.Actor{}, err
	}
	if err := access.CanAccess(actor, task.AssignedTo); err != nil {
		return tasksrepo.Task{}, access.Actor{}, err
	}
	return task, actor, nil
}

// toAppError maps repository and policy errors onto HTTP error codes.
func toAppError(err error) *errs.Error {
	if appErr := errs.GetError(err); appErr != nil {
		return appErr
	}
	switch {
	case errors.Is(err, tasksrepo.ErrDocumentNotFound):
		return errs.Wrap(errs.NotFound, err, "Document not found")
	case errors.Is(err, tasksrepo.ErrNotFound):
		return errs.Wrap(errs.NotFound, err, "Task not found")
	case errors.Is(err, tasksrepo.ErrInvalidInput), errors.Is(err, tasksrepo.ErrTooManyDocuments):
		return errs.New(errs.InvalidArgument, err)
	case errors.Is(err, access.ErrUnauthenticated):
		return errs.Wrap(errs.Unauthenticated, err, "Authentication required")
	case errors.Is(err, access.ErrForbidden):
		return errs.Wrap(errs.PermissionDenied, err, "Forbidden")
	}
	return errs.Wrap(errs.Internal, err, "Internal Server Error")
}
