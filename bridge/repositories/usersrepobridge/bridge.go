// Package usersrepobridge exposes account management to administrators.
package usersrepobridge

import (
	"errors"

	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/sdk/logger"
)

type bridge struct {
	log             *logger.Logger
	usersRepository *usersrepo.Repository
	tasksRepository *tasksrepo.Repository
}

func newBridge(log *logger.Logger, usersRepository *usersrepo.Repository, tasksRepository *tasksrepo.Repository) *bridge {
	return &bridge{
		log:             log,
		usersRepository: usersRepository,
		tasksRepository: tasksRepository,
	}
}

// ToAppError maps user repository errors onto HTTP error codes.
func ToAppError(err error) *errs.Error {
	if appErr := errs.GetError(err); appErr != nil {
		return appErr
	}
	switch {
	case errors.Is(err, usersrepo.ErrNotFound):
		return errs.Wrap(errs.NotFound, err, "User not found")
	case errors.Is(err, usersrepo.ErrDuplicateEmail):
		return errs.Wrap(errs.AlreadyExists, err, "Email already in use")
	case errors.Is(err, usersrepo.ErrInvalidCredentials):
		return errs.Wrap(errs.Unauthenticated, err, "Invalid credentials")
	case errors.Is(err, usersrepo.ErrInvalidInput):
		return errs.New(errs.InvalidArgument, err)
	}
	return errs.Wrap(errs.Internal, err, "Internal Server Error")
}
