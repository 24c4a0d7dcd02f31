// Package authcasebridge exposes registration and login over HTTP.
package authcasebridge

import (
	"errors"

	"github.com/jrazmi/taskforge/bridge/repositories/usersrepobridge"
	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/core/usecases/authcase"
	"github.com/jrazmi/taskforge/sdk/logger"
)

type bridge struct {
	log      *logger.Logger
	authCase *authcase.Case
}

func newBridge(log *logger.Logger, authCase *authcase.Case) *bridge {
	return &bridge{
		log:      log,
		authCase: authCase,
	}
}

func toAppError(err error) *errs.Error {
	if errors.Is(err, authcase.ErrMissingCredentials) {
		return errs.New(errs.InvalidArgument, err)
	}
	return usersrepobridge.ToAppError(err)
}
