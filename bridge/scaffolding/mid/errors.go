package mid

import (
	"context"
	"errors"
	"net/http"
	"path"

	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/infrastructure/web"
	"github.com/jrazmi/taskforge/sdk/logger"
)

// Errors handles errors coming out of the call chain. With debug enabled
// the wrapped cause is returned to the client as details.
func Errors(log *logger.Logger, debug bool) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)
			err := isError(resp)
			if err == nil {
				return resp
			}

			var appErr *errs.Error
			if !errors.As(err, &appErr) {
				appErr = errs.Wrap(errs.Internal, err, "Internal Server Error")
			}

			attrs := []any{
				"err", err,
				"status", appErr.HTTPStatus(),
				"source_err_file", path.Base(appErr.FileName),
				"source_err_func", path.Base(appErr.FuncName),
			}
			if appErr.HTTPStatus() >= http.StatusInternalServerError {
				log.ErrorContext(ctx, "handled error during request", attrs...)
			} else {
				log.InfoContext(ctx, "handled error during request", attrs...)
			}

			if appErr.Code == errs.InternalOnlyLog {
				appErr = errs.Wrap(errs.Internal, appErr.Unwrap(), "Internal Server Error")
			}
			if debug && appErr.Unwrap() != nil {
				appErr = appErr.WithDetails(appErr.Unwrap().Error())
			}

			return appErr
		}
	}
}
