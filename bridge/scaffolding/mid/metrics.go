package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/bridge/scaffolding/metrics"
	"github.com/jrazmi/taskforge/infrastructure/web"
)

// Metrics counts requests, server errors and client rejections. The
// goroutine gauge is sampled every 1000 requests.
func Metrics() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			ctx = metrics.Set(ctx)
			resp := next(ctx, r)

			if n := metrics.AddRequests(ctx); n%1000 == 0 {
				metrics.AddGoroutines(ctx)
			}

			err := isError(resp)
			if err == nil {
				return resp
			}

			var appErr *errs.Error
			if errors.As(err, &appErr) && appErr.HTTPStatus() < http.StatusInternalServerError {
				metrics.AddRejected(ctx)
			} else {
				metrics.AddErrors(ctx)
			}
			return resp
		}
	}
}
