package mid

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/jrazmi/taskforge/bridge/scaffolding/errs"
	"github.com/jrazmi/taskforge/bridge/scaffolding/metrics"
	"github.com/jrazmi/taskforge/infrastructure/web"
)

// Panics recovers from panics and converts the panic to an error so it is
// reported in Metrics and handled in Errors.
func Panics() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) (resp web.Encoder) {
			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					resp = errs.Wrap(errs.InternalOnlyLog, fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(trace)), "Internal Server Error")

					metrics.AddPanics(ctx)
				}
			}()

			return next(ctx, r)
		}
	}
}
