// Package api assembles the HTTP surface of the service.
package api

import (
	"context"
	"expvar"
	"net/http"

	"github.com/jrazmi/taskforge/app/taskforge/config"
	"github.com/jrazmi/taskforge/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/taskforge/bridge/repositories/usersrepobridge"
	"github.com/jrazmi/taskforge/bridge/scaffolding/mid"
	"github.com/jrazmi/taskforge/bridge/usecases/authcasebridge"
	"github.com/jrazmi/taskforge/infrastructure/web"
)

// Health is the body of GET /health.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Build    string `json:"build,omitempty"`
}

// Handler builds the root handler: health at the root, everything else under
// the configured API route.
func Handler(cfg config.Taskforge) http.Handler {
	wh := web.NewWebHandler(
		web.HandlerOptions{CORSOrigins: cfg.Server.CORSOrigins},
		web.WithLogging(cfg.Log.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Log),
			mid.Errors(cfg.Log, cfg.Server.EnableDebug),
			mid.Metrics(),
			mid.Panics(),
		),
	)

	wh.GET("/health", health(cfg))
	if cfg.Server.EnableDebug {
		wh.HandleRaw("GET /debug/vars", expvar.Handler())
	}

	group := wh.Group(cfg.Server.APIRoute)
	authenticated := []web.Middleware{mid.Authenticate(cfg.Issuer)}

	authcasebridge.AddHttpRoutes(group, authcasebridge.Config{
		Log:        cfg.Log,
		AuthCase:   cfg.AuthCase,
		Middleware: authenticated,
	})
	tasksrepobridge.AddHttpRoutes(group, tasksrepobridge.Config{
		Log:         cfg.Log,
		Repository:  cfg.Repositories.Tasks,
		MaxFileSize: cfg.MaxFileSize,
		Middleware:  authenticated,
	})
	usersrepobridge.AddHttpRoutes(group, usersrepobridge.Config{
		Log:        cfg.Log,
		Repository: cfg.Repositories.Users,
		Tasks:      cfg.Repositories.Tasks,
		Middleware: authenticated,
	})

	return wh
}

func health(cfg config.Taskforge) web.HandlerFunc {
	return func(ctx context.Context, r *http.Request) web.Encoder {
		db := config.DatabaseDisabled
		if cfg.DatabaseStatus != nil {
			db = cfg.DatabaseStatus(ctx)
		}
		return web.NewJSONResponse(Health{
			Status:   "ok",
			Database: db,
			Build:    cfg.Build,
		})
	}
}
