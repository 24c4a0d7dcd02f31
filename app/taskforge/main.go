package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jrazmi/taskforge/app/taskforge/api"
	"github.com/jrazmi/taskforge/app/taskforge/config"
	"github.com/jrazmi/taskforge/core/repositories/attachmentsrepo"
	"github.com/jrazmi/taskforge/core/repositories/attachmentsrepo/stores/attachmentsdiskstore"
	"github.com/jrazmi/taskforge/core/repositories/attachmentsrepo/stores/attachmentsgcsstore"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo/stores/tasksmemstore"
	"github.com/jrazmi/taskforge/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo/stores/usersmemstore"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo/stores/userspgxstore"
	"github.com/jrazmi/taskforge/core/usecases/authcase"
	"github.com/jrazmi/taskforge/infrastructure/postgresdb"
	"github.com/jrazmi/taskforge/infrastructure/web"
	"github.com/jrazmi/taskforge/schema"
	"github.com/jrazmi/taskforge/sdk/environment"
	"github.com/jrazmi/taskforge/sdk/logger"
	"github.com/jrazmi/taskforge/sdk/passwords"
	"github.com/jrazmi/taskforge/sdk/telemetry"
	"github.com/jrazmi/taskforge/sdk/tokens"
)

var build = "develop"
var appName = "TASKFORGE"

func main() {
	environment.LoadEnv()
	ctx := context.Background()

	tel := telemetry.NewTelemetry()
	log, err := logger.NewFromEnv(appName, logger.WithTraceID(telemetry.TraceID), logger.WithService("taskforge"))
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}

	if err := run(ctx, log, tel); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, tel telemetry.Telemetry) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	settings, err := config.Load(appName)
	if err != nil {
		return err
	}
	serverCfg, err := web.LoadServerConfig(appName)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}
	issuer, err := tokens.NewFromEnv(appName)
	if err != nil {
		return fmt.Errorf("configuring tokens: %w", err)
	}

	// :*: START DATABASES :*:
	pg, err := openDatabase(ctx, log, settings.Startup)
	if err != nil {
		return err
	}
	if pg != nil {
		defer func() {
			log.InfoContext(ctx, "shutdown", "status", "closing database connection")
			pg.Close()
		}()
	}
	// END DATABASES //

	blobs, closeBlobs, err := openAttachments(ctx, settings.Storage)
	if err != nil {
		return fmt.Errorf("configuring attachment storage: %w", err)
	}
	defer closeBlobs()
	log.InfoContext(ctx, "init", "service", "attachments", "backend", blobs.Kind())

	// REPOSITORIES //
	log.InfoContext(ctx, "startup", "status", "initializing repository support")
	var (
		userStore usersrepo.Storer
		taskStore tasksrepo.Storer
	)
	if pg != nil {
		userStore = userspgxstore.NewStore(log, pg)
		taskStore = taskspgxstore.NewStore(log, pg)
	} else {
		userStore = usersmemstore.NewStore()
		taskStore = tasksmemstore.NewStore()
	}
	users := usersrepo.NewRepository(log, userStore, passwords.New(settings.Startup.BcryptCost))
	tasks := tasksrepo.NewRepository(log, taskStore, attachmentsrepo.NewRepository(log, blobs))
	// END REPOSITORIES //

	cfg := config.Taskforge{
		Build:     build,
		Log:       log,
		Telemetry: tel,
		Server:    serverCfg,
		Issuer:    issuer,
		Repositories: config.Repositories{
			Users: users,
			Tasks: tasks,
		},
		AuthCase:       authcase.NewCase(log, users, issuer),
		MaxFileSize:    settings.Storage.MaxFileSize(),
		DatabaseStatus: databaseStatus(pg),
	}

	server := web.NewServer(serverCfg,
		web.WithHandler(api.Handler(cfg)),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr, "api_route", serverCfg.APIRoute)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, serverCfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// openDatabase connects to Postgres. With DATABASE_REQUIRED=false a failed
// connection starts the service on in-memory stores instead; the returned
// pool is then nil.
func openDatabase(ctx context.Context, log *logger.Logger, startup config.Startup) (*postgresdb.Pool, error) {
	pg, err := postgresdb.NewFromEnv(appName, postgresdb.WithLogger(log.Logger))
	if err != nil {
		if startup.DatabaseRequired {
			return nil, fmt.Errorf("configuring postgres support: %w", err)
		}
		log.WarnContext(ctx, "startup", "status", "degraded mode, data is kept in memory only", "err", err)
		return nil, nil
	}
	log.InfoContext(ctx, "init", "service", "postgres")

	if startup.AutoMigrate {
		if err := postgresdb.Migrate(ctx, pg, log.Logger, schema.MigrationsFS, schema.MigrationsDir); err != nil {
			pg.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	}
	return pg, nil
}

func openAttachments(ctx context.Context, s config.Storage) (attachmentsrepo.Storer, func(), error) {
	switch s.Type {
	case attachmentsrepo.KindLocal:
		store, err := attachmentsdiskstore.NewStore(s.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case attachmentsrepo.KindGCS:
		store, err := attachmentsgcsstore.NewFromEnv(ctx, appName)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown STORAGE_TYPE %q, want %s or %s", s.Type, attachmentsrepo.KindLocal, attachmentsrepo.KindGCS)
}

func databaseStatus(pg *postgresdb.Pool) func(ctx context.Context) string {
	if pg == nil {
		return func(context.Context) string { return config.DatabaseDisabled }
	}
	return func(ctx context.Context) string {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := postgresdb.StatusCheck(ctx, pg); err != nil {
			return config.DatabaseDown
		}
		return config.DatabaseUp
	}
}
