package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jrazmi/taskforge/infrastructure/postgresdb"
	"github.com/jrazmi/taskforge/schema"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *postgresdb.Pool, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := postgresdb.StatusCheck(ctx, pool); err != nil {
		return fmt.Errorf("database status check failed: %w", err)
	}

	log.InfoContext(ctx, "database status check successful", "step", "running migrations")
	if err := postgresdb.Migrate(ctx, pool, log, schema.MigrationsFS, schema.MigrationsDir); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	log.InfoContext(ctx, "migrations completed successfully")
	return nil
}
