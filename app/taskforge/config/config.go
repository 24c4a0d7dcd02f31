// Package config holds the settings and wired dependencies of the taskforge
// service.
package config

import (
	"context"
	"fmt"

	"github.com/jrazmi/taskforge/core/repositories/tasksrepo"
	"github.com/jrazmi/taskforge/core/repositories/usersrepo"
	"github.com/jrazmi/taskforge/core/usecases/authcase"
	"github.com/jrazmi/taskforge/infrastructure/web"
	"github.com/jrazmi/taskforge/sdk/environment"
	"github.com/jrazmi/taskforge/sdk/logger"
	"github.com/jrazmi/taskforge/sdk/telemetry"
	"github.com/jrazmi/taskforge/sdk/tokens"
)

// Database states reported by the health check.
const (
	DatabaseUp       = "up"
	DatabaseDown     = "down"
	DatabaseDisabled = "disabled"
)

// Storage selects the attachment backend.
type Storage struct {
	Type          string `env:"STORAGE_TYPE" default:"local"`
	UploadDir     string `env:"UPLOAD_DIR" default:"uploads"`
	MaxFileSizeMB int64  `env:"MAX_FILE_SIZE_MB" default:"5"`
}

// MaxFileSize is the per file ceiling in bytes.
func (s Storage) MaxFileSize() int64 {
	return s.MaxFileSizeMB << 20
}

// Startup controls how the process treats its dependencies at boot.
type Startup struct {
	DatabaseRequired bool `env:"DATABASE_REQUIRED" default:"true"`
	AutoMigrate      bool `env:"AUTO_MIGRATE" default:"false"`
	BcryptCost       int  `env:"BCRYPT_COST" default:"10"`
}

// Settings is everything read from the environment that the web and
// database packages do not load themselves.
type Settings struct {
	Storage Storage
	Startup Startup
}

// Load reads Settings from PREFIX_* variables.
func Load(prefix string) (Settings, error) {
	var s Settings
	if err := environment.ParseEnvTags(prefix, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing taskforge config: %w", err)
	}
	if s.Storage.MaxFileSizeMB <= 0 {
		return Settings{}, fmt.Errorf("MAX_FILE_SIZE_MB must be positive, got %d", s.Storage.MaxFileSizeMB)
	}
	return s, nil
}

// Repositories are the data access points the routes need.
type Repositories struct {
	Users *usersrepo.Repository
	Tasks *tasksrepo.Repository
}

// Taskforge is the overall configuration handed to the api.
type Taskforge struct {
	Build     string
	Log       *logger.Logger
	Telemetry telemetry.Telemetry
	Server    web.ServerConfig

	Issuer       *tokens.Issuer
	Repositories Repositories
	AuthCase     *authcase.Case
	MaxFileSize  int64

	// DatabaseStatus reports DatabaseUp, DatabaseDown or DatabaseDisabled.
	DatabaseStatus func(ctx context.Context) string
}
