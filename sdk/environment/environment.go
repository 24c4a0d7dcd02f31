// Package environment provides utilities for managing environment variables
// and configuration loading with support for namespacing and defaults.
package environment

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the working
// directory. A missing file is not an error for callers that treat .env as
// optional local overrides.
func LoadEnv() error {
	return godotenv.Load()
}

// LoadPath loads environment variables from the file at p, falling back to
// .env when p is empty.
func LoadPath(p string) error {
	if p != "" {
		return godotenv.Load(p)
	}
	return godotenv.Load()
}

// GetEnvKeyPrefix builds the namespaced key used by ParseEnvTags.
//
//	GetEnvKeyPrefix("TASKFORGE", "LOG_LEVEL") // TASKFORGE_LOG_LEVEL
//	GetEnvKeyPrefix("", "LOG_LEVEL")          // LOG_LEVEL
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

// GetEnvOrDefault retrieves an environment variable value, returning a fallback
// value if the variable is not set.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetNamespaceEnvOrDefault retrieves a namespaced environment variable value,
// returning a fallback value if the variable is not set.
func GetNamespaceEnvOrDefault(namespace, key, fallback string) string {
	return GetEnvOrDefault(GetEnvKeyPrefix(namespace, key), fallback)
}
