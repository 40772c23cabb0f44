package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// FileEnvVar names the environment variable that points at an optional
// dotenv file to preload before parsing.
const FileEnvVar = "CONFIG_FILE"

const defaultDotEnv = ".env"

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings.
//
// Before parsing, variables are preloaded from the dotenv file named by
// CONFIG_FILE, or from ./.env when CONFIG_FILE is unset. Variables already
// present in the process environment are never overridden. A missing ./.env
// is not an error; a missing CONFIG_FILE is.
//
// Example:
//
//	type Config struct {
//	    Port     int    `env:"HTTP_PORT" envDefault:"3000"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	if err := loadDotEnv(); err != nil {
		return err
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func loadDotEnv() error {
	if file := os.Getenv(FileEnvVar); file != "" {
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load config file %s: %w", file, err)
		}
		return nil
	}

	if err := godotenv.Load(defaultDotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", defaultDotEnv, err)
	}
	return nil
}
