package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFile is read, when present, before the environment is parsed.
// Variables already set in the environment take precedence over it.
const DotEnvFile = ".env"

// New reads configuration from environment variables and unmarshals them into
// a struct of type T. Each binary composes the sections it needs into T.
func New[T any]() (T, error) {
	var cfg T
	if err := loadDotEnv(DotEnvFile); err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}
