package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds credentials and project coordinates read from the
// environment. A .env file in the working directory is loaded first if
// present.
type Env struct {
	Token         string `env:"GITHUB_TOKEN"`
	Organization  string `env:"GITHUB_ORG"`
	ProjectNumber int    `env:"GITHUB_PROJECT_NUMBER"`
}

// LoadEnv loads the optional .env file and parses the environment.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parsing environment: %w", err)
	}
	return e, nil
}
