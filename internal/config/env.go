package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Env holds settings taken from the process environment.
type Env struct {
	// GitHubOutput is the CI step output file.
	GitHubOutput string `env:"GITHUB_OUTPUT"`
	GitHubToken  string `env:"GITHUB_TOKEN"`
	GitLabToken  string `env:"GITLAB_TOKEN"`
	LogLevel     string `env:"RELEASER_LOG_LEVEL"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv(ctx context.Context) (*Env, error) {
	return loadEnv(ctx, envconfig.OsLookuper())
}

func loadEnv(ctx context.Context, l envconfig.Lookuper) (*Env, error) {
	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return &env, nil
}

// Token returns the API token for the given provider.
func (e *Env) Token(provider string) string {
	if provider == ProviderGitLab {
		return e.GitLabToken
	}
	return e.GitHubToken
}
