// Package config loads wavepick settings from WAVEPICK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/bartolsthoorn/wavepick/backend"
	"github.com/bartolsthoorn/wavepick/wave"
)

// Backend names accepted in WAVEPICK_BACKEND_NAME.
const (
	BackendHiGHS     = "highs"
	BackendEnumerate = "enumerate"
)

const envPrefix = "WAVEPICK_"

// Config holds every setting of a wavepick run.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Search   struct {
		TimeLimit        time.Duration `env:"TIME_LIMIT" envDefault:"10m" validate:"gt=0"`
		Epsilon          float64       `env:"EPSILON" envDefault:"1e-8" validate:"gt=0"`
		IncludeAllAisles bool          `env:"INCLUDE_ALL_AISLES" envDefault:"false"`
		BoundPruning     bool          `env:"BOUND_PRUNING" envDefault:"true"`
	} `envPrefix:"SEARCH_"`
	Backend struct {
		Name             string `env:"NAME" envDefault:"highs" validate:"oneof=highs enumerate"`
		EnumerateMaxVars int    `env:"ENUMERATE_MAX_VARS" envDefault:"20" validate:"gt=0,lte=62"`
		HiGHSThreads     int    `env:"HIGHS_THREADS" envDefault:"1" validate:"gte=0"`
		HiGHSOutput      bool   `env:"HIGHS_OUTPUT" envDefault:"false"`
		HiGHSPresolve    string `env:"HIGHS_PRESOLVE" envDefault:"choose" validate:"oneof=choose on off"`
	} `envPrefix:"BACKEND_"`
	Cache struct {
		// RedisURL selects the redis cache; empty keeps results in memory.
		RedisURL string        `env:"REDIS_URL" validate:"omitempty,url"`
		TTL      time.Duration `env:"TTL" envDefault:"168h" validate:"gte=0"`
	} `envPrefix:"CACHE_"`
	Metrics struct {
		Addr string `env:"ADDR" validate:"omitempty,hostname_port"`
	} `envPrefix:"METRICS_"`
}

// LoadConfig reads the process environment.
func LoadConfig() (*Config, error) {
	return load(env.Options{Prefix: envPrefix})
}

// LoadFrom reads the given environment instead of the process one.
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(env.Options{Prefix: envPrefix, Environment: environ})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// first error only, the rest is usually noise from the same variable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints. It is also used after CLI flags are
// applied on top of the environment.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SearchOptions turns the search section into wave options.
func (c *Config) SearchOptions() []wave.Option {
	return []wave.Option{
		wave.WithTimeLimit(c.Search.TimeLimit),
		wave.WithEpsilon(c.Search.Epsilon),
		wave.WithIncludeAllAisles(c.Search.IncludeAllAisles),
		wave.WithBoundPruning(c.Search.BoundPruning),
	}
}

// Solver builds the configured backend.
func (c *Config) Solver() (wave.Solver, error) {
	switch c.Backend.Name {
	case BackendHiGHS:
		return &backend.HiGHS{
			Threads:  c.Backend.HiGHSThreads,
			Output:   c.Backend.HiGHSOutput,
			Presolve: c.Backend.HiGHSPresolve,
		}, nil
	case BackendEnumerate:
		return &backend.Enumerate{MaxVars: c.Backend.EnumerateMaxVars}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend.Name)
	}
}
