package config

import (
	"github.com/caarlos0/env/v11"
	"gitlab.com/tozd/go/errors"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "RELOCATE_"

// overrides mirrors the Config fields that can be set from the environment
type overrides struct {
	Root   string `env:"ROOT"`
	Jobs   int    `env:"JOBS"`
	Strict bool   `env:"STRICT"`
	Debug  bool   `env:"DEBUG"`
}

// 🌱 ApplyEnv overrides cfg with RELOCATE_* variables; unset variables keep the current value.
// A nil environ reads the process environment.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	o := overrides{
		Root:   cfg.Root,
		Jobs:   cfg.Jobs,
		Strict: cfg.Strict,
		Debug:  cfg.Debug,
	}

	if err := env.ParseWithOptions(&o, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return errors.Errorf("parsing environment: %w", err)
	}

	cfg.Root = o.Root
	cfg.Jobs = o.Jobs
	cfg.Strict = o.Strict
	cfg.Debug = o.Debug

	return nil
}
