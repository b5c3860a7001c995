package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name        string
		environ     map[string]string
		errContains string
		want        func(cfg *Config)
	}{
		{
			name:    "no_overrides",
			environ: map[string]string{"HOME": "/root"},
			want:    func(cfg *Config) {},
		},
		{
			name: "all_overrides",
			environ: map[string]string{
				"RELOCATE_ROOT":   "/env/src",
				"RELOCATE_JOBS":   "8",
				"RELOCATE_STRICT": "true",
				"RELOCATE_DEBUG":  "1",
			},
			want: func(cfg *Config) {
				cfg.Root = "/env/src"
				cfg.Jobs = 8
				cfg.Strict = true
				cfg.Debug = true
			},
		},
		{
			name:    "explicit_false",
			environ: map[string]string{"RELOCATE_STRICT": "false"},
			want:    func(cfg *Config) { cfg.Strict = false },
		},
		{
			name:        "bad_jobs",
			environ:     map[string]string{"RELOCATE_JOBS": "many"},
			errContains: "parsing environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := func() *Config {
				cfg := Default()
				cfg.Root = "/file/src"
				cfg.Strict = true
				return cfg
			}

			cfg := base()
			err := ApplyEnv(cfg, tt.environ)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)

			want := base()
			tt.want(want)
			assert.Equal(t, want, cfg)
		})
	}
}
