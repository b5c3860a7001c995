// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/relocate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔀 Alias moves every import of one path alias to another
type Alias struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// 📚 Config represents the complete configuration of a run
type Config struct {
	Root       string      `json:"root,omitempty" yaml:"root,omitempty"`
	Extensions []string    `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Ignore     []string    `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Alias      *Alias      `json:"alias,omitempty" yaml:"alias,omitempty"`
	Rules      []text.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	DryRun     bool        `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Diff       bool        `json:"diff,omitempty" yaml:"diff,omitempty"`
	Strict     bool        `json:"strict,omitempty" yaml:"strict,omitempty"`
	Jobs       int         `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	Verbose    bool        `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Debug      bool        `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// DefaultExtensions returns the extensions selected when none are configured
func DefaultExtensions() []string {
	return []string{".ts", ".tsx"}
}

// DefaultAlias returns the alias used when no rules are configured
func DefaultAlias() *Alias {
	return &Alias{From: "@/hooks", To: "@/lib/hooks"}
}

// 🏭 Default returns the configuration used without a config file
func Default() *Config {
	return &Config{
		Extensions: DefaultExtensions(),
		Alias:      DefaultAlias(),
		Jobs:       1,
	}
}

// 🎯 Load loads the configuration from a file.
// A relative root is resolved against the directory of the file.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = DefaultExtensions()
	}
	for _, ext := range cfg.Extensions {
		if ext == "" {
			return errors.New("extensions must not contain an empty value")
		}
	}

	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative, got %d", cfg.Jobs)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	if cfg.Alias == nil && len(cfg.Rules) == 0 {
		cfg.Alias = DefaultAlias()
	}
	if cfg.Alias != nil && (cfg.Alias.From == "" || cfg.Alias.To == "") {
		return errors.New("alias.from and alias.to are required")
	}

	if cfg.Root != "" {
		cfg.Root = filepath.Clean(cfg.Root)
	}

	if _, err := cfg.RuleSet(); err != nil {
		return err
	}

	return nil
}

// 🧩 RuleSet builds the ordered rule set: alias rules first, then custom rules
func (cfg *Config) RuleSet() (*text.RuleSet, error) {
	var rules []text.Rule
	if cfg.Alias != nil {
		rules = append(rules, text.AliasRules(cfg.Alias.From, cfg.Alias.To)...)
	}
	rules = append(rules, cfg.Rules...)

	rs, err := text.NewRuleSet(rules...)
	if err != nil {
		return nil, errors.Errorf("invalid rules: %w", err)
	}
	return rs, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	alias := "none"
	if cfg.Alias != nil {
		alias = cfg.Alias.From + " -> " + cfg.Alias.To
	}
	return fmt.Sprintf("root=%s alias=%s rules=%d extensions=%v jobs=%d", cfg.Root, alias, len(cfg.Rules), cfg.Extensions, cfg.Jobs)
}
