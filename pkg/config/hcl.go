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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/relocate/pkg/text"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

type hclAlias struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

type hclRule struct {
	Name    string `hcl:"name,label"`
	Match   string `hcl:"match"`
	Replace string `hcl:"replace"`
	Regexp  bool   `hcl:"regexp,optional"`
}

type hclConfig struct {
	Root       string    `hcl:"root,optional"`
	Extensions []string  `hcl:"extensions,optional"`
	Ignore     []string  `hcl:"ignore,optional"`
	Alias      *hclAlias `hcl:"alias,block"`
	Rules      []hclRule `hcl:"rule,block"`
	DryRun     bool      `hcl:"dry_run,optional"`
	Diff       bool      `hcl:"diff,optional"`
	Strict     bool      `hcl:"strict,optional"`
	Jobs       int       `hcl:"jobs,optional"`
	Verbose    bool      `hcl:"verbose,optional"`
	Debug      bool      `hcl:"debug,optional"`
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL.
// Expressions can read the process environment through the env object, e.g. "${env.HOME}/src".
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "relocate.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environmentObject(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Root:       hclCfg.Root,
		Extensions: hclCfg.Extensions,
		Ignore:     hclCfg.Ignore,
		DryRun:     hclCfg.DryRun,
		Diff:       hclCfg.Diff,
		Strict:     hclCfg.Strict,
		Jobs:       hclCfg.Jobs,
		Verbose:    hclCfg.Verbose,
		Debug:      hclCfg.Debug,
	}

	if hclCfg.Alias != nil {
		cfg.Alias = &Alias{From: hclCfg.Alias.From, To: hclCfg.Alias.To}
	}

	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, text.Rule{
			Name:    r.Name,
			Match:   r.Match,
			Replace: r.Replace,
			Regexp:  r.Regexp,
		})
	}

	return cfg, nil
}

func environmentObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	return cty.ObjectVal(vars)
}
