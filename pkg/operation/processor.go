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

package operation

import (
	"context"
	"unicode/utf8"

	"github.com/walteh/relocate/pkg/status"
	"github.com/walteh/relocate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var errInvalidUTF8 = errors.Base("content is not valid UTF-8")

// 🔧 ProcessorOptions configures a Processor
type ProcessorOptions struct {
	// Rules is the rule set applied to every file
	Rules *text.RuleSet
	// Files reads and writes files, defaults to the local disk
	Files status.FileManager
	// DryRun skips writes
	DryRun bool
	// Diff records a line diff for changed files
	Diff bool
}

// 📄 Processor rewrites one file at a time
type Processor struct {
	rules  *text.RuleSet
	files  status.FileManager
	dryRun bool
	diff   bool
}

// 🏭 NewProcessor creates a processor
func NewProcessor(opts ProcessorOptions) (*Processor, error) {
	if opts.Rules == nil {
		return nil, errors.New("rules are required")
	}
	if opts.Files == nil {
		opts.Files = status.NewDiskManager()
	}
	return &Processor{
		rules:  opts.Rules,
		files:  opts.Files,
		dryRun: opts.DryRun,
		diff:   opts.Diff,
	}, nil
}

// 🏃 Process reads path, applies the rules and writes the result back when it differs.
// I/O failures are returned inside the Result as an *status.IOError, never as a panic or error return.
func (p *Processor) Process(ctx context.Context, path string) status.Result {
	result := status.Result{Path: path}

	fail := func(op string, err error) status.Result {
		result.Status = status.StatusFailed
		result.Err = &status.IOError{Op: op, Path: path, Err: err}
		return result
	}

	content, err := p.files.ReadFile(ctx, path)
	if err != nil {
		return fail("read", err)
	}

	if !utf8.Valid(content) {
		return fail("decode", errInvalidUTF8)
	}

	replaced := p.rules.Apply(string(content))
	result.Replacements = replaced.ReplacementCount
	result.RuleCounts = replaced.RuleCounts

	if !replaced.WasModified {
		result.Status = status.StatusUnchanged
		return result
	}

	if p.diff {
		result.Diff = lineDiff(replaced.OriginalContent, replaced.ModifiedContent)
	}

	if !p.dryRun {
		if err := p.files.WriteFile(ctx, path, []byte(replaced.ModifiedContent)); err != nil {
			return fail("write", err)
		}
	}

	result.Status = status.StatusModified
	return result
}
