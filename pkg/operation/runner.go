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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/relocate/pkg/status"
	"github.com/walteh/relocate/pkg/tree"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📢 Reporter receives the outcome of a run as it happens
type Reporter interface {
	FileResult(ctx context.Context, r status.Result)
	WalkError(ctx context.Context, err error)
	Summary(ctx context.Context, s *status.Summary)
}

// 🔧 Options contains configuration for the runner
type Options struct {
	// Root is the directory to rewrite
	Root string
	// Selector picks the files to process
	Selector *tree.Selector
	// Processor rewrites a single file
	Processor *Processor
	// Reporter receives per-file results and the summary
	Reporter Reporter
	// Jobs is the number of files processed at once, 1 or less means sequential
	Jobs int
	// DryRun is recorded on the summary
	DryRun bool
}

// 🏃 Runner walks a tree and rewrites its selected files
type Runner struct {
	root      string
	selector  *tree.Selector
	processor *Processor
	reporter  Reporter
	jobs      int
	dryRun    bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts Options) (*Runner, error) {
	if opts.Root == "" {
		return nil, errors.New("root is required")
	}
	if opts.Selector == nil {
		return nil, errors.New("selector is required")
	}
	if opts.Processor == nil {
		return nil, errors.New("processor is required")
	}
	if opts.Reporter == nil {
		return nil, errors.New("reporter is required")
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Errorf("getting absolute root path: %w", err)
	}

	return &Runner{
		root:      root,
		selector:  opts.Selector,
		processor: opts.Processor,
		reporter:  opts.Reporter,
		jobs:      max(opts.Jobs, 1),
		dryRun:    opts.DryRun,
	}, nil
}

// Root returns the absolute root directory of the run
func (r *Runner) Root() string {
	return r.root
}

// 🏃 Run processes every selected file under the root and reports the summary.
// Per-file failures are recorded in the summary; only setup problems (missing
// root, held lock, cancellation) are returned as errors.
func (r *Runner) Run(ctx context.Context) (*status.Summary, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(r.root)
	if err != nil {
		return nil, errors.Errorf("checking root: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("root %s is not a directory", r.root)
	}

	lock, err := AcquireLock(r.root)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Debug().Err(err).Msg("releasing lock")
		}
	}()

	logger.Debug().Str("root", r.root).Int("jobs", r.jobs).Bool("dry_run", r.dryRun).Msg("starting run")

	summary := status.NewSummary(r.dryRun)

	if r.jobs > 1 {
		err = r.runAsync(ctx, summary)
	} else {
		err = r.runSync(ctx, summary)
	}
	if err != nil {
		return summary, err
	}

	r.reporter.Summary(ctx, summary)
	return summary, nil
}

// files yields the selected files, recording skipped ones and reporting walk errors
func (r *Runner) files(ctx context.Context, summary *status.Summary, fn func(path string) error) error {
	for path, err := range tree.Walk(r.root) {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("run cancelled: %w", err)
		}

		if err != nil {
			var walkErr *tree.WalkError
			if errors.As(err, &walkErr) && walkErr.Root {
				return errors.Errorf("walking root: %w", err)
			}
			r.reporter.WalkError(ctx, err)
			continue
		}

		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			rel = path
		}

		if !r.selector.Selected(rel) {
			summary.Record(status.Result{Path: path, Status: status.StatusSkipped})
			continue
		}

		if err := fn(path); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) process(ctx context.Context, summary *status.Summary, path string) {
	result := r.processor.Process(ctx, path)
	summary.Record(result)
	r.reporter.FileResult(ctx, result)
}

// 🔄 runSync processes files one after another
func (r *Runner) runSync(ctx context.Context, summary *status.Summary) error {
	return r.files(ctx, summary, func(path string) error {
		r.process(ctx, summary, path)
		return nil
	})
}

// ⚡ runAsync processes up to jobs files at once
func (r *Runner) runAsync(ctx context.Context, summary *status.Summary) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	walkErr := r.files(gctx, summary, func(path string) error {
		g.Go(func() error {
			r.process(gctx, summary, path)
			return nil
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return errors.Errorf("processing files: %w", err)
	}
	return walkErr
}
