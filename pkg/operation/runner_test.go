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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/relocate/pkg/log"
	"github.com/walteh/relocate/pkg/status"
	"github.com/walteh/relocate/pkg/tree"
)

// 📢 recordingReporter keeps everything a run reports
type recordingReporter struct {
	mu         sync.Mutex
	results    []status.Result
	walkErrors []error
	summaries  int
}

func (r *recordingReporter) FileResult(ctx context.Context, res status.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recordingReporter) WalkError(ctx context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.walkErrors = append(r.walkErrors, err)
}

func (r *recordingReporter) Summary(ctx context.Context, s *status.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries++
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readTree(t *testing.T, root string, names ...string) map[string]string {
	t.Helper()
	out := make(map[string]string, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(root, name))
		require.NoError(t, err)
		out[name] = string(content)
	}
	return out
}

type runnerSetup struct {
	processor ProcessorOptions
	jobs      int
	ignore    []string
	reporter  Reporter
}

func newTestRunner(t *testing.T, root string, setup runnerSetup) *Runner {
	t.Helper()

	selector, err := tree.NewSelector([]string{".ts", ".tsx"}, setup.ignore, zerolog.New(zerolog.NewTestWriter(t)))
	require.NoError(t, err)

	if setup.processor.Rules == nil {
		setup.processor.Rules = hooksRules(t)
	}
	proc, err := NewProcessor(setup.processor)
	require.NoError(t, err)

	if setup.reporter == nil {
		setup.reporter = &recordingReporter{}
	}

	runner, err := NewRunner(Options{
		Root:      root,
		Selector:  selector,
		Processor: proc,
		Reporter:  setup.reporter,
		Jobs:      setup.jobs,
		DryRun:    setup.processor.DryRun,
	})
	require.NoError(t, err)
	return runner
}

var hooksTree = map[string]string{
	"a.ts":            "import { useAuth } from '@/hooks/useAuth';\n",
	"b.tsx":           "import X from \"@/hooks\";\nconst p = '@/hooks/y';\n",
	"c.js":            "import z from '@/hooks/z';\n",
	"nested/clean.ts": "import React from 'react';\n",
}

func TestRunner_Run(t *testing.T) {
	color.NoColor = true

	root := t.TempDir()
	writeTree(t, root, hooksTree)

	var out bytes.Buffer
	runner := newTestRunner(t, root, runnerSetup{reporter: log.New(&out, false)})

	summary, err := runner.Run(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Changed())
	assert.Equal(t, 1, summary.Unchanged())
	assert.Equal(t, 0, summary.Failed())
	assert.Equal(t, 1, summary.Skipped())
	assert.Equal(t, "Updated imports in 2 file(s)\n", out.String())

	got := readTree(t, root, "a.ts", "b.tsx", "c.js", "nested/clean.ts")
	assert.Equal(t, map[string]string{
		"a.ts":            "import { useAuth } from '@/lib/hooks/useAuth';\n",
		"b.tsx":           "import X from \"@/lib/hooks\";\nconst p = '@/lib/hooks/y';\n",
		"c.js":            "import z from '@/hooks/z';\n",
		"nested/clean.ts": "import React from 'react';\n",
	}, got)
	for name, content := range got {
		assert.NotContains(t, content, "@/lib/lib/hooks", name)
	}

	t.Run("second_run_changes_nothing", func(t *testing.T) {
		out.Reset()

		summary, err := runner.Run(testContext(t))
		require.NoError(t, err)

		assert.Equal(t, 0, summary.Changed())
		assert.Equal(t, 3, summary.Unchanged())
		assert.Equal(t, "Updated imports in 0 file(s)\n", out.String())
		assert.Equal(t, got, readTree(t, root, "a.ts", "b.tsx", "c.js", "nested/clean.ts"))
	})
}

func TestRunner_RunModes(t *testing.T) {
	tests := []struct {
		name        string
		setup       runnerSetup
		wantChanged int
		wantWritten bool
		wantDiffs   int
	}{
		{
			name:        "sequential",
			setup:       runnerSetup{},
			wantChanged: 2,
			wantWritten: true,
		},
		{
			name:        "parallel",
			setup:       runnerSetup{jobs: 4},
			wantChanged: 2,
			wantWritten: true,
		},
		{
			name:        "dry_run_with_diff",
			setup:       runnerSetup{processor: ProcessorOptions{DryRun: true, Diff: true}},
			wantChanged: 2,
			wantDiffs:   2,
		},
		{
			name:        "ignored_file",
			setup:       runnerSetup{ignore: []string{"b.tsx"}},
			wantChanged: 1,
			wantWritten: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, hooksTree)

			reporter := &recordingReporter{}
			tt.setup.reporter = reporter
			runner := newTestRunner(t, root, tt.setup)

			summary, err := runner.Run(testContext(t))
			require.NoError(t, err)

			assert.Equal(t, tt.wantChanged, summary.Changed())
			assert.Equal(t, tt.setup.processor.DryRun, summary.DryRun)
			assert.Equal(t, 1, reporter.summaries)

			var diffs int
			for _, r := range reporter.results {
				if r.Diff != "" {
					diffs++
				}
			}
			assert.Equal(t, tt.wantDiffs, diffs)

			content := readTree(t, root, "a.ts")["a.ts"]
			if tt.wantWritten {
				assert.Equal(t, "import { useAuth } from '@/lib/hooks/useAuth';\n", content)
			} else {
				assert.Equal(t, hooksTree["a.ts"], content)
			}
		})
	}
}

func TestRunner_ParallelManyFiles(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := range 50 {
		files[filepath.Join("dir", string(rune('a'+i%26))+strings.Repeat("x", i/26)+".ts")] = "export * from '@/hooks/h';\n"
	}
	writeTree(t, root, files)

	reporter := &recordingReporter{}
	runner := newTestRunner(t, root, runnerSetup{jobs: 8, reporter: reporter})

	summary, err := runner.Run(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 50, summary.Changed())
	assert.Len(t, reporter.results, 50)

	seen := map[string]bool{}
	for _, r := range reporter.results {
		assert.Equal(t, status.StatusModified, r.Status, r.Path)
		seen[r.Path] = true
	}
	assert.Len(t, seen, 50)
}

func TestRunner_SymlinkedRoot(t *testing.T) {
	target := t.TempDir()
	writeTree(t, target, map[string]string{"a.ts": "import x from '@/hooks/x';\n"})

	root := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.Symlink(target, root))

	reporter := &recordingReporter{}
	runner := newTestRunner(t, root, runnerSetup{reporter: reporter})

	summary, err := runner.Run(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Changed())
	require.Len(t, reporter.results, 1)
	assert.Equal(t, filepath.Join(root, "a.ts"), reporter.results[0].Path)
	assert.Equal(t, "import x from '@/lib/hooks/x';\n", readTree(t, target, "a.ts")["a.ts"])

	info, err := os.Lstat(root)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "root link should survive the run")
}

func TestRunner_FailingFileDoesNotStopRun(t *testing.T) {
	color.NoColor = true

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.ts": "import a from '@/hooks/a';\n",
		"z.ts": "import z from '@/hooks/z';\n",
	})
	bad := filepath.Join(root, "bad.ts")
	require.NoError(t, os.WriteFile(bad, []byte("import b from '@/hooks/b';\xff\n"), 0644))

	var out bytes.Buffer
	runner := newTestRunner(t, root, runnerSetup{reporter: log.New(&out, false)})

	summary, err := runner.Run(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Changed())
	assert.Equal(t, 1, summary.Failed())
	require.Len(t, summary.Failures(), 1)
	assert.Equal(t, bad, summary.Failures()[0].Path)
	assert.ErrorIs(t, summary.Failures()[0].Err, status.ErrIO)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "WARN: failed to process "+bad+": "), lines[0])
	assert.Equal(t, "Updated imports in 2 file(s)", lines[1])
	assert.Equal(t, "WARN: 1 file(s) failed", lines[2])

	content, err := os.ReadFile(bad)
	require.NoError(t, err)
	assert.Equal(t, "import b from '@/hooks/b';\xff\n", string(content))
}

func TestRunner_WriteFailure(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.ts": "import a from '@/hooks/a';\n"})
	path := filepath.Join(root, "a.ts")

	files := newFakeFiles(map[string]string{path: "import a from '@/hooks/a';\n"})
	files.writeErr[path] = os.ErrPermission

	reporter := &recordingReporter{}
	runner := newTestRunner(t, root, runnerSetup{
		processor: ProcessorOptions{Files: files},
		reporter:  reporter,
	})

	summary, err := runner.Run(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Changed())
	assert.Equal(t, 1, summary.Failed())
	require.Len(t, reporter.results, 1)
	assert.ErrorIs(t, reporter.results[0].Err, os.ErrPermission)
}

func TestRunner_RootErrors(t *testing.T) {
	t.Run("missing_root", func(t *testing.T) {
		reporter := &recordingReporter{}
		runner := newTestRunner(t, filepath.Join(t.TempDir(), "nope"), runnerSetup{reporter: reporter})

		_, err := runner.Run(testContext(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Equal(t, 0, reporter.summaries)
	})

	t.Run("root_is_file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.ts")
		require.NoError(t, os.WriteFile(file, nil, 0644))

		runner := newTestRunner(t, file, runnerSetup{})

		_, err := runner.Run(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a directory")
	})

	t.Run("lock_held", func(t *testing.T) {
		root := t.TempDir()
		runner := newTestRunner(t, root, runnerSetup{})

		lock, err := AcquireLock(runner.Root())
		require.NoError(t, err)

		_, err = runner.Run(testContext(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "another run is rewriting")

		require.NoError(t, lock.Release())

		_, err = runner.Run(testContext(t))
		require.NoError(t, err)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.ts": "import a from '@/hooks/a';\n"})
		runner := newTestRunner(t, root, runnerSetup{})

		ctx, cancel := context.WithCancel(testContext(t))
		cancel()

		_, err := runner.Run(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, "import a from '@/hooks/a';\n", readTree(t, root, "a.ts")["a.ts"])
	})
}

func TestNewRunner(t *testing.T) {
	selector, err := tree.NewSelector([]string{".ts"}, nil, zerolog.Nop())
	require.NoError(t, err)
	proc, err := NewProcessor(ProcessorOptions{Rules: hooksRules(t)})
	require.NoError(t, err)

	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{name: "missing_root", opts: Options{Selector: selector, Processor: proc, Reporter: &recordingReporter{}}, wantErr: "root is required"},
		{name: "missing_selector", opts: Options{Root: ".", Processor: proc, Reporter: &recordingReporter{}}, wantErr: "selector is required"},
		{name: "missing_processor", opts: Options{Root: ".", Selector: selector, Reporter: &recordingReporter{}}, wantErr: "processor is required"},
		{name: "missing_reporter", opts: Options{Root: ".", Selector: selector, Processor: proc}, wantErr: "reporter is required"},
		{name: "valid", opts: Options{Root: ".", Selector: selector, Processor: proc, Reporter: &recordingReporter{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, err := NewRunner(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(runner.Root()))
			assert.Equal(t, 1, runner.jobs)
		})
	}
}
