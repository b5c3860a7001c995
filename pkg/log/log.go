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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/relocate/pkg/status"
)

// 🎯 Logger writes user-facing run output to a console and mirrors it to zerolog
type Logger struct {
	console   io.Writer
	verbose   bool
	formatter status.FileFormatter
	mu        sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, verbose bool) *Logger {
	return &Logger{
		console:   console,
		verbose:   verbose,
		formatter: status.NewDefaultFileFormatter(),
	}
}

func warnLabel() string {
	return color.New(color.FgYellow, color.Bold).Sprint("WARN:")
}

// 📝 FileResult reports the outcome of one file.
// Failures are always printed; other outcomes only in verbose mode.
func (l *Logger) FileResult(ctx context.Context, r status.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r.Status == status.StatusFailed {
		fmt.Fprintf(l.console, "%s %s\n", warnLabel(), l.formatter.FormatFailure(r))
		zerolog.Ctx(ctx).Warn().Str("file", r.Path).Err(r.Err).Msg("failed to process file")
		return
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", r.Path).
		Str("status", r.Status.String()).
		Int("replacements", r.Replacements).
		Ints("rule_counts", r.RuleCounts).
		Msg("file processed")

	if !l.verbose || r.Status == status.StatusSkipped {
		return
	}

	printer := pterm.Info
	if r.Status == status.StatusModified {
		printer = pterm.Success
	}
	printer.WithWriter(l.console).Println(l.formatter.FormatFileOperation(r))

	if r.Diff != "" {
		fmt.Fprint(l.console, colorDiff(r.Diff))
	}
}

// 📝 WalkError reports a directory that could not be read
func (l *Logger) WalkError(ctx context.Context, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %v\n", warnLabel(), err)
	zerolog.Ctx(ctx).Warn().Err(err).Msg("skipping directory")
}

// 📝 Summary prints the end of run report
func (l *Logger) Summary(ctx context.Context, s *status.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatter.FormatSummary(s))
	if s.Failed() > 0 {
		fmt.Fprintf(l.console, "%s %d file(s) failed\n", warnLabel(), s.Failed())
	}

	zerolog.Ctx(ctx).Info().
		Int("changed", s.Changed()).
		Int("unchanged", s.Unchanged()).
		Int("failed", s.Failed()).
		Int("skipped", s.Skipped()).
		Bool("dry_run", s.DryRun).
		Msg("run complete")
}

// colorDiff colors +/- lines of a line diff
func colorDiff(diff string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(color.RedString("%s", line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
