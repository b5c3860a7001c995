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

package status

import (
	"sync"

	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome of processing a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // Content had nothing to rewrite
	StatusModified             // Content was rewritten (or would be, on a dry run)
	StatusFailed               // Reading or writing the file failed
	StatusSkipped              // File was not selected
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ErrIO matches every IOError through errors.Is
var ErrIO = errors.Base("i/o error")

// 💥 IOError is the only per-file failure kind
type IOError struct {
	Op   string // read, decode or write
	Path string // kept out of Error, the caller already names the file
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports ErrIO as a match so callers need not know the concrete type
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// 📄 Result is the outcome of processing one file
type Result struct {
	Path         string     // Path of the file
	Status       FileStatus // Outcome
	Replacements int        // Number of replacements made
	RuleCounts   []int      // Replacements per rule, in rule order
	Diff         string     // Line diff of the change, when requested
	Err          error      // Set when Status is StatusFailed
}

// Changed reports whether the file content was (or would be) rewritten
func (r Result) Changed() bool {
	return r.Status == StatusModified
}

// 📈 Summary aggregates Results for a run. It is safe for concurrent use.
type Summary struct {
	DryRun bool

	mu        sync.Mutex
	changed   int
	unchanged int
	failed    int
	skipped   int
	failures  []Result
}

// 🏭 NewSummary creates an empty summary
func NewSummary(dryRun bool) *Summary {
	return &Summary{DryRun: dryRun}
}

// Record adds a Result to the tally
func (s *Summary) Record(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Status {
	case StatusModified:
		s.changed++
	case StatusUnchanged:
		s.unchanged++
	case StatusFailed:
		s.failed++
		s.failures = append(s.failures, r)
	case StatusSkipped:
		s.skipped++
	}
}

// Changed returns the number of files whose content changed
func (s *Summary) Changed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// Unchanged returns the number of selected files left as they were
func (s *Summary) Unchanged() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unchanged
}

// Failed returns the number of files that hit an IOError
func (s *Summary) Failed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Skipped returns the number of files that were not selected
func (s *Summary) Skipped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

// Failures returns the failed Results in the order they were recorded
func (s *Summary) Failures() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.failures))
	copy(out, s.failures)
	return out
}
