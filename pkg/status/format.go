package status

import (
	"fmt"
)

// FileFormatter defines how file outcomes and summaries are formatted
type FileFormatter interface {
	// FormatFileOperation formats the outcome of a single file
	FormatFileOperation(r Result) string

	// FormatFailure formats a per-file failure
	FormatFailure(r Result) string

	// FormatSummary formats the end of run report
	FormatSummary(s *Summary) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatFileOperation(r Result) string {
	switch r.Status {
	case StatusModified:
		return fmt.Sprintf("📝 Modified %s (%d replacements)", r.Path, r.Replacements)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", r.Path)
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", r.Path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", r.Path)
	}
}

// FormatFailure formats the warning detail for a failed file
func (f *DefaultFileFormatter) FormatFailure(r Result) string {
	return fmt.Sprintf("failed to process %s: %v", r.Path, r.Err)
}

// FormatSummary formats the summary line
func (f *DefaultFileFormatter) FormatSummary(s *Summary) string {
	msg := fmt.Sprintf("Updated imports in %d file(s)", s.Changed())
	if s.DryRun {
		msg += " (dry run)"
	}
	return msg
}
