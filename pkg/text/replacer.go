package text

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ReplacementResult contains the results of applying a RuleSet
type ReplacementResult struct {
	// WasModified indicates the content differs from the original
	WasModified bool

	// ReplacementCount is the total number of replacements made
	ReplacementCount int

	// RuleCounts holds the number of replacements made by each rule, in rule order
	RuleCounts []int

	// OriginalContent is the content before replacements
	OriginalContent string

	// ModifiedContent is the content after replacements
	ModifiedContent string
}

// Apply runs every rule in order over content. It performs no I/O.
func (rs *RuleSet) Apply(content string) *ReplacementResult {
	result := &ReplacementResult{
		OriginalContent: content,
		RuleCounts:      make([]int, len(rs.matchers)),
	}

	current := content
	for i, m := range rs.matchers {
		var n int
		current, n = m.replaceAll(current, rs.rules[i].Replace)
		result.RuleCounts[i] = n
		result.ReplacementCount += n
	}

	result.ModifiedContent = current
	result.WasModified = current != content
	return result
}

// ReplaceText reads all of content and applies the rule set to it
func (rs *RuleSet) ReplaceText(ctx context.Context, content io.Reader) (*ReplacementResult, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := rs.Apply(string(data))

	zerolog.Ctx(ctx).Debug().
		Int("replacements", result.ReplacementCount).
		Bool("modified", result.WasModified).
		Msg("applied rules")

	return result, nil
}
