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

package text

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔄 Rule defines a single text replacement operation
type Rule struct {
	// Name is an optional label used in logs and errors
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Match is the text (or pattern, when Regexp is set) to replace
	Match string `json:"match" yaml:"match"`

	// Replace is the literal replacement text
	Replace string `json:"replace" yaml:"replace"`

	// Regexp treats Match as a regular expression
	Regexp bool `json:"regexp,omitempty" yaml:"regexp,omitempty"`
}

// 📝 String returns a string representation of the rule
func (r Rule) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Match + " -> " + r.Replace
}

// AliasRules returns the import relocation rules for moving alias from to alias to.
// The two anchored rules rewrite `from '<alias>` and `from "<alias>` statements,
// the last one rewrites any remaining `<alias>/` reference.
func AliasRules(from, to string) []Rule {
	return []Rule{
		{Name: "import-single-quote", Match: "from '" + from, Replace: "from '" + to},
		{Name: "import-double-quote", Match: `from "` + from, Replace: `from "` + to},
		{Name: "catch-all", Match: from + "/", Replace: to + "/"},
	}
}

// matcher finds and replaces every non-overlapping occurrence of a pattern
type matcher interface {
	replaceAll(content, replacement string) (string, int)
	matches(content string) bool
}

type literalMatcher string

func (m literalMatcher) replaceAll(content, replacement string) (string, int) {
	n := strings.Count(content, string(m))
	if n == 0 {
		return content, 0
	}
	return strings.ReplaceAll(content, string(m), replacement), n
}

func (m literalMatcher) matches(content string) bool {
	return strings.Contains(content, string(m))
}

type regexpMatcher struct {
	re *regexp.Regexp
}

func (m regexpMatcher) replaceAll(content, replacement string) (string, int) {
	n := len(m.re.FindAllStringIndex(content, -1))
	if n == 0 {
		return content, 0
	}
	return m.re.ReplaceAllLiteralString(content, replacement), n
}

func (m regexpMatcher) matches(content string) bool {
	return m.re.MatchString(content)
}

// 📚 RuleSet is an ordered, validated list of rules.
//
// Rules run in order, each one on the output of the previous one. A RuleSet
// is only built when no rule's replacement can be matched again by any rule
// of the set, so applying it a second time is a no-op.
type RuleSet struct {
	rules    []Rule
	matchers []matcher
}

// 🏭 NewRuleSet validates and compiles rules into a RuleSet
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{
		rules:    make([]Rule, 0, len(rules)),
		matchers: make([]matcher, 0, len(rules)),
	}

	for i, rule := range rules {
		if rule.Match == "" {
			return nil, errors.Errorf("rule %d: match is required", i)
		}

		var m matcher = literalMatcher(rule.Match)
		if rule.Regexp {
			re, err := regexp.Compile(rule.Match)
			if err != nil {
				return nil, errors.Errorf("rule %d (%s): compiling pattern: %w", i, rule, err)
			}
			if re.MatchString("") {
				return nil, errors.Errorf("rule %d (%s): pattern matches the empty string", i, rule)
			}
			m = regexpMatcher{re: re}
		}

		rs.rules = append(rs.rules, rule)
		rs.matchers = append(rs.matchers, m)
	}

	if err := rs.validateIdempotent(); err != nil {
		return nil, err
	}

	return rs, nil
}

// validateIdempotent rejects sets where a replacement would be rewritten on a later run.
// This only inspects replacement texts on their own, not matches spanning a replacement
// and its surrounding content.
func (rs *RuleSet) validateIdempotent() error {
	for i, rule := range rs.rules {
		for j, m := range rs.matchers {
			if m.matches(rule.Replace) {
				return errors.Errorf("rule %d (%s): replacement %q is matched by rule %d (%s)", i, rule, rule.Replace, j, rs.rules[j])
			}
		}
	}
	return nil
}

// Rules returns a copy of the rules in application order
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}
