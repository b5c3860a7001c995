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

// Package tree enumerates and selects the files of a source tree.
package tree

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Selector decides which files of the tree are rewritten
type Selector struct {
	extensions []string
	ignore     []string
	logger     zerolog.Logger
}

// 🏭 NewSelector creates a selector for the given extensions and doublestar ignore patterns
func NewSelector(extensions, ignore []string, logger zerolog.Logger) (*Selector, error) {
	if len(extensions) == 0 {
		return nil, errors.New("at least one extension is required")
	}
	for _, ext := range extensions {
		if ext == "" {
			return nil, errors.New("extensions must not be empty")
		}
	}
	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	return &Selector{
		extensions: append([]string(nil), extensions...),
		ignore:     append([]string(nil), ignore...),
		logger:     logger,
	}, nil
}

// Match reports whether a basename ends with one of the extensions. The check is case-sensitive.
func (s *Selector) Match(name string) bool {
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Ignored reports whether a root-relative path matches an ignore pattern
func (s *Selector) Ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.ignore {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			s.logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			s.logger.Debug().Str("file", rel).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}
	return false
}

// Selected combines Match on the basename with Ignored on the relative path
func (s *Selector) Selected(rel string) bool {
	return s.Match(filepath.Base(rel)) && !s.Ignored(rel)
}
