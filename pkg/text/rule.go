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
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidRule is wrapped by every rule validation failure
	ErrInvalidRule = errors.Base("invalid rule")

	// ErrNoMatch marks a rule that found nothing to change
	ErrNoMatch = errors.Base("no match")
)

// 🧩 Kind selects how a rule matches and rewrites the document
type Kind string

const (
	KindLiteral  Kind = "literal"  // replace every occurrence of Match
	KindPattern  Kind = "pattern"  // regexp Match, Replace may use ${n}
	KindInsert   Kind = "insert"   // insert Replace before the first Match
	KindTruncate Kind = "truncate" // drop everything after the first Match when it repeats
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindLiteral, KindPattern, KindInsert, KindTruncate:
		return true
	}
	return false
}

// 🔄 Rule is a declarative match/replace edit
type Rule struct {
	ID      string // Stable identifier, reported when the rule applies
	Kind    Kind   // Defaults to KindLiteral
	Match   string // Literal text, regexp, insert anchor or truncate terminator
	Replace string // Replacement or inserted text, unused by KindTruncate
	Unless  string // Skip the rule if this text is already present; insert rules default to Replace+Match
	Files   string // Optional doublestar glob the target path must match

	// Fallback is tried only when the primary edit changes nothing
	Fallback *Rule

	re *regexp.Regexp
}

// 📚 RuleSet is an ordered list of rules
type RuleSet struct {
	Name  string
	Rules []Rule
}

func (r *Rule) kind() Kind {
	if r.Kind == "" {
		return KindLiteral
	}
	return r.Kind
}

// compile prepares the pattern for KindPattern rules
func (r *Rule) compile() error {
	if r.kind() != KindPattern || r.re != nil {
		return nil
	}
	re, err := regexp.Compile(r.Match)
	if err != nil {
		return errors.Errorf("compiling pattern %q: %w", r.Match, err)
	}
	r.re = re
	return nil
}

// precondition returns the text whose presence skips the rule
func (r *Rule) precondition() string {
	if r.Unless == "" && r.kind() == KindInsert {
		return r.Replace + r.Match
	}
	return r.Unless
}

// appliesTo checks the Files glob against the full path and its base name
func (r *Rule) appliesTo(path string) bool {
	if r.Files == "" || path == "" {
		return true
	}
	slashed := filepath.ToSlash(path)
	if ok, _ := doublestar.Match(r.Files, slashed); ok {
		return true
	}
	ok, _ := doublestar.Match(r.Files, filepath.Base(path))
	return ok
}

func (r *Rule) validate(nested bool) error {
	var result *multierror.Error

	if !nested && r.ID == "" {
		result = multierror.Append(result, errors.Errorf("%w: id is required", ErrInvalidRule))
	}
	if !r.kind().Valid() {
		result = multierror.Append(result, errors.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind))
	}
	if r.Match == "" {
		result = multierror.Append(result, errors.Errorf("%w: match is required", ErrInvalidRule))
	}
	if r.kind() == KindInsert && r.Replace == "" {
		result = multierror.Append(result, errors.Errorf("%w: insert requires replace text", ErrInvalidRule))
	}
	if r.Files != "" && !doublestar.ValidatePattern(r.Files) {
		result = multierror.Append(result, errors.Errorf("%w: bad files glob %q", ErrInvalidRule, r.Files))
	}
	if err := r.compile(); err != nil {
		result = multierror.Append(result, errors.Errorf("%w: %s", ErrInvalidRule, err.Error()))
	} else if r.re != nil && r.re.MatchString("") {
		result = multierror.Append(result, errors.Errorf("%w: pattern %q matches empty text", ErrInvalidRule, r.Match))
	}

	if r.Fallback != nil {
		switch {
		case nested:
			result = multierror.Append(result, errors.Errorf("%w: fallback cannot have its own fallback", ErrInvalidRule))
		case r.kind() == KindTruncate || r.Fallback.kind() == KindTruncate:
			result = multierror.Append(result, errors.Errorf("%w: truncate rules cannot take part in a fallback", ErrInvalidRule))
		default:
			if err := r.Fallback.validate(true); err != nil {
				result = multierror.Append(result, errors.Errorf("fallback: %w", err))
			}
		}
	}

	return result.ErrorOrNil()
}

// 🔍 Validate checks every rule and reports all problems at once
func (s *RuleSet) Validate() error {
	var result *multierror.Error
	seen := make(map[string]int, len(s.Rules))

	for i := range s.Rules {
		rule := &s.Rules[i]
		if err := rule.validate(false); err != nil {
			result = multierror.Append(result, errors.Errorf("rule %d (%s): %w", i, rule.ID, err))
		}
		if rule.ID == "" {
			continue
		}
		if prev, ok := seen[rule.ID]; ok {
			result = multierror.Append(result, errors.Errorf("rule %d: %w: id %q already used by rule %d", i, ErrInvalidRule, rule.ID, prev))
			continue
		}
		seen[rule.ID] = i
	}

	return result.ErrorOrNil()
}
