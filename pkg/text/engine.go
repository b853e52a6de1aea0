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
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome summarizes a rule set run
type Outcome int

const (
	OutcomeUnchanged Outcome = iota // No rule changed the document
	OutcomeModified                 // At least one rule changed the document
	OutcomeFailed                   // The rule set could not be applied
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeModified:
		return "modified"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SkipReason explains why a rule did not apply
type SkipReason string

const (
	SkipNoMatch      SkipReason = "no match"
	SkipPrecondition SkipReason = "precondition"
	SkipFiltered     SkipReason = "filtered"
	SkipNoOp         SkipReason = "no-op" // matched, but the replacement changes nothing
)

// ⏭️ Skip records a rule that did not change the document
type Skip struct {
	RuleID string
	Match  string
	Reason SkipReason
}

// Err returns an ErrNoMatch error for unmatched rules and nil otherwise
func (s Skip) Err() error {
	if s.Reason != SkipNoMatch {
		return nil
	}
	return errors.Errorf("%w: rule %s: could not find %q", ErrNoMatch, s.RuleID, s.Match)
}

// ✏️ Edit describes one applied rule
type Edit struct {
	RuleID   string
	Kind     Kind
	Old      string // First matched text, or the dropped tail for truncation
	New      string // Its replacement
	Count    int    // Number of occurrences rewritten
	Fallback bool   // Whether the fallback rule produced the edit
}

// 📦 ApplyResult is the outcome of running a rule set against a document
type ApplyResult struct {
	Outcome          Outcome
	OriginalContent  []byte
	ModifiedContent  []byte
	Applied          []string // Rule IDs in the order they applied
	Edits            []Edit
	Skipped          []Skip
	ReplacementCount int
	Reason           error // Set when Outcome is OutcomeFailed
}

// WasModified reports whether the document changed
func (r *ApplyResult) WasModified() bool {
	return r.Outcome == OutcomeModified
}

func (r *ApplyResult) record(edit Edit) {
	r.Applied = append(r.Applied, edit.RuleID)
	r.Edits = append(r.Edits, edit)
	r.ReplacementCount += edit.Count
}

func (r *ApplyResult) skip(rule *Rule, reason SkipReason) {
	r.Skipped = append(r.Skipped, Skip{RuleID: rule.ID, Match: rule.Match, Reason: reason})
}

// ⚙️ Engine applies rule sets to in-memory documents
type Engine struct{}

// NewEngine creates a new Engine
func NewEngine() *Engine {
	return &Engine{}
}

// 🏃 Apply runs set against content.
//
// Truncate rules run first and their output becomes the baseline. Every
// other rule checks its precondition and match against the baseline, while
// replacements compose: each rule rewrites the output of the rules before it.
func (e *Engine) Apply(ctx context.Context, path string, content []byte, set RuleSet) (*ApplyResult, error) {
	logger := zerolog.Ctx(ctx)

	result := &ApplyResult{
		Outcome:         OutcomeUnchanged,
		OriginalContent: content,
		ModifiedContent: content,
	}

	if err := set.Validate(); err != nil {
		return fail(result, errors.Errorf("validating rule set %q: %w", set.Name, err))
	}

	loaded := string(content)
	current := loaded

	for i := range set.Rules {
		rule := &set.Rules[i]
		if rule.kind() != KindTruncate {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fail(result, errors.Errorf("applying rule %s: %w", rule.ID, err))
		}
		if !admit(result, rule, path, loaded) {
			continue
		}
		repaired, ok := TruncateDuplicate(current, rule.Match)
		if !ok {
			result.skip(rule, SkipNoMatch)
			continue
		}
		logger.Debug().Str("rule", rule.ID).Int("dropped_bytes", len(current)-len(repaired)).Msg("truncated duplicate terminator")
		result.record(Edit{
			RuleID: rule.ID,
			Kind:   KindTruncate,
			Old:    current[len(repaired):],
			Count:  strings.Count(current, rule.Match) - 1,
		})
		current = repaired
	}

	baseline := current

	for i := range set.Rules {
		rule := &set.Rules[i]
		if rule.kind() == KindTruncate {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fail(result, errors.Errorf("applying rule %s: %w", rule.ID, err))
		}
		if !admit(result, rule, path, baseline) {
			continue
		}

		next, edit, ok := rule.apply(baseline, current)
		if !ok && rule.Fallback != nil {
			logger.Debug().Str("rule", rule.ID).Msg("primary edit changed nothing, trying fallback")
			next, edit, ok = rule.Fallback.apply(baseline, current)
			edit.Fallback = ok
		}
		if !ok {
			reason := SkipNoMatch
			if rule.found(baseline, current) || (rule.Fallback != nil && rule.Fallback.found(baseline, current)) {
				reason = SkipNoOp
			}
			logger.Debug().Str("rule", rule.ID).Str("reason", string(reason)).Msg("rule found nothing to change")
			result.skip(rule, reason)
			continue
		}

		edit.RuleID = rule.ID
		logger.Debug().Str("rule", rule.ID).Int("count", edit.Count).Bool("fallback", edit.Fallback).Msg("rule applied")
		result.record(edit)
		current = next
	}

	if current != loaded {
		result.Outcome = OutcomeModified
		result.ModifiedContent = []byte(current)
	}

	return result, nil
}

func fail(result *ApplyResult, err error) (*ApplyResult, error) {
	result.Outcome = OutcomeFailed
	result.Reason = err
	result.ModifiedContent = result.OriginalContent
	result.Applied = nil
	result.Edits = nil
	result.ReplacementCount = 0
	return result, err
}

// admit checks the path filter and the precondition
func admit(result *ApplyResult, rule *Rule, path, text string) bool {
	if !rule.appliesTo(path) {
		result.skip(rule, SkipFiltered)
		return false
	}
	if unless := rule.precondition(); unless != "" && strings.Contains(text, unless) {
		result.skip(rule, SkipPrecondition)
		return false
	}
	return true
}

// found reports whether the rule matches both the baseline and the current text
func (r *Rule) found(baseline, current string) bool {
	if r.kind() == KindPattern {
		return r.re.MatchString(baseline) && r.re.MatchString(current)
	}
	return strings.Contains(baseline, r.Match) && strings.Contains(current, r.Match)
}

// apply matches against baseline and rewrites current
func (r *Rule) apply(baseline, current string) (string, Edit, bool) {
	edit := Edit{Kind: r.kind()}

	switch r.kind() {
	case KindLiteral:
		if !strings.Contains(baseline, r.Match) {
			return current, edit, false
		}
		edit.Count = strings.Count(current, r.Match)
		if edit.Count == 0 {
			return current, edit, false
		}
		edit.Old, edit.New = r.Match, r.Replace
		next := strings.ReplaceAll(current, r.Match, r.Replace)
		return next, edit, next != current

	case KindPattern:
		if !r.re.MatchString(baseline) {
			return current, edit, false
		}
		locs := r.re.FindAllStringSubmatchIndex(current, -1)
		if len(locs) == 0 {
			return current, edit, false
		}
		first := locs[0]
		edit.Count = len(locs)
		edit.Old = current[first[0]:first[1]]
		edit.New = string(r.re.ExpandString(nil, r.Replace, current, first))
		next := r.re.ReplaceAllString(current, r.Replace)
		return next, edit, next != current

	case KindInsert:
		if !strings.Contains(baseline, r.Match) {
			return current, edit, false
		}
		next, ok := InsertBefore(current, r.Match, r.Replace)
		edit.Count = 1
		edit.Old, edit.New = r.Match, r.Replace+r.Match
		return next, edit, ok
	}

	return current, edit, false
}
