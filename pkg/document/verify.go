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

package document

import (
	"context"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrVerificationMismatch is returned when a written file does not meet its expectation
var ErrVerificationMismatch = errors.Base("verification mismatch")

// ✅ Expectation is the post-condition checked by Verify
type Expectation struct {
	Contains []string // Each must appear at least once
	Excludes []string // None may appear
	Once     []string // Each must appear exactly once
}

// IsZero reports whether the expectation checks nothing
func (e Expectation) IsZero() bool {
	return len(e.Contains) == 0 && len(e.Excludes) == 0 && len(e.Once) == 0
}

// Merge returns an expectation holding the checks of both
func (e Expectation) Merge(other Expectation) Expectation {
	return Expectation{
		Contains: append(append([]string(nil), e.Contains...), other.Contains...),
		Excludes: append(append([]string(nil), e.Excludes...), other.Excludes...),
		Once:     append(append([]string(nil), e.Once...), other.Once...),
	}
}

// Check tests content against the expectation and reports every failed check
func (e Expectation) Check(content []byte) error {
	text := string(content)
	var result *multierror.Error

	for _, s := range e.Contains {
		if !strings.Contains(text, s) {
			result = multierror.Append(result, errors.Errorf("%w: missing %q", ErrVerificationMismatch, s))
		}
	}
	for _, s := range e.Excludes {
		if strings.Contains(text, s) {
			result = multierror.Append(result, errors.Errorf("%w: unexpected %q", ErrVerificationMismatch, s))
		}
	}
	for _, s := range e.Once {
		if n := strings.Count(text, s); n != 1 {
			result = multierror.Append(result, errors.Errorf("%w: %q found %d times, want 1", ErrVerificationMismatch, s, n))
		}
	}

	return result.ErrorOrNil()
}

// 🔎 Verify re-reads path and checks the expectation.
//
// A mismatch returns false with an error wrapping ErrVerificationMismatch.
// Verify never modifies the file.
func (s *Store) Verify(ctx context.Context, path string, exp Expectation) (bool, error) {
	doc, err := s.Load(ctx, path)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Op = "verify"
		}
		return false, err
	}

	if err := exp.Check(doc.Content); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("verification failed")
		return false, err
	}

	return true, nil
}
