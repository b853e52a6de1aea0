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

package patcher

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is how many unchanged lines are kept around each change
const contextLines = 2

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// 📝 Diff renders a line diff between before and after.
//
// Unchanged runs longer than the context window are folded into a single
// "@@" marker. Identical inputs give an empty string.
func Diff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var all []diffLine
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			all = append(all, diffLine{op: d.Type, text: line})
		}
	}

	keep := make([]bool, len(all))
	for i, l := range all {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		for j := max(0, i-contextLines); j <= min(len(all)-1, i+contextLines); j++ {
			keep[j] = true
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", path, path)
	folded := false
	for i, l := range all {
		if !keep[i] {
			if !folded {
				sb.WriteString("@@\n")
				folded = true
			}
			continue
		}
		folded = false
		switch l.op {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("-")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("+")
		default:
			sb.WriteString(" ")
		}
		sb.WriteString(l.text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// splitLines splits s on newlines, dropping the empty tail after a final newline
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
