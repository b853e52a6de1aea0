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
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbered(n int, last string) string {
	var sb strings.Builder
	for i := 1; i < n; i++ {
		fmt.Fprintf(&sb, "l%d\n", i)
	}
	sb.WriteString(last + "\n")
	return sb.String()
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{
			name:   "identical",
			before: "<project/>\n",
			after:  "<project/>\n",
			want:   "",
		},
		{
			name:   "single_line_change",
			before: "<a>\n<v>1.6.1</v>\n</a>\n",
			after:  "<a>\n<v>1.7.3</v>\n</a>\n",
			want:   "--- pom.xml\n+++ pom.xml\n <a>\n-<v>1.6.1</v>\n+<v>1.7.3</v>\n </a>\n",
		},
		{
			name:   "no_trailing_newline",
			before: "a\nb",
			after:  "a\nc",
			want:   "--- pom.xml\n+++ pom.xml\n a\n-b\n+c\n",
		},
		{
			name:   "folds_unchanged_lines",
			before: numbered(10, "l10"),
			after:  numbered(10, "L10"),
			want:   "--- pom.xml\n+++ pom.xml\n@@\n l8\n l9\n-l10\n+L10\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff("pom.xml", tt.before, tt.after))
		})
	}
}
