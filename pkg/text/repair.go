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

import "strings"

// 🩹 TruncateDuplicate cuts content right after the first terminator when the
// terminator occurs more than once. It returns the content unchanged and
// false otherwise.
func TruncateDuplicate(content, terminator string) (string, bool) {
	if terminator == "" || strings.Count(content, terminator) < 2 {
		return content, false
	}
	end := strings.Index(content, terminator) + len(terminator)
	return content[:end], true
}

// InsertBefore puts insert in front of the first anchor.
func InsertBefore(content, anchor, insert string) (string, bool) {
	idx := strings.Index(content, anchor)
	if idx < 0 {
		return content, false
	}
	return content[:idx] + insert + content[idx:], true
}
