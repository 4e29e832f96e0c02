// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package filters

import "strings"

// Apply returns the lines containing at least one of patterns as a substring,
// preserving order. With no patterns every line is kept.
func Apply(lines []string, patterns []string) []string {
	if len(patterns) == 0 {
		return lines
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if Match(line, patterns) {
			out = append(out, line)
		}
	}
	return out
}

// Match reports whether line contains any of patterns.
func Match(line string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}
