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

package datasource

import (
	"strings"

	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

// Blacklist names content that must never be collected. Files and Commands
// are enforced by providers; Patterns and Keywords are handed to the cleaner.
type Blacklist struct {
	Files    []string `json:"files,omitempty" yaml:"files,omitempty" mapstructure:"files"`
	Commands []string `json:"commands,omitempty" yaml:"commands,omitempty" mapstructure:"commands"`
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty" mapstructure:"patterns"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty" mapstructure:"keywords"`
}

// CheckFile fails with BLACKLISTED when path matches a file entry.
// Entries support "*" wildcards.
func (b Blacklist) CheckFile(path string) error {
	for _, p := range b.Files {
		if matchesPattern(path, p) {
			return errors.NewWithContext(errors.ErrCodeBlacklisted, "Blacklisted file: "+path,
				map[string]any{"entry": p})
		}
	}
	return nil
}

// CheckCommand fails with BLACKLISTED when cmd matches a command entry,
// either as a wildcard pattern or as a substring of the command line.
func (b Blacklist) CheckCommand(cmd string) error {
	for _, p := range b.Commands {
		if p == "" {
			continue
		}
		if matchesPattern(cmd, p) || strings.Contains(cmd, p) {
			return errors.NewWithContext(errors.ErrCodeBlacklisted, "Blacklisted command: "+argv0(cmd),
				map[string]any{"entry": p})
		}
	}
	return nil
}

// matchesPattern checks if key matches pattern. A pattern without "*" must
// match exactly; "*" matches any run of characters.
func matchesPattern(key, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return key == pattern
	}

	segments := strings.Split(pattern, "*")
	pos := 0
	for i, segment := range segments {
		if segment == "" {
			continue
		}

		// anchored at the start unless the pattern starts with *
		if i == 0 {
			if !strings.HasPrefix(key, segment) {
				return false
			}
			pos = len(segment)
			continue
		}

		// anchored at the end unless the pattern ends with *
		if i == len(segments)-1 {
			return len(key)-pos >= len(segment) && strings.HasSuffix(key[pos:], segment)
		}

		idx := strings.Index(key[pos:], segment)
		if idx == -1 {
			return false
		}
		pos += idx + len(segment)
	}
	return true
}

func argv0(cmd string) string {
	if f := strings.Fields(cmd); len(f) > 0 {
		return f[0]
	}
	return cmd
}
