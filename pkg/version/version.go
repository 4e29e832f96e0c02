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

package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse errors.
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// Version is a dotted version with one to three significant components.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision is the number of components given (1, 2 or 3).
	Precision int `json:"precision" yaml:"precision"`

	// Extras is the suffix after the numeric part, e.g. "-91-generic".
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// NewVersion returns a Version with all three components significant.
func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Precision: 3}
}

// String renders the significant components without Extras.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// Full renders the version including Extras.
func (v Version) Full() string {
	return v.String() + v.Extras
}

// ParseVersion parses "1", "1.2", "1.2.3" with an optional "v" prefix and
// an optional suffix starting with '-' or '+' right after a digit.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	var v Version
	main := s
	for i := 1; i < len(s); i++ {
		if (s[i] == '-' || s[i] == '+') && isDigit(s[i-1]) {
			main, v.Extras = s[:i], s[i:]
			break
		}
	}

	parts := strings.Split(main, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}
	nums := [3]int{}
	for i, part := range parts {
		if part == "" || !allDigits(part) {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		nums[i] = n
	}

	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	v.Precision = len(parts)
	return v, nil
}

// MustParseVersion is ParseVersion for literals; it panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseVersion: %v", err))
	}
	return v
}

// Compare returns -1, 0 or 1. Only the components significant in both
// versions are compared, so "5.15" equals "5.15.0".
func (v Version) Compare(other Version) int {
	precision := min(v.Precision, other.Precision)
	a := [3]int{v.Major, v.Minor, v.Patch}
	b := [3]int{other.Major, other.Minor, other.Patch}
	for i := 0; i < precision && i < 3; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v is equal to or newer than other.
func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}

// IsValid reports whether v was produced by a successful parse or NewVersion.
func (v Version) IsValid() bool {
	return v.Precision >= 1 && v.Precision <= 3 && v.Major >= 0 && v.Minor >= 0 && v.Patch >= 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
