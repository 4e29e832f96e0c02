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
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{"major only", "9", Version{Major: 9, Precision: 1}, nil},
		{"os version id", "22.04", Version{Major: 22, Minor: 4, Precision: 2}, nil},
		{"v prefix", "v1.2.3", NewVersion(1, 2, 3), nil},
		{"surrounding space", " 6.8.0\n", NewVersion(6, 8, 0), nil},
		{"ubuntu kernel", "5.15.0-91-generic", Version{Major: 5, Minor: 15, Patch: 0, Precision: 3, Extras: "-91-generic"}, nil},
		{"rhel kernel", "4.18.0-513.el8.x86_64", Version{Major: 4, Minor: 18, Patch: 0, Precision: 3, Extras: "-513.el8.x86_64"}, nil},
		{"build metadata", "1.2.3+abc", Version{Major: 1, Minor: 2, Patch: 3, Precision: 3, Extras: "+abc"}, nil},
		{"empty", "", Version{}, ErrEmptyVersion},
		{"only v", "v", Version{}, ErrEmptyVersion},
		{"too many components", "1.2.3.4", Version{}, ErrTooManyComponents},
		{"non numeric", "rolling", Version{}, ErrNonNumeric},
		{"empty component", "1..2", Version{}, ErrNonNumeric},
		{"trailing dot", "1.", Version{}, ErrNonNumeric},
		{"leading dash", "-1", Version{}, ErrNonNumeric},
		{"signed component", "1.+2", Version{}, ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseVersion(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		input string
		str   string
		full  string
	}{
		{"9", "9", "9"},
		{"22.04", "22.4", "22.4"},
		{"5.15.0-91-generic", "5.15.0", "5.15.0-91-generic"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := MustParseVersion(tt.input)
			if v.String() != tt.str {
				t.Errorf("String() = %q, want %q", v.String(), tt.str)
			}
			if v.Full() != tt.full {
				t.Errorf("Full() = %q, want %q", v.Full(), tt.full)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"5.15.0", "5.15.0", 0},
		{"5.15", "5.15.7", 0},
		{"5.15.0-91-generic", "5.15.0-100-generic", 0},
		{"6.8.0", "5.15.0", 1},
		{"5.4", "5.15", -1},
		{"9", "8.10", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := MustParseVersion(tt.a).Compare(MustParseVersion(tt.b)); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAtLeast(t *testing.T) {
	kernel := MustParseVersion("4.18.0-513.el8.x86_64")
	if !kernel.AtLeast(MustParseVersion("4.18")) {
		t.Error("expected 4.18.0 to be at least 4.18")
	}
	if kernel.AtLeast(MustParseVersion("5")) {
		t.Error("expected 4.18.0 to be older than 5")
	}
}

func TestIsValid(t *testing.T) {
	if (Version{}).IsValid() {
		t.Error("zero Version should not be valid")
	}
	if !NewVersion(1, 0, 0).IsValid() {
		t.Error("NewVersion should be valid")
	}
}

func TestMustParseVersionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseVersion("not-a-version")
}

// FuzzParseVersion checks that parsing never panics and that successful
// parses round-trip through Full.
func FuzzParseVersion(f *testing.F) {
	for _, seed := range []string{"1", "v1.2", "1.2.3", "5.15.0-91-generic", "", ".", "1..2", "1.2.3.4", "-1", "9+x"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseVersion(s)
		if err != nil {
			return
		}
		if !v.IsValid() {
			t.Fatalf("ParseVersion(%q) returned invalid version %+v", s, v)
		}
		again, err := ParseVersion(v.Full())
		if err != nil {
			t.Fatalf("ParseVersion(%q) failed on its own output %q: %v", s, v.Full(), err)
		}
		if again.Compare(v) != 0 {
			t.Fatalf("round trip of %q changed version: %+v != %+v", s, again, v)
		}
	})
}
