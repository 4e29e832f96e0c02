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

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntries(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		lines []string
		want  []string
	}{
		{
			name:  "trims and drops empty lines",
			lines: []string{"  a ", "", "b", "   "},
			want:  []string{"a", "b"},
		},
		{
			name:  "skips comments by default",
			lines: []string{"# comment", "a", "  # indented"},
			want:  []string{"a"},
		},
		{
			name:  "keeps comments when disabled",
			opts:  []Option{WithSkipComments(false)},
			lines: []string{"# comment", "a"},
			want:  []string{"# comment", "a"},
		},
		{
			name:  "splits on delimiter",
			opts:  []Option{WithDelimiter(" ")},
			lines: []string{"quiet splash  ro"},
			want:  []string{"quiet", "splash", "ro"},
		},
		{
			name:  "nil input",
			lines: nil,
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.opts...).Entries(tt.lines))
		})
	}
}

func TestMap(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		lines []string
		want  map[string]string
	}{
		{
			name:  "simple pairs",
			lines: []string{"key1=value1", "key2 = value2"},
			want:  map[string]string{"key1": "value1", "key2": "value2"},
		},
		{
			name:  "value keeps further delimiters",
			lines: []string{"key=value=with=equals"},
			want:  map[string]string{"key": "value=with=equals"},
		},
		{
			name:  "key without value gets default",
			opts:  []Option{WithVDefault("true")},
			lines: []string{"quiet", "a=b"},
			want:  map[string]string{"quiet": "true", "a": "b"},
		},
		{
			name:  "os-release style",
			opts:  []Option{WithVTrimChars(`"'`), WithSkipEmptyValues(true)},
			lines: []string{`NAME="Ubuntu"`, "ID=ubuntu", "# comment", "MALFORMED", `EMPTY=""`},
			want:  map[string]string{"NAME": "Ubuntu", "ID": "ubuntu"},
		},
		{
			name:  "kernel command line",
			opts:  []Option{WithDelimiter(" "), WithSkipKeys("root")},
			lines: []string{"BOOT_IMAGE=/vmlinuz root=/dev/sda1 ro iommu=pt"},
			want:  map[string]string{"BOOT_IMAGE": "/vmlinuz", "ro": "", "iommu": "pt"},
		},
		{
			name:  "colon delimiter",
			opts:  []Option{WithKVDelimiter(":")},
			lines: []string{"MemTotal:  16 kB"},
			want:  map[string]string{"MemTotal": "16 kB"},
		},
		{
			name:  "later keys win",
			lines: []string{"a=1", "a=2"},
			want:  map[string]string{"a": "2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.opts...).Map(tt.lines))
		})
	}
}

func TestFields(t *testing.T) {
	lines := []string{
		"nvidia_uvm 1634304 0 - Live 0x0000000000000000 (POE)",
		"nvidia 56774656 1 nvidia_uvm, Live 0x0000000000000000 (POE)",
		"",
	}
	assert.Equal(t, []string{"nvidia_uvm", "nvidia"}, New().Fields(lines))
}
