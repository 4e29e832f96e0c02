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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type testTable struct{}

func (testTable) TableHeader() []string { return []string{"NAME", "STATE"} }
func (testTable) TableRows() [][]string {
	return [][]string{{"uname", "ran-ok"}, {"sysctl", "ran-failed"}}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	data := []testConfig{{Name: "a", Value: 1}, {Name: "b", Value: 2}}
	require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(context.Background(), data))

	var got []testConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, data, got)
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	data := []testConfig{{Name: "a", Value: 1}}
	require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(context.Background(), data))

	var got []testConfig
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, data, got)
}

func TestWriter_SerializeTable(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		contains []string
	}{
		{
			name:     "flattened struct",
			data:     testConfig{Name: "a", Value: 1},
			contains: []string{"FIELD", "VALUE", "Name", "a", "Value", "1"},
		},
		{
			name:     "nested map",
			data:     map[string]any{"outer": map[string]int{"inner": 3}},
			contains: []string{"outer.inner", "3"},
		},
		{
			name:     "slice",
			data:     []string{"x", "y"},
			contains: []string{"[0]", "x", "[1]", "y"},
		},
		{
			name:     "duration",
			data:     struct{ D time.Duration }{D: 1500 * time.Millisecond},
			contains: []string{"D", "1.5s"},
		},
		{
			name:     "tabular",
			data:     testTable{},
			contains: []string{"NAME", "STATE", "----", "uname", "ran-ok", "sysctl", "ran-failed"},
		},
		{
			name:     "empty",
			data:     map[string]string{},
			contains: []string{"<empty>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), tt.data))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestWriter_SerializeTable_EmbeddedStruct(t *testing.T) {
	type inner struct{ Kind string }
	type outer struct {
		inner
		Exported inner
	}
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), outer{Exported: inner{Kind: "k"}}))
	assert.Contains(t, buf.String(), "Exported.Kind")
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "a"}))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestFormat_IsUnknown(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown(), f)
	}
	assert.True(t, Format("").IsUnknown())
	assert.True(t, Format("xml").IsUnknown())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewFileWriterOrStdout(FormatJSON, path)
	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "file"}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"name": "file"`)

	stdout := NewFileWriterOrStdout(FormatJSON, "  ")
	assert.Equal(t, os.Stdout, stdout.output)
	assert.NoError(t, stdout.Close())

	fallback := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
	assert.Equal(t, os.Stdout, fallback.output)
}
