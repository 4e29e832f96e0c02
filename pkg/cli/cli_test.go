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

package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/node-diagnostics/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "valid yaml format",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
		},
		{
			name:       "valid json format",
			format:     "json",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:       "valid table format",
			format:     "table",
			wantFormat: serializer.FormatTable,
		},
		{
			name:       "case and space insensitive",
			format:     " JSON ",
			wantFormat: serializer.FormatJSON,
		},
		{
			name:    "invalid format xml",
			format:  "xml",
			wantErr: true,
		},
		{
			name:    "empty format",
			format:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			if err := cmd.Run(context.Background(), []string{"test"}); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"single", []string{"a"}, []string{"a"}},
		{"comma separated", []string{"a,b"}, []string{"a", "b"}},
		{"repeated and trimmed", []string{"a, b", " c ", ""}, []string{"a", "b", "c"}},
		{"empty parts dropped", []string{",,"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	return newRootCmd().Run(context.Background(), append([]string{name}, args...))
}

func readComponentList(t *testing.T, path string) ComponentList {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var l ComponentList
	if err := json.Unmarshal(b, &l); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	return l
}

func TestSpecsCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "specs.json")

	if err := run(t, "specs", "--format", "json", "--output", out); err != nil {
		t.Fatalf("specs failed: %v", err)
	}

	l := readComponentList(t, out)
	if l.Kind != "ComponentList" {
		t.Errorf("expected kind ComponentList, got %q", l.Kind)
	}

	byName := map[string]ComponentInfo{}
	for _, c := range l.Components {
		byName[c.Name] = c
	}
	sysctl, ok := byName["sysctl"]
	if !ok {
		t.Fatal("expected sysctl in component list")
	}
	if !sysctl.Flags.Filterable {
		t.Error("expected sysctl to be filterable")
	}
	if !reflect.DeepEqual(sysctl.Requires, []string{"host_context"}) {
		t.Errorf("expected sysctl to require host_context, got %v", sysctl.Requires)
	}
	if _, ok := byName["host_info"]; !ok {
		t.Error("expected host_info combiner in component list")
	}
}

func TestSpecsTableRows(t *testing.T) {
	l := &ComponentList{Components: []ComponentInfo{{
		Name:     "installed_packages",
		Kind:     "datasource",
		Enabled:  true,
		Requires: []string{"host_context"},
		Optional: []string{"rpm_qa", "dpkg_query"},
	}}}

	rows := l.TableRows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := []string{"installed_packages", "Datasource", "yes", "", "host_context,rpm_qa?,dpkg_query?"}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("TableRows() = %q, want %q", rows[0], want)
	}
	if len(l.TableHeader()) != len(want) {
		t.Errorf("header has %d columns, rows have %d", len(l.TableHeader()), len(want))
	}
}

func TestGraphCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "graph.json")

	if err := run(t, "graph", "--only", "os_release", "--format", "json", "--output", out); err != nil {
		t.Fatalf("graph failed: %v", err)
	}

	l := readComponentList(t, out)
	var names []string
	for _, c := range l.Components {
		names = append(names, c.Name)
	}
	if want := []string{"host_context", "os_release"}; !reflect.DeepEqual(names, want) {
		t.Errorf("graph order = %v, want %v", names, want)
	}
}

func TestGraphCommand_UnknownComponent(t *testing.T) {
	if err := run(t, "graph", "--only", "no_such_component"); err == nil {
		t.Fatal("expected error for unknown component")
	}
}

func TestCollectCommand(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "etc"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "etc", "os-release"), []byte("ID=test\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	summary := filepath.Join(t.TempDir(), "summary.json")

	err := run(t, "collect",
		"--root", root,
		"--only", "os_release",
		"--output", out,
		"--format", "json",
		"--summary", summary,
	)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	b, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	var res struct {
		Archive   string `json:"archive"`
		Persisted int    `json:"persisted"`
	}
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if res.Persisted != 1 {
		t.Errorf("expected 1 persisted file, got %d", res.Persisted)
	}

	data, err := os.ReadFile(filepath.Join(res.Archive, "data", "etc", "os-release"))
	if err != nil {
		t.Fatalf("expected collected os-release: %v", err)
	}
	if string(data) != "ID=test\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestCollectCommand_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid mode", []string{"collect", "--mode", "sideways", "--only", "os_release"}},
		{"invalid workers", []string{"collect", "--workers", "0", "--only", "os_release"}},
		{"invalid format", []string{"collect", "--format", "xml", "--only", "os_release"}},
		{"missing manifest", []string{"collect", "--manifest", "/no/such/manifest.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--output", t.TempDir())
			if err := run(t, args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestServeCommand_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no burst", []string{"serve", "--collect-burst", "0"}},
		{"negative interval", []string{"serve", "--collect-interval", "-1s"}},
		{"invalid mode", []string{"serve", "--mode", "sideways"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// every case fails before the listener starts
			args := append(tt.args, "--output", t.TempDir(), "--port", "0")
			if err := run(t, args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}
