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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/node-diagnostics/pkg/serializer"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Value:   string(serializer.FormatTable),
		Sources: cli.EnvVars("NODEDIAG_FORMAT"),
	}

	manifestFlag = &cli.StringFlag{
		Name:    "manifest",
		Aliases: []string{"m"},
		Usage:   "path to a collection manifest (YAML or JSON)",
		Sources: cli.EnvVars("NODEDIAG_MANIFEST"),
	}

	onlyFlag = &cli.StringSliceFlag{
		Name:    "only",
		Usage:   "restrict to the named components and their dependencies (repeatable or comma-separated)",
		Sources: cli.EnvVars("NODEDIAG_ONLY"),
	}
)

// parseOutputFormat returns the validated --format value.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", cmd.String("format"))
	}
	return f, nil
}

// splitList flattens comma-separated values and drops empty entries.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// writeOutput serializes v in the --format to --output or stdout.
func writeOutput(ctx context.Context, cmd *cli.Command, path string, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	w := serializer.NewFileWriterOrStdout(format, path)
	defer w.Close()
	if err := w.Serialize(ctx, v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
