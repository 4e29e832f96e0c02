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
)

// Origin tags where a result came from.
type Origin string

const (
	OriginFile      Origin = "file"
	OriginCommand   Origin = "command"
	OriginGenerated Origin = "generated"
	OriginFailed    Origin = "failed"
)

// ContentResult is one unit of collected content and its storage path.
type ContentResult interface {
	// RelativePath is the path of the content inside the archive data tree.
	RelativePath() string
	// Lines returns the collected lines without line terminators.
	Lines() []string
	// Origin reports where the content came from.
	Origin() Origin
	// NoRedact reports whether the content is exempt from redaction.
	NoRedact() bool
	// Err is non-nil only for failed items of a multi-output value.
	Err() error
}

type content struct {
	rel      string
	lines    []string
	raw      []byte
	noRedact bool
}

func (c *content) RelativePath() string { return c.rel }

func (c *content) Lines() []string {
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *content) NoRedact() bool { return c.noRedact }

func (*content) Err() error { return nil }

// Raw returns the bytes exactly as read for components flagged raw, or nil.
func (c *content) Raw() []byte { return c.raw }

// FileResult is the content of one file.
type FileResult struct {
	content
	// Path is the path of the file on the host, including the context root.
	Path string
}

// Origin implements ContentResult.
func (*FileResult) Origin() Origin { return OriginFile }

// CommandResult is the standard output of one command.
type CommandResult struct {
	content
	// Cmd is the command line as executed.
	Cmd string
}

// Origin implements ContentResult.
func (*CommandResult) Origin() Origin { return OriginCommand }

// GeneratedResult is content produced in-process, e.g. from a system API.
type GeneratedResult struct {
	content
	// Source names the API the content was read from.
	Source string
}

// Origin implements ContentResult.
func (*GeneratedResult) Origin() Origin { return OriginGenerated }

// FailedResult is the failure of one item of a multi-output provider.
type FailedResult struct {
	// Source is the file path or command line of the item.
	Source string
	// Cause is the error that failed the item.
	Cause error
}

func (r *FailedResult) RelativePath() string { return "" }
func (r *FailedResult) Lines() []string      { return nil }
func (r *FailedResult) Origin() Origin       { return OriginFailed }
func (r *FailedResult) NoRedact() bool       { return false }
func (r *FailedResult) Err() error           { return r.Cause }

// RawResult is implemented by results that keep the bytes as read.
type RawResult interface {
	Raw() []byte
}

// Results normalises a broker value into a list of results. Values that are
// not content results yield nil.
func Results(v any) []ContentResult {
	switch r := v.(type) {
	case ContentResult:
		return []ContentResult{r}
	case []ContentResult:
		return r
	default:
		return nil
	}
}

// Text returns the lines of r joined by newlines, terminated by a newline.
func Text(r ContentResult) string {
	lines := r.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// splitLines splits b into lines, dropping the final terminator.
func splitLines(b []byte) []string {
	s := strings.TrimSuffix(string(b), "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
