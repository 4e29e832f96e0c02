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
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
	"github.com/NVIDIA/node-diagnostics/pkg/filters"
)

// readFile collects path (relative to the context root) into a FileResult.
func readFile(hc *HostContext, call *engine.Call, path string) (*FileResult, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "file path cannot be empty")
	}
	if err := hc.Blacklist.CheckFile(path); err != nil {
		return nil, err
	}

	full := hc.Resolve(path)
	fi, err := os.Stat(full)
	if err != nil {
		return nil, fileError(path, err)
	}
	if fi.IsDir() {
		return nil, errors.New(errors.ErrCodeUnreadable, "Is a directory: "+path)
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fileError(path, err)
	}
	defer f.Close()

	// procfs reports a zero size, so the cap is enforced on what is read
	var r io.Reader = f
	limit := hc.MaxFileSize
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreadable, "Cannot read file: "+path, err)
	}
	if limit > 0 && int64(len(b)) > limit {
		return nil, errors.NewWithContext(errors.ErrCodeUnreadable, "File too large: "+path,
			map[string]any{"maxSize": limit})
	}

	c, err := newContent(call, strings.TrimPrefix(path, "/"), b)
	if err != nil {
		return nil, err
	}

	slog.Debug("collected file",
		slog.String("component", call.Component().Name),
		slog.String("path", path),
		slog.Int("lines", len(c.lines)))

	return &FileResult{content: *c, Path: full}, nil
}

func fileError(path string, err error) error {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.New(errors.ErrCodeNotFound, "No such file: "+path)
	case stderrors.Is(err, fs.ErrPermission):
		return errors.New(errors.ErrCodeUnreadable, "Permission denied: "+path)
	default:
		return errors.Wrap(errors.ErrCodeUnreadable, "Cannot read file: "+path, err)
	}
}

// newContent builds the content of one result from raw bytes, applying the
// component's filter patterns and flags.
func newContent(call *engine.Call, rel string, b []byte) (*content, error) {
	if len(b) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyContent, "Empty content")
	}

	flags := call.Component().Flags
	c := &content{
		rel:      rel,
		noRedact: flags.NoRedact || flags.Raw,
	}
	if flags.Raw {
		c.raw = b
	}

	lines := splitLines(b)
	if patterns := call.Patterns(); len(patterns) > 0 {
		lines = filters.Apply(lines, patterns)
		c.raw = nil
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyContent, "Empty content")
	}
	c.lines = lines
	return c, nil
}
