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
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-zglob"

	"github.com/NVIDIA/node-diagnostics/pkg/defaults"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
)

type simpleFile struct {
	path string
}

// SimpleFile collects one file.
func SimpleFile(path string) Provider {
	return &simpleFile{path: path}
}

func (p *simpleFile) Invoke(_ context.Context, hc *HostContext, call *engine.Call) (any, error) {
	return readFile(hc, call, p.path)
}

func (p *simpleFile) Deps() []*engine.Component { return nil }

type firstFile struct {
	paths []string
}

// FirstFile collects the first of paths that can be read.
func FirstFile(paths ...string) Provider {
	return &firstFile{paths: paths}
}

func (p *firstFile) Invoke(_ context.Context, hc *HostContext, call *engine.Call) (any, error) {
	var errs *multierror.Error
	for _, path := range p.paths {
		r, err := readFile(hc, call, path)
		if err == nil {
			return r, nil
		}
		errs = multierror.Append(errs, err)
	}
	return nil, firstError("None of the files could be collected", errs)
}

func (p *firstFile) Deps() []*engine.Component { return nil }

// GlobOption configures GlobFile.
type GlobOption func(*globFile)

// WithIgnore drops matches whose path matches re.
func WithIgnore(re *regexp.Regexp) GlobOption {
	return func(g *globFile) {
		g.ignore = re
	}
}

// WithMaxMatches overrides the host context cap for one glob.
func WithMaxMatches(n int) GlobOption {
	return func(g *globFile) {
		g.max = n
	}
}

type globFile struct {
	patterns []string
	ignore   *regexp.Regexp
	max      int
}

// GlobFile collects every regular file matching any of patterns, sorted by
// path. "**" matches any number of directories.
func GlobFile(patterns []string, opts ...GlobOption) Provider {
	g := &globFile{patterns: patterns}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (*globFile) multiOutput() {}

func (g *globFile) Deps() []*engine.Component { return nil }

func (g *globFile) Invoke(_ context.Context, hc *HostContext, call *engine.Call) (any, error) {
	paths, err := g.expand(hc)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "No files matched: "+strings.Join(g.patterns, ", "))
	}

	limit := g.max
	if limit <= 0 {
		limit = hc.MaxGlobMatches
	}
	if limit <= 0 {
		limit = defaults.MaxGlobMatches
	}
	if len(paths) > limit {
		return nil, errors.Newf(errors.ErrCodeTooManyResults, "Too many files matched: %d > %d", len(paths), limit)
	}

	results := make([]ContentResult, 0, len(paths))
	var last error
	for _, path := range paths {
		r, err := readFile(hc, call, path)
		if err != nil {
			slog.Debug("dropping glob match",
				slog.String("component", call.Component().Name),
				slog.String("path", path),
				slog.String("error", err.Error()))
			last = err
			continue
		}
		results = append(results, r)
	}
	if len(results) == 0 {
		return nil, last
	}
	return results, nil
}

// expand returns the sorted, de-duplicated host paths (without the context
// root) of regular files matching the patterns.
func (g *globFile) expand(hc *HostContext) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range g.patterns {
		matches, err := zglob.Glob(hc.Resolve(pattern))
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid glob pattern: "+pattern, err)
		}
		for _, m := range matches {
			rel := hc.unresolve(m)
			if _, dup := seen[rel]; dup {
				continue
			}
			if g.ignore != nil && g.ignore.MatchString(rel) {
				continue
			}
			if fi, err := os.Stat(m); err == nil && fi.IsDir() {
				continue
			}
			seen[rel] = struct{}{}
			paths = append(paths, rel)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

type listdir struct {
	path string
}

// Listdir yields the sorted names of the entries of a directory as a
// []string. It is meant as the list source of foreach providers.
func Listdir(path string) Provider {
	return &listdir{path: path}
}

func (p *listdir) Deps() []*engine.Component { return nil }

func (p *listdir) Invoke(_ context.Context, hc *HostContext, _ *engine.Call) (any, error) {
	if err := hc.Blacklist.CheckFile(p.path); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(hc.Resolve(p.path))
	if err != nil {
		return nil, fileError(p.path, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyContent, "Empty directory: "+p.path)
	}
	sort.Strings(names)
	return names, nil
}

// unresolve strips the context root from a resolved path.
func (hc *HostContext) unresolve(full string) string {
	if hc.Root == "" || hc.Root == "/" {
		return full
	}
	rel, err := filepath.Rel(hc.Root, full)
	if err != nil {
		return full
	}
	return "/" + rel
}
