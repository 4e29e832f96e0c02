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

package filters

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
	"gopkg.in/yaml.v3"
)

// Default is the process-wide registry populated at start-up.
var Default = NewRegistry()

// Registry maps component names to their ordered set of patterns.
// It is safe for concurrent use.
type Registry struct {
	patterns *xsync.MapOf[string, []string]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{patterns: xsync.NewMapOf[string, []string]()}
}

// Add registers patterns for the named component. Registering the same
// pattern twice is a no-op; empty patterns are ignored. Insertion order is kept.
func (r *Registry) Add(name string, patterns ...string) {
	r.patterns.Compute(name, func(old []string, _ bool) ([]string, bool) {
		merged := make([]string, 0, len(old)+len(patterns))
		merged = append(merged, old...)
		for _, p := range patterns {
			if p == "" || contains(merged, p) {
				continue
			}
			merged = append(merged, p)
		}
		return merged, len(merged) == 0
	})
}

// Patterns returns a copy of the patterns registered for name.
func (r *Registry) Patterns(name string) []string {
	v, ok := r.patterns.Load(name)
	if !ok {
		return nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}

// Has reports whether at least one pattern is registered for name.
func (r *Registry) Has(name string) bool {
	v, ok := r.patterns.Load(name)
	return ok && len(v) > 0
}

// Satisfied reports whether a component may be collected: it is not
// filterable, or at least one pattern is registered for it.
func (r *Registry) Satisfied(name string, filterable bool) bool {
	return !filterable || r.Has(name)
}

// Names returns the sorted names of all components with registered patterns.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.patterns.Size())
	r.patterns.Range(func(k string, _ []string) bool {
		names = append(names, k)
		return true
	})
	sort.Strings(names)
	return names
}

// Snapshot returns an independent copy of the registry.
func (r *Registry) Snapshot() *Registry {
	cp := NewRegistry()
	r.patterns.Range(func(k string, v []string) bool {
		cp.Add(k, v...)
		return true
	})
	return cp
}

// Merge adds every pattern from other into r.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	other.patterns.Range(func(k string, v []string) bool {
		r.Add(k, v...)
		return true
	})
}

// Reset removes all registered patterns.
func (r *Registry) Reset() {
	r.patterns.Clear()
}

// Load reads a YAML filter file and registers its patterns.
func (r *Registry) Load(in io.Reader) error {
	var doc map[string][]string
	if err := yaml.NewDecoder(in).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode filters: %w", err)
	}
	for name, patterns := range doc {
		r.Add(strings.TrimSpace(name), patterns...)
	}
	return nil
}

// LoadFile reads the YAML filter file at path and registers its patterns.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open filter file %q: %w", path, err)
	}
	defer f.Close()

	if err := r.Load(f); err != nil {
		return fmt.Errorf("failed to load filter file %q: %w", path, err)
	}
	return nil
}

// Add registers patterns for name in the Default registry.
func Add(name string, patterns ...string) {
	Default.Add(name, patterns...)
}

// Patterns returns the patterns registered for name in the Default registry.
func Patterns(name string) []string {
	return Default.Patterns(name)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
