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

package cleaner

import (
	"fmt"
	"sort"
	"strings"
)

// Sanitizer redacts a sequence of lines.
type Sanitizer interface {
	Sanitize(lines []string) ([]string, Report)
}

// Report describes what a Sanitize call changed.
type Report struct {
	// RemovedLines counts lines dropped for containing a blacklisted pattern.
	RemovedLines int `json:"removedLines" yaml:"removedLines"`
	// Redactions counts replacements per rule name ("keyword" for keywords).
	Redactions map[string]int `json:"redactions,omitempty" yaml:"redactions,omitempty"`
}

// Merge adds o to r.
func (r *Report) Merge(o Report) {
	r.RemovedLines += o.RemovedLines
	for k, v := range o.Redactions {
		if r.Redactions == nil {
			r.Redactions = make(map[string]int)
		}
		r.Redactions[k] += v
	}
}

// Changed reports whether anything was removed or replaced.
func (r Report) Changed() bool {
	return r.RemovedLines > 0 || len(r.Redactions) > 0
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithPatterns drops every line containing one of patterns.
func WithPatterns(patterns ...string) Option {
	return func(c *Cleaner) {
		for _, p := range patterns {
			if p != "" {
				c.patterns = append(c.patterns, p)
			}
		}
	}
}

// WithKeywords replaces each keyword with keyword<N>, N being its position.
func WithKeywords(keywords ...string) Option {
	return func(c *Cleaner) {
		for _, k := range keywords {
			if k != "" {
				c.keywords = append(c.keywords, k)
			}
		}
	}
}

// WithObfuscation enables optional rules by name.
func WithObfuscation(names ...string) Option {
	return func(c *Cleaner) {
		for _, n := range names {
			c.enabled[strings.TrimSpace(n)] = true
		}
	}
}

// WithRules replaces the embedded rules.
func WithRules(rules []Rule) Option {
	return func(c *Cleaner) {
		c.rules = rules
	}
}

// Cleaner is the default Sanitizer. It is safe for concurrent use once built.
type Cleaner struct {
	patterns []string
	keywords []string
	rules    []Rule
	enabled  map[string]bool
}

// New returns a Cleaner using the embedded rules.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{enabled: make(map[string]bool)}
	for _, opt := range opts {
		opt(c)
	}
	if c.rules == nil {
		c.rules = DefaultRules()
	}
	return c
}

// Rules returns the names of the rules that will run, in order.
func (c *Cleaner) Rules() []string {
	var out []string
	for _, r := range c.rules {
		if r.Optional && !c.enabled[r.Name] {
			continue
		}
		out = append(out, r.Name)
	}
	return out
}

// OptionalRules returns the names of rules that can be enabled, sorted.
func (c *Cleaner) OptionalRules() []string {
	var out []string
	for _, r := range c.rules {
		if r.Optional {
			out = append(out, r.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Sanitize implements Sanitizer. The input is not modified.
func (c *Cleaner) Sanitize(lines []string) ([]string, Report) {
	var rep Report
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if c.blacklisted(line) {
			rep.RemovedLines++
			continue
		}

		for i, k := range c.keywords {
			if n := strings.Count(line, k); n > 0 {
				line = strings.ReplaceAll(line, k, fmt.Sprintf("keyword%d", i))
				rep.count("keyword", n)
			}
		}

		for _, r := range c.rules {
			if r.Optional && !c.enabled[r.Name] {
				continue
			}
			for _, p := range r.Patterns {
				if p.compiled == nil {
					continue
				}
				if n := len(p.compiled.FindAllStringIndex(line, -1)); n > 0 {
					line = p.compiled.ReplaceAllString(line, p.Replacement)
					rep.count(r.Name, n)
				}
			}
		}
		out = append(out, line)
	}
	return out, rep
}

func (c *Cleaner) blacklisted(line string) bool {
	for _, p := range c.patterns {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}

func (r *Report) count(name string, n int) {
	if r.Redactions == nil {
		r.Redactions = make(map[string]int)
	}
	r.Redactions[name] += n
}
