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
	"log/slog"
	"strings"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser turns the lines of a content result into entries or key-value maps.
type Parser struct {
	delimiter       string
	skipComments    bool
	kvDelimiter     string
	vDefault        string
	vTrimChars      string
	skipEmptyValues bool
	skipKeys        []string
}

// WithDelimiter splits every input line further on delim. The default
// keeps lines whole.
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithSkipComments sets whether entries starting with "#" are dropped.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key-value delimiter used by Map. Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVDefault sets the value of keys without a delimiter.
func WithVDefault(vDefault string) Option {
	return func(p *Parser) {
		p.vDefault = vDefault
	}
}

// WithVTrimChars sets characters trimmed from both ends of values.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// WithSkipEmptyValues drops keys whose value is empty.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *Parser) {
		p.skipEmptyValues = skip
	}
}

// WithSkipKeys drops the named keys from Map results.
func WithSkipKeys(keys ...string) Option {
	return func(p *Parser) {
		p.skipKeys = append(p.skipKeys, keys...)
	}
}

// New creates a parser with the provided options.
func New(opts ...Option) *Parser {
	p := &Parser{
		skipComments: true,
		kvDelimiter:  "=",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Entries returns the trimmed, non-empty entries of lines.
func (p *Parser) Entries(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		parts := []string{line}
		if p.delimiter != "" {
			parts = strings.Split(line, p.delimiter)
		}
		for _, part := range parts {
			clean := strings.TrimSpace(part)
			if clean == "" {
				continue
			}
			if p.skipComments && strings.HasPrefix(clean, "#") {
				continue
			}
			out = append(out, clean)
		}
	}
	return out
}

// Map splits each entry of lines into a key and a value. Entries without the
// delimiter get the default value. Later keys win.
func (p *Parser) Map(lines []string) map[string]string {
	result := make(map[string]string)
	for _, entry := range p.Entries(lines) {
		kv := strings.SplitN(entry, p.kvDelimiter, 2)
		key := strings.TrimSpace(kv[0])
		if p.skipped(key) {
			continue
		}

		if len(kv) != 2 {
			if p.skipEmptyValues && p.vDefault == "" {
				slog.Debug("skipping key-only entry", slog.String("key", key))
				continue
			}
			result[key] = p.vDefault
			continue
		}

		value := strings.TrimSpace(kv[1])
		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}
		if p.skipEmptyValues && value == "" {
			continue
		}
		result[key] = value
	}
	return result
}

// Fields returns the first whitespace-separated field of every entry.
func (p *Parser) Fields(lines []string) []string {
	entries := p.Entries(lines)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if f := strings.Fields(e); len(f) > 0 {
			out = append(out, f[0])
		}
	}
	return out
}

func (p *Parser) skipped(key string) bool {
	for _, k := range p.skipKeys {
		if k == key {
			return true
		}
	}
	return false
}
