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

package collector

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/NVIDIA/node-diagnostics/pkg/cleaner"
	"github.com/NVIDIA/node-diagnostics/pkg/datasource"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
	"github.com/NVIDIA/node-diagnostics/pkg/header"
)

const (
	// MetaDataDir holds one JSON record per datasource.
	MetaDataDir = "meta_data"
	// DataDir holds the collected content.
	DataDir = "data"
	// ParsedDir holds the JSON values of parser and combiner components.
	ParsedDir = "parsed"
	// SummaryFile is written at the archive root.
	SummaryFile = "summary.json"

	// MsgEmptyAfterRedaction is recorded for results the cleaner emptied.
	MsgEmptyAfterRedaction = "Empty content after redaction"
)

type persister struct {
	root    string
	cleaner cleaner.Sanitizer

	written int
	report  cleaner.Report
	paths   map[string]persisted
}

type persisted struct {
	component string
	result    datasource.ContentResult
	record    ResultRecord
}

// persist writes the metadata and data of every datasource in g. Write
// errors are collected and returned together after every record was tried.
func (p *persister) persist(g *engine.Graph, b *engine.Broker, sum *engine.Summary, version string) error {
	p.paths = make(map[string]persisted)
	for _, dir := range []string{MetaDataDir, DataDir, ParsedDir} {
		if err := os.MkdirAll(filepath.Join(p.root, dir), 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to create archive directory", err)
		}
	}

	var errs *multierror.Error
	for _, c := range g.Order() {
		if c == datasource.HostContextComponent {
			continue
		}
		if c.Kind != engine.KindDatasource {
			if err := p.parsed(c, b); err != nil {
				errs = multierror.Append(errs, err)
			}
			continue
		}
		rec := p.record(c, b)
		if err := writeJSON(filepath.Join(p.root, MetaDataDir, metaName(c.Name)), rec); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	doc := struct {
		header.Header
		*engine.Summary
	}{Summary: sum}
	doc.Init(header.KindCollectionSummary, header.APIVersion, version)
	if err := writeJSON(filepath.Join(p.root, SummaryFile), doc); err != nil {
		errs = multierror.Append(errs, err)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to persist archive", err)
	}
	return nil
}

// record builds the metadata of c and writes its data files.
func (p *persister) record(c *engine.Component, b *engine.Broker) *Record {
	rec := &Record{
		Name:     c.Name,
		State:    b.State(c),
		Errors:   []string{},
		ExecTime: b.Duration(c).Seconds(),
	}
	for _, f := range b.Failures(c) {
		rec.Errors = append(rec.Errors, f.Error())
	}
	if r, ok := b.Skipped(c); ok {
		rec.SkipReason = r.String()
	}

	v, ok := b.Get(c)
	if !ok {
		return rec
	}
	for _, r := range datasource.Results(v) {
		if err := r.Err(); err != nil {
			rec.Errors = append(rec.Errors, err.Error())
			continue
		}
		rr, err := p.write(c, r)
		if err != nil {
			rec.Errors = append(rec.Errors, err.Error())
			continue
		}
		rec.Results = append(rec.Results, *rr)
	}
	return rec
}

// write redacts r and writes it under the data directory.
func (p *persister) write(c *engine.Component, r datasource.ContentResult) (*ResultRecord, error) {
	rel := r.RelativePath()
	if !filepath.IsLocal(rel) {
		return nil, errors.Newf(errors.ErrCodeInvalidRequest, "relative path escapes the archive: %q", rel)
	}
	prev, dup := p.paths[rel]
	if dup && prev.result == r {
		rr := prev.record
		return &rr, nil
	}

	var data []byte
	var rep *cleaner.Report
	switch {
	case r.NoRedact():
		data = contentBytes(r)
	default:
		lines, report := p.cleaner.Sanitize(r.Lines())
		p.report.Merge(report)
		if report.Changed() {
			rep = &report
		}
		if len(lines) == 0 {
			return nil, errors.New(errors.ErrCodeEmptyContent, MsgEmptyAfterRedaction)
		}
		data = []byte(strings.Join(lines, "\n") + "\n")
	}

	if dup {
		slog.Warn("data path written by more than one component",
			slog.String("path", rel),
			slog.String("first", prev.component),
			slog.String("component", c.Name))
	}

	full := filepath.Join(p.root, DataDir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create data directory", err)
	}
	if err := os.WriteFile(full, data, 0o600); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to write "+rel, err)
	}
	p.written++

	rr := ResultRecord{
		Type:      string(r.Origin()),
		Object:    ObjectRecord{RelativePath: rel, Source: source(r)},
		Redaction: rep,
	}
	p.paths[rel] = persisted{component: c.Name, result: r, record: rr}
	return &rr, nil
}

// parsed writes the value of a successful parser or combiner as JSON.
// Values that cannot be serialized are logged and skipped.
func (p *persister) parsed(c *engine.Component, b *engine.Broker) error {
	v, ok := b.Get(c)
	if !ok {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Debug("parsed value not serializable",
			slog.String("component", c.Name),
			slog.String("error", err.Error()))
		return nil
	}
	path := filepath.Join(p.root, ParsedDir, metaName(c.Name))
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func contentBytes(r datasource.ContentResult) []byte {
	if raw, ok := r.(datasource.RawResult); ok && raw.Raw() != nil {
		return raw.Raw()
	}
	return []byte(datasource.Text(r))
}

func source(r datasource.ContentResult) string {
	switch t := r.(type) {
	case *datasource.FileResult:
		return t.Path
	case *datasource.CommandResult:
		return t.Cmd
	case *datasource.GeneratedResult:
		return t.Source
	default:
		return ""
	}
}

// metaName turns a component name into a metadata file name.
func metaName(name string) string {
	return strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(name) + ".json"
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
