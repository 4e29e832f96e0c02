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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/NVIDIA/node-diagnostics/pkg/cleaner"
	"github.com/NVIDIA/node-diagnostics/pkg/datasource"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
	"github.com/NVIDIA/node-diagnostics/pkg/filters"
)

// Collector resolves the enabled components of a catalog on the local host
// and persists the results.
type Collector struct {
	// Version is recorded in the archive summary.
	Version string

	// Catalog supplies the components. If nil, engine.Default is used.
	Catalog *engine.Catalog

	// Filters is the filter registry. If nil, filters.Default is used.
	Filters *filters.Registry

	// HostContext is seeded into every run. If nil, datasource.NewHostContext() is used.
	HostContext *datasource.HostContext

	// Scheduler resolves the graph. If nil, a serial scheduler over Filters is used.
	Scheduler *engine.Scheduler

	// Cleaner redacts content before it is written. If nil, cleaner.New() is used.
	Cleaner cleaner.Sanitizer

	// OutputDir is the parent of the archive directory. If empty, os.TempDir() is used.
	OutputDir string

	// Only restricts the run to the named components and their dependencies.
	Only []string

	// Compress also writes <archive>.tar.gz next to the archive directory.
	Compress bool
}

// Collect runs one collection. The returned error covers structural and
// persistence problems only; component failures are reported in the Summary.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	start := time.Now()
	defer func() {
		collectionDuration.Observe(time.Since(start).Seconds())
	}()

	res, err := c.collect(ctx, start)
	if err != nil {
		collectionTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	collectionTotal.WithLabelValues("success").Inc()
	persistedFiles.Set(float64(res.Persisted))
	return res, nil
}

func (c *Collector) collect(ctx context.Context, start time.Time) (*Result, error) {
	c.applyDefaults()

	g, err := c.Graph()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create output directory", err)
	}
	lock := NewLockfile(filepath.Join(c.OutputDir, LockFileName))
	if err := lock.Lock(ctx, 0); err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release lock", slog.String("error", err.Error()))
		}
	}()

	slog.Info("starting collection",
		slog.Int("components", g.Len()),
		slog.String("scheduler", c.Scheduler.String()),
		slog.String("output", c.OutputDir))

	b := engine.NewBroker()
	if g.Contains(datasource.HostContextComponent) {
		b.Seed(datasource.HostContextComponent, c.HostContext)
	}
	sum := c.Scheduler.Run(ctx, g, b)

	p := &persister{
		root:    filepath.Join(c.OutputDir, archiveName(sum.RunID)),
		cleaner: c.Cleaner,
	}
	if err := p.persist(g, b, sum, c.Version); err != nil {
		return nil, err
	}

	res := &Result{
		Archive:   p.root,
		Persisted: p.written,
		Redaction: p.report,
		Summary:   sum,
	}
	if c.Compress {
		tarball, err := compress(p.root)
		if err != nil {
			return nil, err
		}
		res.Tarball = tarball
	}
	res.Duration = time.Since(start)

	slog.Info("collection complete",
		slog.String("archive", res.Archive),
		slog.Int("persisted", res.Persisted),
		slog.Int("failed", sum.Failed),
		slog.Int("skipped", sum.Skipped),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// Graph returns the graph a collection would resolve.
func (c *Collector) Graph() (*engine.Graph, error) {
	c.applyDefaults()

	g, err := c.Catalog.EnabledGraph()
	if err != nil {
		return nil, err
	}
	if len(c.Only) == 0 {
		return g, nil
	}

	full, err := c.Catalog.Graph()
	if err != nil {
		return nil, err
	}
	roots := make([]*engine.Component, 0, len(c.Only))
	for _, name := range c.Only {
		comp, ok := full.Lookup(name)
		if !ok {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("unknown component: %q", name), map[string]any{"component": name})
		}
		roots = append(roots, comp)
	}
	return full.Subgraph(roots...), nil
}

func (c *Collector) applyDefaults() {
	if c.Catalog == nil {
		c.Catalog = engine.Default
	}
	if c.Filters == nil {
		c.Filters = filters.Default
	}
	if c.HostContext == nil {
		c.HostContext = datasource.NewHostContext()
	}
	if c.Scheduler == nil {
		c.Scheduler = engine.NewScheduler(engine.WithFilters(c.Filters))
	}
	if c.Cleaner == nil {
		c.Cleaner = cleaner.New(
			cleaner.WithPatterns(c.HostContext.Blacklist.Patterns...),
			cleaner.WithKeywords(c.HostContext.Blacklist.Keywords...))
	}
	if c.OutputDir == "" {
		c.OutputDir = os.TempDir()
	}
}

// archiveName is nodediag-<hostname>-<first 8 characters of the run id>.
func archiveName(runID string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return fmt.Sprintf("nodediag-%s-%s", host, runID)
}
