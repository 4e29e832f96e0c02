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

package manifest

import (
	"io"
	"log/slog"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/NVIDIA/node-diagnostics/pkg/cleaner"
	"github.com/NVIDIA/node-diagnostics/pkg/datasource"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/errors"
	"github.com/NVIDIA/node-diagnostics/pkg/filters"
	"github.com/NVIDIA/node-diagnostics/pkg/header"
	"github.com/NVIDIA/node-diagnostics/pkg/serializer"
)

// SchemaVersion is the only manifest version understood.
const SchemaVersion = 0

// Manifest configures a collection.
type Manifest struct {
	header.Header `yaml:",inline"`

	Version int                 `json:"version" yaml:"version"`
	Client  Client              `json:"client" yaml:"client"`
	Plugins Plugins             `json:"plugins" yaml:"plugins"`
	Filters map[string][]string `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// Client holds the host context, blacklist and run strategy.
type Client struct {
	Context     Context              `json:"context" yaml:"context"`
	Blacklist   datasource.Blacklist `json:"blacklist" yaml:"blacklist"`
	RunStrategy RunStrategy          `json:"run_strategy" yaml:"run_strategy"`
	// Obfuscate enables optional redaction rules by name.
	Obfuscate []string `json:"obfuscate,omitempty" yaml:"obfuscate,omitempty"`
}

// Context configures the host context.
type Context struct {
	// Timeout is the per-command timeout in seconds.
	Timeout        float64  `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Root           string   `json:"root,omitempty" yaml:"root,omitempty"`
	Env            []string `json:"env,omitempty" yaml:"env,omitempty"`
	SpawnRate      float64  `json:"spawn_rate,omitempty" yaml:"spawn_rate,omitempty"`
	MaxGlobMatches int      `json:"max_glob_matches,omitempty" yaml:"max_glob_matches,omitempty"`
	MaxFileSize    int64    `json:"max_file_size,omitempty" yaml:"max_file_size,omitempty"`
}

// RunStrategy selects the scheduler mode. Args are decoded per mode.
type RunStrategy struct {
	Name string         `json:"name,omitempty" yaml:"name,omitempty"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
}

// ParallelArgs are the arguments of the parallel run strategy.
type ParallelArgs struct {
	MaxWorkers int `mapstructure:"max_workers"`
}

// Plugins enables and disables catalog components.
type Plugins struct {
	DefaultComponentEnabled *bool          `json:"default_component_enabled,omitempty" yaml:"default_component_enabled,omitempty"`
	Configs                 []PluginConfig `json:"configs,omitempty" yaml:"configs,omitempty"`
}

// PluginConfig overrides one component.
type PluginConfig struct {
	Name    string `json:"name" yaml:"name"`
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// Load decodes and validates a YAML manifest. Unknown fields are rejected.
func Load(r io.Reader) (*Manifest, error) {
	rd, err := serializer.NewReader(serializer.FormatYAML, r, serializer.WithStrict())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create manifest reader", err)
	}
	var m Manifest
	if err := rd.Deserialize(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads the manifest at path. JSON is accepted for .json files.
func LoadFile(path string) (*Manifest, error) {
	m, err := serializer.FromFile[Manifest](path, serializer.WithStrict())
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load manifest", err,
			map[string]any{"path": path})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("manifest loaded", slog.String("path", path))
	return m, nil
}

// Validate checks the manifest for values that cannot be applied.
func (m *Manifest) Validate() error {
	if m.Kind != "" && m.Kind != header.KindManifest {
		return errors.Newf(errors.ErrCodeInvalidRequest, "expected kind %s, got %s", header.KindManifest, m.Kind)
	}
	if m.Version != SchemaVersion {
		return errors.Newf(errors.ErrCodeInvalidRequest, "unsupported manifest version: %d", m.Version)
	}
	if m.Client.Context.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "context timeout must not be negative")
	}
	if _, err := m.schedulerOptions(); err != nil {
		return err
	}
	for i, p := range m.Plugins.Configs {
		if p.Name == "" {
			return errors.Newf(errors.ErrCodeInvalidRequest, "plugins.configs[%d]: name is required", i)
		}
	}
	return nil
}

// Apply sets the enablement of catalog components and registers the
// manifest filters. Configs naming unknown components are logged and ignored.
func (m *Manifest) Apply(cat *engine.Catalog, reg *filters.Registry) {
	if m.Plugins.DefaultComponentEnabled != nil {
		cat.SetDefaultEnabled(*m.Plugins.DefaultComponentEnabled)
	}
	for _, p := range m.Plugins.Configs {
		if _, ok := cat.Get(p.Name); !ok {
			slog.Warn("manifest names unknown component", slog.String("component", p.Name))
			continue
		}
		if p.Enabled != nil {
			cat.SetEnabled(p.Name, *p.Enabled)
		}
	}
	for name, patterns := range m.Filters {
		reg.Add(name, patterns...)
	}
}

// HostContext returns a host context for the manifest client settings.
// opts are applied after the manifest values.
func (m *Manifest) HostContext(opts ...datasource.Option) *datasource.HostContext {
	c := m.Client.Context
	all := []datasource.Option{datasource.WithBlacklist(m.Client.Blacklist)}
	if c.Root != "" {
		all = append(all, datasource.WithRoot(c.Root))
	}
	if c.Timeout > 0 {
		all = append(all, datasource.WithTimeout(time.Duration(c.Timeout*float64(time.Second))))
	}
	if len(c.Env) > 0 {
		all = append(all, datasource.WithEnv(c.Env...))
	}
	if c.SpawnRate > 0 {
		all = append(all, datasource.WithSpawnRate(c.SpawnRate, 1))
	}
	if c.MaxGlobMatches > 0 {
		all = append(all, datasource.WithMaxGlobMatches(c.MaxGlobMatches))
	}
	if c.MaxFileSize > 0 {
		all = append(all, datasource.WithMaxFileSize(c.MaxFileSize))
	}
	return datasource.NewHostContext(append(all, opts...)...)
}

// Scheduler returns a scheduler for the run strategy using reg.
func (m *Manifest) Scheduler(reg *filters.Registry) (*engine.Scheduler, error) {
	opts, err := m.schedulerOptions()
	if err != nil {
		return nil, err
	}
	return engine.NewScheduler(append(opts, engine.WithFilters(reg))...), nil
}

// Cleaner returns a cleaner for the blacklist patterns and keywords and the
// requested optional rules.
func (m *Manifest) Cleaner() *cleaner.Cleaner {
	return cleaner.New(
		cleaner.WithPatterns(m.Client.Blacklist.Patterns...),
		cleaner.WithKeywords(m.Client.Blacklist.Keywords...),
		cleaner.WithObfuscation(m.Client.Obfuscate...),
	)
}

func (m *Manifest) schedulerOptions() ([]engine.SchedulerOption, error) {
	rs := m.Client.RunStrategy
	switch engine.Mode(rs.Name) {
	case "", engine.ModeSerial:
		return []engine.SchedulerOption{engine.WithMode(engine.ModeSerial)}, nil
	case engine.ModeParallel:
		var args ParallelArgs
		if err := decodeArgs(rs.Args, &args); err != nil {
			return nil, err
		}
		if args.MaxWorkers < 0 {
			return nil, errors.New(errors.ErrCodeInvalidRequest, "run_strategy.args.max_workers must not be negative")
		}
		opts := []engine.SchedulerOption{engine.WithMode(engine.ModeParallel)}
		if args.MaxWorkers > 0 {
			opts = append(opts, engine.WithWorkers(args.MaxWorkers))
		}
		return opts, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidRequest, "unknown run strategy: %q", rs.Name)
	}
}

func decodeArgs(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create args decoder", err)
	}
	if err := dec.Decode(in); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid run_strategy.args", err)
	}
	return nil
}
