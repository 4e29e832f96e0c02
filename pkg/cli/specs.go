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
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/node-diagnostics/pkg/catalog"
	"github.com/NVIDIA/node-diagnostics/pkg/collector"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/filters"
	"github.com/NVIDIA/node-diagnostics/pkg/header"
	"github.com/NVIDIA/node-diagnostics/pkg/manifest"
)

// ComponentInfo describes one catalog component.
type ComponentInfo struct {
	Name     string       `json:"name" yaml:"name"`
	Kind     engine.Kind  `json:"kind" yaml:"kind"`
	Enabled  bool         `json:"enabled" yaml:"enabled"`
	Flags    engine.Flags `json:"flags" yaml:"flags"`
	Requires []string     `json:"requires,omitempty" yaml:"requires,omitempty"`
	Optional []string     `json:"optional,omitempty" yaml:"optional,omitempty"`
	Filters  []string     `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// ComponentList is the output of the specs and graph commands.
type ComponentList struct {
	header.Header `yaml:",inline"`

	Components []ComponentInfo `json:"components" yaml:"components"`
}

// TableHeader implements serializer.Tabular.
func (l *ComponentList) TableHeader() []string {
	return []string{"NAME", "KIND", "ENABLED", "FLAGS", "DEPENDS ON"}
}

// TableRows implements serializer.Tabular.
func (l *ComponentList) TableRows() [][]string {
	title := cases.Title(language.English)
	rows := make([][]string, 0, len(l.Components))
	for _, c := range l.Components {
		enabled := "no"
		if c.Enabled {
			enabled = "yes"
		}
		deps := append([]string{}, c.Requires...)
		for _, o := range c.Optional {
			deps = append(deps, o+"?")
		}
		rows = append(rows, []string{
			c.Name, title.String(string(c.Kind)), enabled, flagNames(c.Flags), strings.Join(deps, ","),
		})
	}
	return rows
}

func flagNames(f engine.Flags) string {
	var names []string
	if f.MultiOutput {
		names = append(names, "multi_output")
	}
	if f.Filterable {
		names = append(names, "filterable")
	}
	if f.NoRedact {
		names = append(names, "no_redact")
	}
	if f.Raw {
		names = append(names, "raw")
	}
	return strings.Join(names, ",")
}

func newComponentList(cat *engine.Catalog, reg *filters.Registry, comps []*engine.Component, version string) *ComponentList {
	l := &ComponentList{Components: make([]ComponentInfo, 0, len(comps))}
	l.Init(header.KindComponentList, header.APIVersion, version)
	for _, c := range comps {
		l.Components = append(l.Components, ComponentInfo{
			Name:     c.Name,
			Kind:     c.Kind,
			Enabled:  cat.Enabled(c),
			Flags:    c.Flags,
			Requires: componentNames(c.Requires),
			Optional: componentNames(c.Optional),
			Filters:  reg.Patterns(c.Name),
		})
	}
	return l
}

func componentNames(cs []*engine.Component) []string {
	if len(cs) == 0 {
		return nil
	}
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

// loadCatalog registers the default catalog and applies the --manifest, if any.
func loadCatalog(cmd *cli.Command) (*engine.Catalog, *filters.Registry, error) {
	cat := engine.NewCatalog()
	if err := catalog.Register(cat); err != nil {
		return nil, nil, err
	}
	reg := filters.NewRegistry()
	reg.Merge(filters.Default)
	if path := cmd.String("manifest"); path != "" {
		m, err := manifest.LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		m.Apply(cat, reg)
	}
	return cat, reg, nil
}

func specsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "specs",
		EnableShellCompletion: true,
		Usage:                 "List the registered components",
		Description: `List every registered component in registration order with its kind,
flags and dependencies. Optional dependencies are marked with "?".`,
		Flags: []cli.Flag{
			manifestFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cat, reg, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, cmd.String("output"),
				newComponentList(cat, reg, cat.Components(), version))
		},
	}
}

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:                  "graph",
		EnableShellCompletion: true,
		Usage:                 "Print the resolution order of the enabled components",
		Description: `Build the dependency graph of the enabled components, or of the components
named with --only and their dependencies, and print it in the order the
serial scheduler resolves it.`,
		Flags: []cli.Flag{
			manifestFlag,
			onlyFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cat, reg, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			c := &collector.Collector{
				Catalog: cat,
				Filters: reg,
				Only:    splitList(cmd.StringSlice("only")),
			}
			g, err := c.Graph()
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, cmd.String("output"),
				newComponentList(cat, reg, g.Order(), version))
		},
	}
}
