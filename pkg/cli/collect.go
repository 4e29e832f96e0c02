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
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/node-diagnostics/pkg/catalog"
	"github.com/NVIDIA/node-diagnostics/pkg/collector"
	"github.com/NVIDIA/node-diagnostics/pkg/datasource"
	"github.com/NVIDIA/node-diagnostics/pkg/defaults"
	"github.com/NVIDIA/node-diagnostics/pkg/engine"
	"github.com/NVIDIA/node-diagnostics/pkg/filters"
	"github.com/NVIDIA/node-diagnostics/pkg/manifest"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Collect diagnostics and write the archive",
		Description: `Resolve the enabled components on the local host and write an archive
directory with:
  - meta_data/<component>.json: results, errors and timing of every datasource
  - data/<path>: collected file and command content after filtering and redaction
  - parsed/<component>.json: values of parsers and combiners
  - summary.json: the state of every component

Filterable components (sysctl, messages, ps_auxww) are collected only when
filter patterns are registered for them, through --filters or the manifest.

A run where components fail still exits 0; the summary lists the failures.

# Examples

Collect with the default catalog into /var/tmp:
  nodediag collect --output /var/tmp

Collect kernel parameters only, keeping lines that mention "kernel.":
  echo 'sysctl: ["kernel."]' > filters.yaml
  nodediag collect --only sysctl --filters filters.yaml

Run in parallel and compress the archive:
  nodediag collect --mode parallel --workers 8 --compress`,
		Flags: append(collectorFlags(),
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "deadline for the whole collection",
				Value:   defaults.CLICollectTimeout,
				Sources: cli.EnvVars("NODEDIAG_TIMEOUT"),
			},
			formatFlag,
			&cli.StringFlag{
				Name:    "summary",
				Usage:   "file the run summary is written to (default: stdout)",
				Sources: cli.EnvVars("NODEDIAG_SUMMARY"),
			},
			onlyFlag,
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}
			c, err := newCollector(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			res, err := c.Collect(ctx)
			if err != nil {
				return fmt.Errorf("collection failed: %w", err)
			}
			return writeOutput(ctx, cmd, cmd.String("summary"), res)
		},
	}
}

// collectorFlags are the flags newCollector reads, shared by collect and serve.
func collectorFlags() []cli.Flag {
	return []cli.Flag{
		manifestFlag,
		&cli.StringFlag{
			Name:    "filters",
			Usage:   "path to a YAML filter file (component: [patterns])",
			Sources: cli.EnvVars("NODEDIAG_FILTERS"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "directory the archive is written to (default: system temp dir)",
			Sources: cli.EnvVars("NODEDIAG_OUTPUT"),
		},
		&cli.StringFlag{
			Name:    "mode",
			Usage:   "scheduler mode (serial, parallel)",
			Sources: cli.EnvVars("NODEDIAG_MODE"),
		},
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "worker pool size in parallel mode",
			Value:   defaults.DefaultWorkers,
			Sources: cli.EnvVars("NODEDIAG_WORKERS"),
		},
		&cli.DurationFlag{
			Name:    "command-timeout",
			Usage:   "timeout of a single command",
			Value:   defaults.CommandTimeout,
			Sources: cli.EnvVars("NODEDIAG_COMMAND_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "root",
			Usage:   "filesystem root to collect from",
			Sources: cli.EnvVars("NODEDIAG_ROOT"),
		},
		&cli.FloatFlag{
			Name:    "spawn-rate",
			Usage:   "maximum commands started per second (0: unlimited)",
			Sources: cli.EnvVars("NODEDIAG_SPAWN_RATE"),
		},
		&cli.BoolFlag{
			Name:    "compress",
			Usage:   "also write the archive as <archive>.tar.gz",
			Sources: cli.EnvVars("NODEDIAG_COMPRESS"),
		},
		&cli.StringSliceFlag{
			Name:    "obfuscate",
			Usage:   "enable optional redaction rules (ipv4, mac)",
			Sources: cli.EnvVars("NODEDIAG_OBFUSCATE"),
		},
	}
}

// newCollector builds a collector from the manifest and the flags. Flags
// that are set override manifest values.
func newCollector(cmd *cli.Command) (*collector.Collector, error) {
	m := &manifest.Manifest{}
	if path := cmd.String("manifest"); path != "" {
		var err error
		if m, err = manifest.LoadFile(path); err != nil {
			return nil, err
		}
	}
	m.Client.Obfuscate = append(m.Client.Obfuscate, splitList(cmd.StringSlice("obfuscate"))...)

	cat := engine.NewCatalog()
	if err := catalog.Register(cat); err != nil {
		return nil, err
	}

	reg := filters.NewRegistry()
	reg.Merge(filters.Default)
	m.Apply(cat, reg)
	if path := cmd.String("filters"); path != "" {
		if err := reg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	var hcOpts []datasource.Option
	if cmd.IsSet("root") {
		hcOpts = append(hcOpts, datasource.WithRoot(cmd.String("root")))
	}
	if cmd.IsSet("command-timeout") {
		hcOpts = append(hcOpts, datasource.WithTimeout(cmd.Duration("command-timeout")))
	}
	if cmd.IsSet("spawn-rate") {
		hcOpts = append(hcOpts, datasource.WithSpawnRate(cmd.Float("spawn-rate"), 1))
	}

	sched, err := m.Scheduler(reg)
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("mode") {
		mode := engine.Mode(cmd.String("mode"))
		if !mode.IsValid() {
			return nil, fmt.Errorf("invalid --mode value: %q (must be serial or parallel)", mode)
		}
		sched.Mode = mode
	}
	if cmd.IsSet("workers") {
		if cmd.Int("workers") < 1 {
			return nil, fmt.Errorf("invalid --workers value: %d", cmd.Int("workers"))
		}
		sched.Workers = int(cmd.Int("workers"))
	}

	out := cmd.String("output")
	if out == "" {
		out = os.TempDir()
	}

	return &collector.Collector{
		Version:     version,
		Catalog:     cat,
		Filters:     reg,
		HostContext: m.HostContext(hcOpts...),
		Scheduler:   sched,
		Cleaner:     m.Cleaner(),
		OutputDir:   out,
		Only:        splitList(cmd.StringSlice("only")),
		Compress:    cmd.Bool("compress"),
	}, nil
}
