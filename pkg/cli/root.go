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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/node-diagnostics/pkg/logging"
)

const (
	name           = "nodediag"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Collect diagnostics from a Linux node",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Description: `nodediag resolves a graph of datasources, parsers and combiners on the
local host and writes the collected content to an archive directory.

collect - run the enabled components and write the archive
specs   - list the registered components and their flags
graph   - print the resolution order of the enabled components
serve   - collect on request over HTTP`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL", "NODEDIAG_LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			collectCmd(),
			specsCmd(),
			graphCmd(),
			serveCmd(),
		},
	}
}

// Execute runs the command line and exits with status 1 on error.
// SIGINT and SIGTERM cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
