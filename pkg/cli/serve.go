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
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/node-diagnostics/pkg/collector"
	"github.com/NVIDIA/node-diagnostics/pkg/defaults"
	"github.com/NVIDIA/node-diagnostics/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Serve collections over HTTP",
		Description: `Run an HTTP server that collects on request. Every request builds a
fresh catalog from the manifest and flags, so runs do not share state.

  POST /v1/collect?only=a,b&compress=true  run a collection, respond with its result
  GET  /v1/graph?only=a,b                  list the components a collection resolves
  GET  /health, /ready                     liveness and readiness probes
  GET  /metrics                            Prometheus metrics

Collections are admitted once per --collect-interval, with up to
--collect-burst back to back; throttled requests get 429 and Retry-After.
Concurrent collections into the same --output wait on its lock.`,
		Flags: append(collectorFlags(),
			&cli.StringFlag{
				Name:    "address",
				Usage:   "address to listen on (default: all interfaces)",
				Sources: cli.EnvVars("NODEDIAG_ADDRESS"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "port to listen on",
				Value:   8080,
				Sources: cli.EnvVars("NODEDIAG_PORT", "PORT"),
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "deadline of a single collection request",
				Value:   defaults.ServerCollectTimeout,
				Sources: cli.EnvVars("NODEDIAG_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:    "collect-interval",
				Usage:   "minimum spacing of collections (0: unthrottled)",
				Value:   defaults.ServerCollectInterval,
				Sources: cli.EnvVars("NODEDIAG_COLLECT_INTERVAL"),
			},
			&cli.IntFlag{
				Name:    "collect-burst",
				Usage:   "collections admitted back to back before the interval applies",
				Value:   defaults.ServerCollectBurst,
				Sources: cli.EnvVars("NODEDIAG_COLLECT_BURST"),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// fail fast on a bad manifest or flag
			if _, err := newCollector(cmd); err != nil {
				return err
			}
			if cmd.Duration("collect-interval") < 0 || cmd.Int("collect-burst") < 1 {
				return fmt.Errorf("invalid collection throttle: --collect-interval must not be negative and --collect-burst must be at least 1")
			}

			h := &collector.Handler{
				New: func() (*collector.Collector, error) {
					return newCollector(cmd)
				},
				Timeout: cmd.Duration("timeout"),
			}

			s := server.New(
				server.WithName(name),
				server.WithVersion(version),
				server.WithAddress(cmd.String("address"), int(cmd.Int("port"))),
				server.WithCollectLimit(cmd.Duration("collect-interval"), int(cmd.Int("collect-burst"))),
				server.WithHandler(map[string]http.HandlerFunc{
					"/v1/collect": h.HandleCollect,
					"/v1/graph":   h.HandleGraph,
				}),
			)

			slog.Debug("serving collections", "output", cmd.String("output"))
			return s.Run(ctx)
		},
	}
}
