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
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/zbx-archive/pkg/config"
	"github.com/NVIDIA/zbx-archive/pkg/server"
	"github.com/NVIDIA/zbx-archive/pkg/summary"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Export on an interval and serve health, readiness and metrics",
		Description: `Runs an export immediately and then every --interval (default 3h). Runs
never overlap. A failed run is logged and reported on /v1/runs/last; the
schedule continues.

Endpoints: /health, /ready, /metrics, /v1/runs/last.

With --watch and --config, edits to the config file take effect from the
next run. The listen address and interval are fixed at startup.`,
		Flags: serveFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			slog.Debug("effective configuration", "config", cfg.Redacted())

			exp, err := newExporter(cfg, summary.DescribeInterval(cfg.Serve.Interval))
			if err != nil {
				return err
			}

			scfg := server.DefaultConfig()
			scfg.Name = name
			scfg.Version = version
			scfg.Address = cfg.Serve.Address
			scfg.Interval = cfg.Serve.Interval

			srv, err := server.New(scfg, exp)
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(gctx)
			})

			if path := cmd.String(flagConfig); path != "" && cmd.Bool(flagWatch) {
				interval := cfg.Serve.Interval
				g.Go(func() error {
					return config.Watch(gctx, path, func(next *config.Config) error {
						if err := finalize(cmd, next); err != nil {
							return err
						}
						e, err := newExporter(next, summary.DescribeInterval(interval))
						if err != nil {
							return err
						}
						srv.SetRunner(e)
						return nil
					})
				})
			}

			return g.Wait()
		},
	}
}
