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

	"github.com/NVIDIA/zbx-archive/pkg/snapshotter"
	"github.com/NVIDIA/zbx-archive/pkg/summary"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Poll Zabbix once, write a redacted snapshot and publish it",
		Description: `Runs one export: reads enabled hosts and their enabled items, redacts
sensitive metric names and every host identity, writes
<output-dir>/<YYYY-MM-DD_HH-MM>.<format> for each format plus the README
summary, then runs the enabled publishers. Any failure exits 1.

Examples:

  ZABBIX_URL=https://zabbix.example.com/api_jsonrpc.php zbxarchive export

  zbxarchive export --dry-run --output-dir ./data --summary ./README.md

  zbxarchive export --login --zabbix-user reader --format json,csv,parquet \
    --oci-registry ghcr.io --oci-repository nvidia/zabbix-archive`,
		Flags: exportFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			slog.Debug("effective configuration", "config", cfg.Redacted())

			exp, err := newExporter(cfg, summary.DefaultUpdateFrequency)
			if err != nil {
				return err
			}

			res, runErr := exp.Run(ctx)

			if url := cfg.Metrics.PushgatewayURL; url != "" {
				if err := snapshotter.PushMetrics(ctx, url, cfg.Metrics.Job); err != nil {
					slog.Warn("failed to push run metrics", "url", url, "error", err)
				}
			}

			if runErr != nil {
				return runErr
			}

			slog.Info("export complete",
				"run_id", res.Snapshot.RunID.String(),
				"timestamp", res.Snapshot.Timestamp,
				"records", len(res.Snapshot.Records),
				"files", len(res.Files),
				"duration", res.Duration.String())
			return nil
		},
	}
}
