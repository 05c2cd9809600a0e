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
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/zbx-archive/pkg/config"
	"github.com/NVIDIA/zbx-archive/pkg/export"
	"github.com/NVIDIA/zbx-archive/pkg/redact"
)

func redactCmd() *cli.Command {
	return &cli.Command{
		Name:      "redact",
		Usage:     "Show which metric names would be redacted",
		ArgsUsage: "[metric name]...",
		Description: `Prints one line per metric name: the verdict, a tab, and the name.
Names are read from the arguments, or from stdin one per line when no
arguments are given. Extra fields come from --config and --redact-field.

  zbxarchive redact "IP Address Pool Usage" "CPU utilization"`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  flagRedact,
				Usage: "Additional metric name fragment to redact (repeatable)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String(flagConfig))
			if err != nil {
				return err
			}
			policy := redact.NewPolicy(append(cfg.Redact.ExtraFields, cmd.StringSlice(flagRedact)...)...)

			names := cmd.Args().Slice()
			if len(names) == 0 {
				sc := bufio.NewScanner(cmd.Root().Reader)
				for sc.Scan() {
					if line := strings.TrimSpace(sc.Text()); line != "" {
						names = append(names, line)
					}
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("failed to read metric names: %w", err)
				}
			}

			w := cmd.Root().Writer
			for _, n := range names {
				verdict := "kept"
				if policy.ShouldRedact(n) {
					verdict = export.RedactedMarker
				}
				if _, err := fmt.Fprintf(w, "%s\t%s\n", verdict, n); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
