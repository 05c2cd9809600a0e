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
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/zbx-archive/pkg/config"
	"github.com/NVIDIA/zbx-archive/pkg/logging"
)

const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagZabbixURL = "zabbix-url"
	flagUser      = "zabbix-user"
	flagLogin     = "login"
	flagTimeout   = "timeout"
	flagInterval  = "request-interval"
	flagOutputDir = "output-dir"
	flagSummary   = "summary"
	flagFormat    = "format"
	flagRedact    = "redact-field"
	flagRepoPath  = "repo-path"
	flagNoGit     = "no-git"
	flagDryRun    = "dry-run"
	flagRegistry  = "oci-registry"
	flagOCIRepo   = "oci-repository"
	flagPlainHTTP = "plain-http"
	flagInsecure  = "insecure-tls"
	flagCMName    = "configmap-name"
	flagCMNs      = "configmap-namespace"
	flagKubecfg   = "kubeconfig"
	flagPushURL   = "pushgateway-url"
	flagAddress   = "address"
	flagServeIntv = "interval"
	flagWatch     = "watch"
)

// Flags are built per command tree: urfave/cli keeps parsed state on them.

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "Path to a YAML config file",
			Sources: cli.EnvVars("ZBXARCHIVE_CONFIG"),
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars(logging.EnvLogLevel),
		},
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagZabbixURL,
			Usage:   "Zabbix JSON-RPC endpoint",
			Sources: cli.EnvVars(config.EnvZabbixURL),
		},
		&cli.StringFlag{
			Name:    flagUser,
			Usage:   "Zabbix user for --login (password from ZABBIX_PASSWORD)",
			Sources: cli.EnvVars(config.EnvZabbixUser),
		},
		&cli.BoolFlag{
			Name:    flagLogin,
			Usage:   "Call user.login before reading",
			Sources: cli.EnvVars("ZABBIX_LOGIN"),
		},
		&cli.DurationFlag{
			Name:  flagTimeout,
			Usage: "Timeout for each Zabbix API call",
		},
		&cli.DurationFlag{
			Name:    flagInterval,
			Usage:   "Minimum spacing between Zabbix API calls (0 disables pacing)",
			Sources: cli.EnvVars("ZABBIX_REQUEST_INTERVAL"),
		},
		&cli.StringFlag{
			Name:    flagOutputDir,
			Aliases: []string{"o"},
			Usage:   "Directory for snapshot files (relative paths resolve inside --repo-path)",
			Sources: cli.EnvVars(config.EnvOutputDir),
		},
		&cli.StringFlag{
			Name:  flagSummary,
			Usage: "Path of the README summary (empty string skips it)",
		},
		&cli.StringSliceFlag{
			Name:    flagFormat,
			Aliases: []string{"f"},
			Usage:   "Snapshot formats to write: json, csv, parquet (repeatable)",
			Sources: cli.EnvVars("OUTPUT_FORMATS"),
		},
		&cli.StringSliceFlag{
			Name:  flagRedact,
			Usage: "Additional metric name fragment to redact (repeatable)",
		},
		&cli.StringFlag{
			Name:    flagRepoPath,
			Usage:   "Git working tree to commit into",
			Sources: cli.EnvVars(config.EnvRepoPath),
		},
		&cli.BoolFlag{
			Name:  flagNoGit,
			Usage: "Disable the git publisher",
		},
		&cli.BoolFlag{
			Name:  flagDryRun,
			Usage: "Write files but skip every publisher",
		},
		&cli.StringFlag{
			Name:  flagRegistry,
			Usage: "Push snapshots to this OCI registry (enables the OCI publisher)",
		},
		&cli.StringFlag{
			Name:  flagOCIRepo,
			Usage: "OCI repository path, e.g. nvidia/zabbix-archive",
		},
		&cli.BoolFlag{
			Name:  flagPlainHTTP,
			Usage: "Use plain HTTP for the OCI registry",
		},
		&cli.BoolFlag{
			Name:  flagInsecure,
			Usage: "Skip TLS verification for the OCI registry",
		},
		&cli.StringFlag{
			Name:  flagCMName,
			Usage: "Apply snapshots to this ConfigMap (enables the ConfigMap publisher)",
		},
		&cli.StringFlag{
			Name:    flagCMNs,
			Usage:   "ConfigMap namespace (default: current namespace)",
			Sources: cli.EnvVars("POD_NAMESPACE"),
		},
		&cli.StringFlag{
			Name:    flagKubecfg,
			Usage:   "Path to kubeconfig for the ConfigMap publisher",
			Sources: cli.EnvVars("KUBECONFIG"),
		},
		&cli.StringFlag{
			Name:    flagPushURL,
			Usage:   "Prometheus Pushgateway URL for run metrics (export only)",
			Sources: cli.EnvVars(config.EnvPushgatewayURL),
		},
	}
}

func serveFlags() []cli.Flag {
	return append(exportFlags(),
		&cli.StringFlag{
			Name:    flagAddress,
			Usage:   "HTTP listen address",
			Sources: cli.EnvVars("ZBXARCHIVE_ADDRESS"),
		},
		&cli.DurationFlag{
			Name:    flagServeIntv,
			Usage:   "Time between export runs",
			Sources: cli.EnvVars("ZBXARCHIVE_INTERVAL"),
		},
		&cli.BoolFlag{
			Name:  flagWatch,
			Usage: "Reload the config file when it changes",
		},
	)
}

// hasFlag reports whether cmd defines name, so shared helpers can be used
// by commands with different flag sets.
func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

// applyFlags copies explicitly set flags onto cfg.
func applyFlags(cmd *cli.Command, cfg *config.Config) {
	setString := func(flag string, dst *string) {
		if hasFlag(cmd, flag) && cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}
	setBool := func(flag string, dst *bool) {
		if hasFlag(cmd, flag) && cmd.IsSet(flag) {
			*dst = cmd.Bool(flag)
		}
	}

	setString(flagZabbixURL, &cfg.Zabbix.URL)
	setString(flagUser, &cfg.Zabbix.User)
	setBool(flagLogin, &cfg.Zabbix.Login)
	if hasFlag(cmd, flagTimeout) && cmd.IsSet(flagTimeout) {
		cfg.Zabbix.Timeout = cmd.Duration(flagTimeout)
	}
	if hasFlag(cmd, flagInterval) && cmd.IsSet(flagInterval) {
		cfg.Zabbix.RequestInterval = cmd.Duration(flagInterval)
	}

	setString(flagOutputDir, &cfg.Output.Dir)
	setString(flagSummary, &cfg.Output.Summary)
	if hasFlag(cmd, flagFormat) && cmd.IsSet(flagFormat) {
		cfg.Output.Formats = cmd.StringSlice(flagFormat)
	}
	if hasFlag(cmd, flagRedact) && cmd.IsSet(flagRedact) {
		cfg.Redact.ExtraFields = append(cfg.Redact.ExtraFields, cmd.StringSlice(flagRedact)...)
	}

	setString(flagRepoPath, &cfg.Publish.Git.RepoPath)
	if hasFlag(cmd, flagNoGit) && cmd.Bool(flagNoGit) {
		cfg.Publish.Git.Enabled = false
	}

	setString(flagRegistry, &cfg.Publish.OCI.Registry)
	setString(flagOCIRepo, &cfg.Publish.OCI.Repository)
	setBool(flagPlainHTTP, &cfg.Publish.OCI.PlainHTTP)
	setBool(flagInsecure, &cfg.Publish.OCI.InsecureTLS)
	if hasFlag(cmd, flagRegistry) && cmd.IsSet(flagRegistry) && cmd.String(flagRegistry) != "" {
		cfg.Publish.OCI.Enabled = true
	}

	setString(flagCMName, &cfg.Publish.ConfigMap.Name)
	setString(flagCMNs, &cfg.Publish.ConfigMap.Namespace)
	setString(flagKubecfg, &cfg.Publish.ConfigMap.Kubeconfig)
	if hasFlag(cmd, flagCMName) && cmd.IsSet(flagCMName) && cmd.String(flagCMName) != "" {
		cfg.Publish.ConfigMap.Enabled = true
	}

	setString(flagPushURL, &cfg.Metrics.PushgatewayURL)

	setString(flagAddress, &cfg.Serve.Address)
	if hasFlag(cmd, flagServeIntv) && cmd.IsSet(flagServeIntv) {
		cfg.Serve.Interval = cmd.Duration(flagServeIntv)
	}
}

// finalize turns a loaded config into the effective one: flags on top,
// paths resolved, dry run applied, then validated.
func finalize(cmd *cli.Command, cfg *config.Config) error {
	applyFlags(cmd, cfg)
	cfg.ResolvePaths()
	if hasFlag(cmd, flagDryRun) && cmd.Bool(flagDryRun) {
		cfg.Publish.Git.Enabled = false
		cfg.Publish.OCI.Enabled = false
		cfg.Publish.ConfigMap.Enabled = false
	}
	return cfg.Validate()
}

// loadConfig builds the effective configuration: defaults, the config file,
// the environment, then flags.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := finalize(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
