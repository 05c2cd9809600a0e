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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/zbx-archive/pkg/defaults"
	apperrors "github.com/NVIDIA/zbx-archive/pkg/errors"
	"github.com/NVIDIA/zbx-archive/pkg/serializer"
)

// Environment variables read by ApplyEnv.
const (
	EnvZabbixURL      = "ZABBIX_URL"
	EnvZabbixUser     = "ZABBIX_USER"
	EnvZabbixPassword = "ZABBIX_PASSWORD"
	EnvZabbixAPIToken = "ZABBIX_API_TOKEN"
	EnvRepoPath       = "REPO_PATH"
	EnvOutputDir      = "OUTPUT_DIR"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
)

const redactedSecret = "***"

// Config is the complete runtime configuration. It is built once from
// defaults, an optional YAML file, the environment and command line flags,
// then passed to every component.
type Config struct {
	Zabbix  ZabbixConfig  `yaml:"zabbix"`
	Output  OutputConfig  `yaml:"output"`
	Redact  RedactConfig  `yaml:"redact"`
	Publish PublishConfig `yaml:"publish"`
	Metrics MetricsConfig `yaml:"metrics"`
	Serve   ServeConfig   `yaml:"serve"`
}

// ZabbixConfig holds monitoring API settings.
type ZabbixConfig struct {
	// URL is the JSON-RPC endpoint.
	URL string `yaml:"url"`
	// User is the login name used when Login is set.
	User string `yaml:"user"`

	// PasswordEnv and TokenEnv name environment variables holding secrets.
	// Secrets are never read from the file itself.
	PasswordEnv string `yaml:"password_env"`
	TokenEnv    string `yaml:"token_env"`

	// Password and APIToken are resolved from the environment.
	Password string `yaml:"-"`
	APIToken string `yaml:"-"`

	Timeout         time.Duration `yaml:"timeout"`
	LoginTimeout    time.Duration `yaml:"login_timeout"`
	RequestInterval time.Duration `yaml:"request_interval"`

	// Login calls user.login before reading. Off by default; APIToken is
	// used as the bearer token when set.
	Login bool `yaml:"login"`
}

// OutputConfig controls where snapshot files go.
type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Summary string   `yaml:"summary"`
	Formats []string `yaml:"formats"`
}

// RedactConfig extends the built-in redaction fields.
type RedactConfig struct {
	ExtraFields []string `yaml:"extra_fields"`
}

// PublishConfig selects the publishers. Enabled publishers run in the order
// git, oci, configmap.
type PublishConfig struct {
	Git       GitConfig       `yaml:"git"`
	OCI       OCIConfig       `yaml:"oci"`
	ConfigMap ConfigMapConfig `yaml:"configmap"`
}

// GitConfig configures the git publisher.
type GitConfig struct {
	Enabled  bool   `yaml:"enabled"`
	RepoPath string `yaml:"repo_path"`
	Remote   string `yaml:"remote"`
	Branch   string `yaml:"branch"`
}

// OCIConfig configures the OCI registry publisher.
type OCIConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Registry    string `yaml:"registry"`
	Repository  string `yaml:"repository"`
	PlainHTTP   bool   `yaml:"plain_http"`
	InsecureTLS bool   `yaml:"insecure_tls"`
}

// ConfigMapConfig configures the Kubernetes ConfigMap publisher.
type ConfigMapConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Namespace  string `yaml:"namespace"`
	Name       string `yaml:"name"`
	Kubeconfig string `yaml:"kubeconfig"`
}

// MetricsConfig configures metric forwarding for one-shot runs.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// ServeConfig configures serve mode.
type ServeConfig struct {
	Address  string        `yaml:"address"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Zabbix: ZabbixConfig{
			Timeout:         defaults.APIRequestTimeout,
			LoginTimeout:    defaults.APILoginTimeout,
			RequestInterval: defaults.APIRequestInterval,
		},
		Output: OutputConfig{
			Dir:     defaults.OutputDir,
			Summary: defaults.SummaryFile,
			Formats: []string{string(serializer.FormatJSON), string(serializer.FormatCSV)},
		},
		Publish: PublishConfig{
			Git: GitConfig{
				Enabled:  true,
				RepoPath: defaults.RepoPath,
				Remote:   defaults.GitRemote,
				Branch:   defaults.GitBranch,
			},
		},
		Metrics: MetricsConfig{
			Job: defaults.PushgatewayJob,
		},
		Serve: ServeConfig{
			Address:  defaults.ServeAddress,
			Interval: defaults.ServeInterval,
		},
	}
}

// Load reads the YAML file at path over the defaults and resolves the
// secret environment variables it names. An empty path returns the defaults.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "failed to read config file", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "failed to parse config file", err,
			map[string]any{"path": path})
	}

	if cfg.Zabbix.PasswordEnv != "" {
		cfg.Zabbix.Password = os.Getenv(cfg.Zabbix.PasswordEnv)
	}
	if cfg.Zabbix.TokenEnv != "" {
		cfg.Zabbix.APIToken = os.Getenv(cfg.Zabbix.TokenEnv)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from the well-known environment variables.
// Unset variables leave the current value untouched.
func (c *Config) ApplyEnv() {
	set := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	set(EnvZabbixURL, &c.Zabbix.URL)
	set(EnvZabbixUser, &c.Zabbix.User)
	set(EnvZabbixPassword, &c.Zabbix.Password)
	set(EnvZabbixAPIToken, &c.Zabbix.APIToken)
	set(EnvRepoPath, &c.Publish.Git.RepoPath)
	set(EnvOutputDir, &c.Output.Dir)
	set(EnvPushgatewayURL, &c.Metrics.PushgatewayURL)
}

// ResolvePaths places relative output paths inside the git working tree
// when the git publisher is enabled, so the files it commits are the files
// that were written.
func (c *Config) ResolvePaths() {
	if !c.Publish.Git.Enabled || c.Publish.Git.RepoPath == "" {
		return
	}
	if c.Output.Dir != "" && !filepath.IsAbs(c.Output.Dir) {
		c.Output.Dir = filepath.Join(c.Publish.Git.RepoPath, c.Output.Dir)
	}
	if c.Output.Summary != "" && !filepath.IsAbs(c.Output.Summary) {
		c.Output.Summary = filepath.Join(c.Publish.Git.RepoPath, c.Output.Summary)
	}
}

// Validate reports every problem found as one INVALID_REQUEST error.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Zabbix.URL == "" {
		add("zabbix.url is required (or set %s)", EnvZabbixURL)
	} else if u, err := url.Parse(c.Zabbix.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("zabbix.url must be an absolute http(s) url")
	}
	if c.Zabbix.Timeout <= 0 {
		add("zabbix.timeout must be positive")
	}
	if c.Zabbix.LoginTimeout <= 0 {
		add("zabbix.login_timeout must be positive")
	}
	if c.Zabbix.RequestInterval < 0 {
		add("zabbix.request_interval must not be negative")
	}
	if c.Zabbix.Login && c.Zabbix.User == "" {
		add("zabbix.user is required when login is enabled (or set %s)", EnvZabbixUser)
	}

	if c.Output.Dir == "" {
		add("output.dir is required")
	}
	if len(c.Output.Formats) == 0 {
		add("output.formats must list at least one format")
	} else if _, err := serializer.ParseFormats(c.Output.Formats); err != nil {
		add("output.formats: %v", err)
	}

	if g := c.Publish.Git; g.Enabled {
		if g.RepoPath == "" {
			add("publish.git.repo_path is required")
		}
		if g.Remote == "" || g.Branch == "" {
			add("publish.git.remote and publish.git.branch are required")
		}
	}
	if o := c.Publish.OCI; o.Enabled && (o.Registry == "" || o.Repository == "") {
		add("publish.oci.registry and publish.oci.repository are required")
	}
	if m := c.Publish.ConfigMap; m.Enabled && m.Name == "" {
		add("publish.configmap.name is required")
	}

	if c.Serve.Interval <= 0 {
		add("serve.interval must be positive")
	}
	if c.Serve.Address == "" {
		add("serve.address is required")
	}

	if len(problems) == 0 {
		return nil
	}
	return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
		"invalid configuration: "+strings.Join(problems, "; "),
		map[string]any{"problems": problems})
}

// Formats returns the parsed output formats. Call after Validate.
func (c *Config) Formats() []serializer.Format {
	formats, err := serializer.ParseFormats(c.Output.Formats)
	if err != nil {
		return serializer.DefaultFormats
	}
	return formats
}

// PublishEnabled reports whether any publisher is enabled.
func (c *Config) PublishEnabled() bool {
	return c.Publish.Git.Enabled || c.Publish.OCI.Enabled || c.Publish.ConfigMap.Enabled
}

// Redacted returns a copy safe to log: secrets are masked.
func (c *Config) Redacted() Config {
	out := *c
	if out.Zabbix.Password != "" {
		out.Zabbix.Password = redactedSecret
	}
	if out.Zabbix.APIToken != "" {
		out.Zabbix.APIToken = redactedSecret
	}
	out.Output.Formats = append([]string(nil), c.Output.Formats...)
	out.Redact.ExtraFields = append([]string(nil), c.Redact.ExtraFields...)
	return out
}
