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
	"fmt"

	"github.com/NVIDIA/zbx-archive/pkg/config"
	"github.com/NVIDIA/zbx-archive/pkg/export"
	"github.com/NVIDIA/zbx-archive/pkg/publisher"
	"github.com/NVIDIA/zbx-archive/pkg/redact"
	"github.com/NVIDIA/zbx-archive/pkg/snapshotter"
	"github.com/NVIDIA/zbx-archive/pkg/zabbix"
)

// newExporter wires an Exporter from cfg. updateFrequency is stated in the
// summary.
func newExporter(cfg *config.Config, updateFrequency string) (*snapshotter.Exporter, error) {
	client, err := zabbix.NewClient(zabbix.Config{
		URL:             cfg.Zabbix.URL,
		User:            cfg.Zabbix.User,
		Password:        cfg.Zabbix.Password,
		APIToken:        cfg.Zabbix.APIToken,
		Timeout:         cfg.Zabbix.Timeout,
		LoginTimeout:    cfg.Zabbix.LoginTimeout,
		RequestInterval: cfg.Zabbix.RequestInterval,
		UserAgent:       fmt.Sprintf("%s/%s", name, version),
	})
	if err != nil {
		return nil, err
	}

	return &snapshotter.Exporter{
		Source:          client,
		Mapper:          export.NewMapper(redact.NewPolicy(cfg.Redact.ExtraFields...)),
		OutputDir:       cfg.Output.Dir,
		SummaryPath:     cfg.Output.Summary,
		RepoPath:        cfg.Publish.Git.RepoPath,
		Formats:         cfg.Formats(),
		Publisher:       newPublisher(cfg),
		Login:           cfg.Zabbix.Login,
		UpdateFrequency: updateFrequency,
	}, nil
}

// newPublisher returns the enabled publishers in git, OCI, ConfigMap order,
// or nil when none is enabled.
func newPublisher(cfg *config.Config) publisher.Publisher {
	var chain publisher.Chain

	if g := cfg.Publish.Git; g.Enabled {
		chain = append(chain, publisher.NewGit(g.RepoPath, g.Remote, g.Branch))
	}
	if o := cfg.Publish.OCI; o.Enabled {
		chain = append(chain, &publisher.OCI{
			Registry:    o.Registry,
			Repository:  o.Repository,
			PlainHTTP:   o.PlainHTTP,
			InsecureTLS: o.InsecureTLS,
		})
	}
	if m := cfg.Publish.ConfigMap; m.Enabled {
		chain = append(chain, &publisher.ConfigMap{
			Namespace:     m.Namespace,
			ConfigMapName: m.Name,
			Kubeconfig:    m.Kubeconfig,
		})
	}

	if len(chain) == 0 {
		return nil
	}
	return chain
}
