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

package snapshotter

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/NVIDIA/zbx-archive/pkg/defaults"
	"github.com/NVIDIA/zbx-archive/pkg/errors"
)

// PushMetrics pushes the default registry to a Prometheus Pushgateway so
// short-lived export runs leave their metrics behind. An empty url is a no-op.
func PushMetrics(ctx context.Context, url, job string) error {
	return pushMetrics(ctx, url, job, prometheus.DefaultGatherer)
}

func pushMetrics(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	if url == "" {
		return nil
	}
	if job == "" {
		job = defaults.PushgatewayJob
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.PushgatewayTimeout)
	defer cancel()

	if err := push.New(url, job).Gatherer(g).PushContext(ctx); err != nil {
		return errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to push metrics", err,
			map[string]any{"url": url, "job": job})
	}

	slog.Debug("metrics pushed", "url", url, "job", job)
	return nil
}
