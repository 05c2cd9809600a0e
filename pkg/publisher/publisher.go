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

package publisher

import (
	"context"
	"log/slog"
	"time"

	"github.com/NVIDIA/zbx-archive/pkg/errors"
)

// Artifacts describes the output of one export run.
type Artifacts struct {
	// Timestamp is the run timestamp shared by every record and file name.
	Timestamp string
	// GeneratedAt is when the run finished collecting.
	GeneratedAt time.Time
	// RepoPath is the working tree the files belong to.
	RepoPath string
	// Files are the data files followed by the summary.
	Files []string
}

// Publisher hands the artifacts of a run to a destination.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, a Artifacts) error
}

// Chain runs publishers in order and stops at the first failure.
type Chain []Publisher

// Name implements Publisher.
func (c Chain) Name() string {
	return "chain"
}

// Publish implements Publisher.
func (c Chain) Publish(ctx context.Context, a Artifacts) error {
	if len(a.Files) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "no files to publish")
	}
	for _, p := range c {
		if p == nil {
			continue
		}
		start := time.Now()
		err := p.Publish(ctx, a)
		publishDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			publishTotal.WithLabelValues(p.Name(), "error").Inc()
			slog.Error("publish failed",
				"publisher", p.Name(),
				"timestamp", a.Timestamp,
				"error", err)
			return err
		}
		publishTotal.WithLabelValues(p.Name(), "success").Inc()
		slog.Info("published",
			"publisher", p.Name(),
			"timestamp", a.Timestamp,
			"files", len(a.Files),
			"duration", time.Since(start).String())
	}
	return nil
}
