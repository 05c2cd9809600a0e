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
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/zbx-archive/pkg/export"
	"github.com/NVIDIA/zbx-archive/pkg/zabbix"
)

// Source is the monitoring API an export run reads from.
// *zabbix.Client satisfies it.
type Source interface {
	Login(ctx context.Context) error
	Hosts(ctx context.Context) ([]zabbix.Host, error)
	Items(ctx context.Context, hostID string) ([]zabbix.Item, error)
}

// Snapshot is the ordered set of records produced by one run.
// It is created once per run and never modified afterwards.
type Snapshot struct {
	// RunID identifies the run in logs and the serve API.
	RunID uuid.UUID `json:"run_id"`
	// Timestamp is shared by every record and names the output files.
	Timestamp string `json:"timestamp"`
	// GeneratedAt is the wall-clock time the run started.
	GeneratedAt time.Time `json:"generated_at"`
	// Hosts is the number of hosts polled.
	Hosts int `json:"hosts"`
	// Records holds the exported records in collection order.
	Records []export.Record `json:"records"`
}

// Redacted returns how many records carry the redaction marker.
func (s *Snapshot) Redacted() int {
	n := 0
	for _, r := range s.Records {
		if r.IsRedacted() {
			n++
		}
	}
	return n
}

// Result describes a completed run.
type Result struct {
	Snapshot *Snapshot
	// Files lists the data files followed by the summary, as handed to the publisher.
	Files    []string
	Duration time.Duration
}
