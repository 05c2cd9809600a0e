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

package export

import (
	"time"

	"github.com/NVIDIA/zbx-archive/pkg/redact"
	"github.com/NVIDIA/zbx-archive/pkg/zabbix"
)

const (
	// HostMarker replaces every host identity in exported records.
	HostMarker = "[redacted]"

	// RedactedMarker replaces the metric name and value of sensitive items.
	RedactedMarker = "REDACTED"

	// TimestampLayout is the run timestamp layout: local time to the minute,
	// safe for file names.
	TimestampLayout = "2006-01-02_15-04"
)

// Columns is the fixed field order shared by every snapshot format.
var Columns = []string{"host", "metric", "value", "units", "timestamp"}

// Record is one exported, privacy-safe metric reading.
// Field order matches Columns in every encoding.
type Record struct {
	Host      string `json:"host" parquet:"host"`
	Metric    string `json:"metric" parquet:"metric"`
	Value     string `json:"value" parquet:"value"`
	Units     string `json:"units" parquet:"units"`
	Timestamp string `json:"timestamp" parquet:"timestamp"`
}

// Row returns the record's fields in Columns order.
func (r Record) Row() []string {
	return []string{r.Host, r.Metric, r.Value, r.Units, r.Timestamp}
}

// IsRedacted reports whether the record carries the redaction marker.
func (r Record) IsRedacted() bool {
	return r.Metric == RedactedMarker && r.Value == RedactedMarker
}

// FormatTimestamp renders t in TimestampLayout using t's location.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Mapper converts raw Zabbix items into export records.
type Mapper struct {
	policy *redact.Policy
}

// NewMapper returns a Mapper using p. A nil policy applies redact.DefaultFields.
func NewMapper(p *redact.Policy) *Mapper {
	if p == nil {
		p = redact.NewPolicy()
	}
	return &Mapper{policy: p}
}

// Map produces exactly one record for item. The host is always HostMarker and
// the timestamp is the run-wide timestamp, not the item's last update time.
func (m *Mapper) Map(item zabbix.Item, timestamp string) Record {
	rec := Record{
		Host:      HostMarker,
		Metric:    item.Name,
		Value:     item.LastValue,
		Units:     item.Units,
		Timestamp: timestamp,
	}
	if m.policy.ShouldRedact(item.Name) {
		rec.Metric = RedactedMarker
		rec.Value = RedactedMarker
	}
	return rec
}

// MapAll maps items in order.
func (m *Mapper) MapAll(items []zabbix.Item, timestamp string) []Record {
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, m.Map(it, timestamp))
	}
	return out
}
