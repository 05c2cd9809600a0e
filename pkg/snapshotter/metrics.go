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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Export run metrics
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zbxarchive_run_duration_seconds",
			Help:    "Time taken by a complete export run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 900},
		},
	)

	runTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zbxarchive_run_total",
			Help: "Total number of export runs",
		},
		[]string{"status"}, // success or error
	)

	runStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zbxarchive_run_stage_duration_seconds",
			Help:    "Time taken by individual run stages",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"stage"}, // collect, write, summary, publish
	)

	runRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zbxarchive_run_records",
			Help: "Number of records in the last snapshot",
		},
	)

	runRedactedRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zbxarchive_run_redacted_records",
			Help: "Number of redacted records in the last snapshot",
		},
	)

	runHosts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zbxarchive_run_hosts",
			Help: "Number of hosts polled by the last run",
		},
	)

	runLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "zbxarchive_run_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		},
	)
)
