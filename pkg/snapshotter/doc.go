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

// Package snapshotter orchestrates export runs.
//
// One run, strictly sequential:
//
//  1. optionally authenticate against the monitoring API
//  2. list enabled hosts
//  3. list the enabled items of each host
//  4. map every item to a redacted export record sharing the run timestamp
//  5. write <output>/<timestamp>.json and .csv (and .parquet when enabled)
//  6. write the summary README
//  7. hand the files to the publisher
//
// The first failure aborts the run. Errors are *errors.StructuredError values
// whose code reflects the failing stage.
//
// Usage:
//
//	exp := &snapshotter.Exporter{
//	    Source:      client,
//	    OutputDir:   "data",
//	    SummaryPath: "README.md",
//	    RepoPath:    "/dghc",
//	    Publisher:   publisher.NewGit("/dghc", "origin", "main"),
//	}
//	res, err := exp.Run(ctx)
//
// Run metrics are registered with the default Prometheus registry; one-shot
// runs can forward them with PushMetrics.
package snapshotter
