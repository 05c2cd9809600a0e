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

package defaults

// Output locations relative to the repository working tree.
const (
	// OutputDir holds the per-run JSON and CSV snapshots.
	OutputDir = "data"

	// SummaryFile is the README overwritten by every run.
	SummaryFile = "README.md"

	// RepoPath is the local clone the git publisher commits into.
	RepoPath = "/dghc"

	// GitRemote and GitBranch are the pull/push target.
	GitRemote = "origin"
	GitBranch = "main"

	// ServeAddress is the listen address for serve mode.
	ServeAddress = ":8080"

	// PushgatewayJob is the job label used when pushing run metrics.
	PushgatewayJob = "zbxarchive"
)
