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

// Package publisher hands the files of an export run to their destinations.
//
// Publishers:
//   - Git: add, commit "Zabbix metrics update: <timestamp>", pull --rebase, push.
//     Every exit status is checked and a failure carries the command output.
//   - OCI: pushes the files as one OCI artifact tagged with the run timestamp.
//   - ConfigMap: server-side applies the latest files to a Kubernetes ConfigMap.
//
// Chain runs several publishers in order and stops at the first failure:
//
//	pub := publisher.Chain{
//	    publisher.NewGit("/dghc", "origin", "main"),
//	    &publisher.OCI{Registry: "ghcr.io", Repository: "nvidia/zabbix-archive"},
//	}
//	err := pub.Publish(ctx, publisher.Artifacts{
//	    Timestamp: "2024-05-21_12-00",
//	    RepoPath:  "/dghc",
//	    Files:     []string{"data/2024-05-21_12-00.json", "data/2024-05-21_12-00.csv", "README.md"},
//	})
//
// Failures are *errors.StructuredError values with code PUBLISH_FAILED, or
// INVALID_REQUEST when the publisher is misconfigured.
package publisher
