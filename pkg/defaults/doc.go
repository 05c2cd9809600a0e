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

// Package defaults provides centralized configuration constants for zbxarchive.
//
// This package defines timeout values and default locations used across the
// codebase. Centralizing these values keeps the CLI, the serve loop and the
// publishers consistent.
//
// # Timeout Categories
//
//   - API timeouts: every Zabbix JSON-RPC call is bounded
//   - Run timeouts: upper bound for a complete export and the serve interval
//   - Publisher timeouts: git, OCI and ConfigMap operations
//   - Server timeouts: serve mode HTTP endpoint
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.GitCommandTimeout)
//	defer cancel()
package defaults
