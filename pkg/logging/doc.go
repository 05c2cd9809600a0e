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

// Package logging provides structured logging setup for zbxarchive.
//
// It wraps the standard library slog package with project defaults:
// JSON records on stderr, a level taken from --log-level or LOG_LEVEL,
// module and version attributes on every record, and source locations
// when running at debug level.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("zbxarchive", version, "info")
//	    slog.Info("export started", "run_id", runID)
//	}
//
// Supported levels (case-insensitive): debug, info (default), warn/warning, error.
//
// Secrets must never be passed as attributes; log config.Config.Redacted()
// instead of the raw configuration.
package logging
