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

// Package summary renders the README that accompanies the metrics archive.
//
// The summary states that sensitive fields are redacted, when the archive was
// last updated (UTC, to the minute), how many records the last run produced,
// how often the archive is refreshed, and the shape of one record.
//
// Generate is deterministic: the generation time is an argument, not a clock
// read.
//
//	content := summary.Generate(len(records), time.Now())
//	if err := summary.Write("README.md", content); err != nil {
//	    return err
//	}
package summary
