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

// Package cli implements the zbxarchive command line.
//
// Configuration precedence, lowest first: defaults, --config file, environment
// variables, flags. Secrets are only taken from the environment
// (ZABBIX_PASSWORD, ZABBIX_API_TOKEN) or from variables the config file names.
//
// Commands:
//
//	export   one run, then exit (default when no command is given)
//	serve    periodic runs plus /health, /ready, /metrics, /v1/runs/last
//	redact   print the redaction verdict for metric names
//	version  print build information
//
// Exit status is 0 on success and 1 on any error.
package cli
