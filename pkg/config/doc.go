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

// Package config loads the zbxarchive configuration.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables, command line flags. Example file:
//
//	zabbix:
//	  url: https://zabbix.example.com/api_jsonrpc.php
//	  user: reader
//	  password_env: ZABBIX_PASSWORD
//	  timeout: 30s
//	  login: true
//	output:
//	  dir: data
//	  summary: README.md
//	  formats: [json, csv]
//	redact:
//	  extra_fields: [location]
//	publish:
//	  git:
//	    enabled: true
//	    repo_path: /dghc
//	  oci:
//	    enabled: false
//	metrics:
//	  pushgateway_url: http://pushgateway:9091
//	serve:
//	  address: ":8080"
//	  interval: 3h
//
// Secrets are only read from the environment. Use Redacted before logging a
// Config.
package config
