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

// Package redact decides which Zabbix item names are sensitive.
//
// A name is sensitive when, lower-cased, it contains any of DefaultFields
// (or an operator-supplied extra field) as a substring. The decision is
// binary per name: a sensitive item has both its name and its value replaced
// by the export package.
//
//	redact.ShouldRedact("IP Address Pool Usage") // true
//	redact.ShouldRedact("CPU Usage")             // false
package redact
