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

// Package export turns raw Zabbix items into privacy-safe records.
//
// Every Record has the fixed field set host, metric, value, units and
// timestamp. The host field is always HostMarker, regardless of the source
// host, and sensitive items (see package redact) carry RedactedMarker in
// both metric and value. All records of one run share the run timestamp
// rendered with TimestampLayout.
package export
