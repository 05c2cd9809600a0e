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

import "time"

// Zabbix API timeouts. Every outbound call is bounded; there is no unbounded request.
const (
	// APILoginTimeout bounds the user.login call.
	APILoginTimeout = 10 * time.Second

	// APIRequestTimeout bounds host.get and item.get calls.
	APIRequestTimeout = 30 * time.Second

	// APIRequestInterval is the default minimum spacing between API requests.
	// Zero disables pacing.
	APIRequestInterval time.Duration = 0
)

// Run timeouts for a complete export.
const (
	// ExportRunTimeout is the upper bound for one export run, including publish.
	ExportRunTimeout = 15 * time.Minute

	// ServeInterval is the default interval between runs in serve mode.
	ServeInterval = 3 * time.Hour
)

// Publisher timeouts.
const (
	// GitCommandTimeout bounds each git invocation (pull, add, commit, push).
	GitCommandTimeout = 2 * time.Minute

	// OCIPushTimeout bounds a snapshot push to an OCI registry.
	OCIPushTimeout = 5 * time.Minute

	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second

	// PushgatewayTimeout bounds the metrics push at the end of a run.
	PushgatewayTimeout = 10 * time.Second
)

// Server timeouts for the serve mode HTTP endpoint.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)
