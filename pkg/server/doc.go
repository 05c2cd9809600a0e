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

// Package server implements serve mode: the exporter runs on a fixed
// interval while a small HTTP API reports health and the last run.
//
// # Scheduling
//
// The first run starts immediately, later runs follow on a ticker. Runs are
// executed by a single goroutine, so they never overlap. While a run is in
// progress at most one pending tick is held. Each run is bounded by
// Config.RunTimeout.
//
// # Endpoints
//
//	GET /              service index
//	GET /health        liveness, always 200
//	GET /ready         200 after the first successful run, 503 before
//	GET /metrics       Prometheus metrics
//	GET /v1/runs/last  status of the most recent run, 404 before any run
//
// Every response carries an X-Request-Id header (a UUID, taken from the
// request when valid). Errors use one JSON shape:
//
//	{
//	  "code": "NOT_FOUND",
//	  "message": "no export run has completed yet",
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-02T03:04:05Z",
//	  "retryable": true
//	}
//
// # Lifecycle
//
// Run coordinates the scheduler and the HTTP server with an errgroup. When
// started by systemd with Type=notify, READY=1 is sent once the listener is
// bound and STOPPING=1 when shutdown begins.
package server
