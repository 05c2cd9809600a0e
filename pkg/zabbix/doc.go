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

// Package zabbix is a minimal client for the Zabbix JSON-RPC API.
//
// It implements the three calls an export run needs:
//
//	user.login   exchange a user name and password for a session token
//	host.get     list enabled hosts
//	item.get     list the enabled, supported items of one host
//
// Every call is bounded by a timeout. Config.Timeout is required; login uses
// Config.LoginTimeout. An optional Config.RequestInterval paces calls with a
// token bucket; there is no retry.
//
// Usage:
//
//	client, err := zabbix.NewClient(zabbix.Config{
//	    URL:      "https://zabbix.example.com/api_jsonrpc.php",
//	    User:     "reader",
//	    Password: os.Getenv("ZABBIX_PASSWORD"),
//	    Timeout:  defaults.APIRequestTimeout,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := client.Login(ctx); err != nil {
//	    return err
//	}
//	hosts, err := client.Hosts(ctx)
//
// Errors are *errors.StructuredError values: transport failures are
// SERVICE_UNAVAILABLE, deadlines TIMEOUT, HTTP 401/403 UNAUTHORIZED, and a
// JSON-RPC error member or an unreadable body UPSTREAM_ERROR.
package zabbix
