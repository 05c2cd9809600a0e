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

package zabbix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Host is a monitored entity as returned by host.get.
// Name is the technical host name; it is never exported.
type Host struct {
	HostID string `json:"hostid"`
	Name   string `json:"host"`
}

// Item is a metric reading scoped to one host as returned by item.get.
type Item struct {
	ItemID    string `json:"itemid"`
	HostID    string `json:"hostid,omitempty"`
	Name      string `json:"name"`
	LastValue string `json:"lastvalue"`
	Units     string `json:"units"`
	LastClock Epoch  `json:"lastclock"`
}

// Epoch is a Unix timestamp in seconds. Zabbix encodes it as a JSON string;
// numbers, empty strings and null are accepted too. Zero means unknown.
type Epoch int64

// UnmarshalJSON implements json.Unmarshaler.
func (e *Epoch) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode epoch: %w", err)
		}
		if s == "" {
			*e = 0
			return nil
		}
		raw = s
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("decode epoch %q: %w", raw, err)
	}
	*e = Epoch(v)
	return nil
}

// Time returns the epoch as a UTC time. The zero Epoch yields the zero time.
func (e Epoch) Time() time.Time {
	if e == 0 {
		return time.Time{}
	}
	return time.Unix(int64(e), 0).UTC()
}

// request is a JSON-RPC 2.0 request envelope.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
}

// response is a JSON-RPC 2.0 response envelope.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      int64           `json:"id"`
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("zabbix api error %d: %s %s", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("zabbix api error %d: %s", e.Code, e.Message)
}

type loginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type hostGetParams struct {
	Output []string          `json:"output"`
	Filter map[string]string `json:"filter"`
}

type itemGetParams struct {
	Output  []string       `json:"output"`
	HostIDs string         `json:"hostids"`
	Filter  map[string]int `json:"filter"`
}
