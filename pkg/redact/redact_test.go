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

package redact

import (
	"strings"
	"testing"
)

func TestShouldRedact(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		want   bool
	}{
		{"exact host name", "Host Name", true},
		{"host name suffix", "Host Name Extended", true},
		{"ip substring", "IP Address Pool Usage", true},
		{"upper case", "SYSTEM DESCRIPTION", true},
		{"system name", "System name", true},
		{"mac address", "Interface eth0: MAC address", true},
		{"serial number", "Chassis serial number", true},
		{"redacted marker", "REDACTED", true},
		{"cpu usage", "CPU Usage", false},
		{"memory", "Available memory", false},
		{"empty", "", false},
		{"hostname without space", "Hostname", false},
		{"split words", "IP and address", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRedact(tt.metric); got != tt.want {
				t.Errorf("ShouldRedact(%q) = %v, want %v", tt.metric, got, tt.want)
			}
		})
	}
}

func TestShouldRedact_EveryDefaultField(t *testing.T) {
	for _, f := range DefaultFields {
		variants := []string{
			f,
			strings.ToUpper(f),
			"prefix " + f + " suffix",
			"x" + strings.ToUpper(f[:1]) + f[1:] + "y",
		}
		for _, v := range variants {
			if !ShouldRedact(v) {
				t.Errorf("ShouldRedact(%q) = false, want true", v)
			}
		}
	}
}

func TestShouldRedact_Idempotent(t *testing.T) {
	names := []string{"Host Name", "CPU Usage", "ip ADDRESS", ""}
	for _, n := range names {
		first := ShouldRedact(n)
		second := ShouldRedact(n)
		if first != second {
			t.Errorf("ShouldRedact(%q) not idempotent: %v then %v", n, first, second)
		}
	}
}

func TestNewPolicy_Extra(t *testing.T) {
	p := NewPolicy("  Location ", "", "HOST NAME")

	if !p.ShouldRedact("Rack location") {
		t.Error("extra field should match case-insensitively")
	}
	if !p.ShouldRedact("Host Name") {
		t.Error("default fields must stay active")
	}
	if p.ShouldRedact("CPU Usage") {
		t.Error("unrelated name should not match")
	}

	fields := p.Fields()
	if len(fields) != len(DefaultFields)+1 {
		t.Errorf("Fields() = %v, want defaults plus one extra", fields)
	}
	for i := 1; i < len(fields); i++ {
		if fields[i-1] > fields[i] {
			t.Errorf("Fields() not sorted: %v", fields)
		}
	}
}

func TestPolicy_NilUsesDefault(t *testing.T) {
	var p *Policy
	if !p.ShouldRedact("Serial Number") {
		t.Error("nil policy should apply defaults")
	}
}
