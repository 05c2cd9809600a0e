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

package summary

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NVIDIA/zbx-archive/pkg/export"
)

var testTime = time.Date(2024, 5, 21, 12, 7, 45, 0, time.UTC)

func TestGenerate(t *testing.T) {
	got := Generate(42, testTime)

	wantLines := []string{
		"# Zabbix Metrics Archive",
		"⚠️ **Note**: Sensitive fields like hostnames and system descriptions are redacted.",
		"- Last Updated: 2024-05-21 12:07 UTC",
		"- Total Metrics Collected: 42",
		"- Update Frequency: Every 3 hours",
		"```json",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("summary missing line %q:\n%s", line, got)
		}
	}
	if strings.Contains(got, "Formats:") {
		t.Error("formats line should be omitted by default")
	}
	if !strings.HasPrefix(got, "# Zabbix Metrics Archive\n") {
		t.Errorf("unexpected start:\n%s", got)
	}
}

func TestGenerate_ZeroRecords(t *testing.T) {
	got := Generate(0, testTime)
	if !strings.Contains(got, "- Total Metrics Collected: 0\n") {
		t.Errorf("expected zero count:\n%s", got)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	if Generate(7, testTime) != Generate(7, testTime) {
		t.Error("Generate is not deterministic")
	}
}

func TestGenerate_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got := Generate(1, time.Date(2024, 5, 21, 14, 7, 0, 0, loc))
	if !strings.Contains(got, "- Last Updated: 2024-05-21 12:07 UTC\n") {
		t.Errorf("expected UTC time:\n%s", got)
	}
}

func TestGenerate_ExampleRecord(t *testing.T) {
	got := Generate(1, testTime)

	start := strings.Index(got, "```json\n")
	end := strings.LastIndex(got, "```")
	if start < 0 || end <= start {
		t.Fatalf("no example block:\n%s", got)
	}
	block := got[start+len("```json\n") : end]

	var rec export.Record
	if err := json.Unmarshal([]byte(block), &rec); err != nil {
		t.Fatalf("example is not a record: %v\n%s", err, block)
	}
	if rec != ExampleRecord {
		t.Errorf("example = %+v, want %+v", rec, ExampleRecord)
	}
	if rec.Host != export.HostMarker {
		t.Errorf("example host = %q", rec.Host)
	}
}

func TestGenerateWithOptions(t *testing.T) {
	got, err := GenerateWithOptions(Options{
		RecordCount:     1234567,
		GeneratedAt:     testTime,
		UpdateFrequency: "Every 30 minutes",
		Formats:         []string{"json", "csv"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range []string{
		"- Total Metrics Collected: 1,234,567",
		"- Update Frequency: Every 30 minutes",
		"- Formats: json, csv",
	} {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("summary missing line %q:\n%s", line, got)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
	}
	for n, want := range tests {
		if got := FormatCount(n); got != want {
			t.Errorf("FormatCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestDescribeInterval(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, DefaultUpdateFrequency},
		{3 * time.Hour, "Every 3 hours"},
		{time.Hour, "Every hour"},
		{30 * time.Minute, "Every 30 minutes"},
		{time.Minute, "Every minute"},
		{90 * time.Second, "Every 1m30s"},
	}
	for _, tt := range tests {
		if got := DescribeInterval(tt.in); got != tt.want {
			t.Errorf("DescribeInterval(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive", "README.md")
	content := Generate(3, testTime)

	if err := Write(path, content); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Error("written content differs")
	}

	// overwritten each run
	if err := Write(path, "second"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content = %q, want overwrite", data)
	}
}
