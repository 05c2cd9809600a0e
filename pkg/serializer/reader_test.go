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

package serializer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NVIDIA/zbx-archive/pkg/export"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
		wantErr  bool
	}{
		{name: "json lowercase", path: "2024-05-21_12-00.json", expected: FormatJSON},
		{name: "json uppercase", path: "SNAPSHOT.JSON", expected: FormatJSON},
		{name: "csv", path: "data/2024-05-21_12-00.csv", expected: FormatCSV},
		{name: "parquet", path: "/archive/x.parquet", expected: FormatParquet},
		{name: "unknown extension", path: "file.unknown", wantErr: true},
		{name: "no extension", path: "filename", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("FormatFromPath(%q) expected error, got %v", tt.path, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, result, tt.expected)
			}
		})
	}
}

func assertRecordsEqual(t *testing.T, got, want []export.Record) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatCSV, FormatParquet} {
		t.Run(string(f), func(t *testing.T) {
			in := sampleRecords()
			data, err := Marshal(f, in)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			out, err := Unmarshal(f, data)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			assertRecordsEqual(t, out, in)
		})
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatCSV, FormatParquet} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(f, nil)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			out, err := Unmarshal(f, data)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if out == nil || len(out) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", out)
			}
		})
	}
}

func TestJSONAndCSVAgree(t *testing.T) {
	in := sampleRecords()
	jsonData, err := Marshal(FormatJSON, in)
	if err != nil {
		t.Fatal(err)
	}
	csvData, err := Marshal(FormatCSV, in)
	if err != nil {
		t.Fatal(err)
	}

	fromJSON, err := Unmarshal(FormatJSON, jsonData)
	if err != nil {
		t.Fatal(err)
	}
	fromCSV, err := Unmarshal(FormatCSV, csvData)
	if err != nil {
		t.Fatal(err)
	}
	assertRecordsEqual(t, fromCSV, fromJSON)
}

func TestUnmarshal_CSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty input", ""},
		{"wrong header", "host,name,value,units,timestamp\n"},
		{"short header", "host,metric,value\n"},
		{"short row", "host,metric,value,units,timestamp\na,b,c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal(FormatCSV, []byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUnmarshal_JSONErrors(t *testing.T) {
	for _, data := range []string{"", "{}", `[{"host":1}]`, "not json"} {
		if _, err := Unmarshal(FormatJSON, []byte(data)); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestUnmarshal_UnsupportedFormat(t *testing.T) {
	if _, err := Unmarshal(Format("table"), []byte("x")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, testTS+".csv")
	data, err := Marshal(FormatCSV, sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	assertRecordsEqual(t, got, sampleRecords())

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := ReadFile(filepath.Join(dir, "snapshot.txt")); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestCSVRoundTrip_ControlCharacters(t *testing.T) {
	values := []struct {
		name  string
		value string
	}{
		{name: "crlf", value: "line1\r\nline2"},
		{name: "lone cr", value: "line1\rline2"},
		{name: "trailing crlf", value: "done\r\n"},
		{name: "trailing cr", value: "done\r"},
		{name: "comma", value: "a, b"},
		{name: "quotes", value: `say "hi"`},
		{name: "leading space", value: "  padded"},
		{name: "private use rune", value: "\uE000\r\n\uE001"},
	}

	for _, tt := range values {
		t.Run(tt.name, func(t *testing.T) {
			in := []export.Record{
				{Host: "web-01", Metric: "Event log", Value: tt.value, Units: "", Timestamp: "2024-05-21_12-00"},
				{Host: "web-02", Metric: "Agent\r\nname", Value: "ok", Units: "\r", Timestamp: "2024-05-21_12-00"},
			}

			csvData, err := Marshal(FormatCSV, in)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			fromCSV, err := Unmarshal(FormatCSV, csvData)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			assertRecordsEqual(t, fromCSV, in)

			jsonData, err := Marshal(FormatJSON, in)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			fromJSON, err := Unmarshal(FormatJSON, jsonData)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			assertRecordsEqual(t, fromCSV, fromJSON)
		})
	}
}

func TestUnmarshal_CSVWithCRLFTerminators(t *testing.T) {
	data := "host,metric,value,units,timestamp\r\n" +
		"web-01,CPU,\"a\r\nb\",%,2024-05-21_12-00\r\n"

	out, err := Unmarshal(FormatCSV, []byte(data))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := []export.Record{{Host: "web-01", Metric: "CPU", Value: "a\r\nb", Units: "%", Timestamp: "2024-05-21_12-00"}}
	assertRecordsEqual(t, out, want)
}
