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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLogger_Attributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "zbxarchive", "v1.2.3", slog.LevelInfo)

	logger.Info("run complete", "records", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["module"] != "zbxarchive" {
		t.Errorf("module = %v", entry["module"])
	}
	if entry["version"] != "v1.2.3" {
		t.Errorf("version = %v", entry["version"])
	}
	if entry["msg"] != "run complete" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if _, ok := entry["source"]; ok {
		t.Error("source should only be present at debug level")
	}
}

func TestNewLogger_DebugFiltered(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "zbxarchive", "dev", slog.LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %s", buf.String())
	}
}

func TestSetDefaultStructuredLoggerWithLevel_EnvFallback(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv(EnvLogLevel, "error")
	SetDefaultStructuredLoggerWithLevel("zbxarchive", "dev", "")

	if slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be disabled when LOG_LEVEL=error")
	}
}
