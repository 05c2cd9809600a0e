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
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/NVIDIA/zbx-archive/pkg/export"
)

// DefaultUpdateFrequency describes the schedule of a one-shot deployment
// driven by an external scheduler.
const DefaultUpdateFrequency = "Every 3 hours"

// lastUpdatedLayout renders the generation time to the minute.
const lastUpdatedLayout = "2006-01-02 15:04"

//go:embed templates/README.md.tmpl
var readmeTemplate string

var tmpl = template.Must(template.New("README.md").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(readmeTemplate))

// ExampleRecord is the illustrative record shown in the summary.
var ExampleRecord = export.Record{
	Host:      export.HostMarker,
	Metric:    "CPU Usage",
	Value:     "12.5",
	Units:     "%",
	Timestamp: "2024-05-21_12-00",
}

// Options controls GenerateWithOptions.
type Options struct {
	RecordCount     int
	GeneratedAt     time.Time
	UpdateFrequency string   // empty means DefaultUpdateFrequency
	Formats         []string // listed when non-empty
}

// Generate renders the archive summary for a run that produced recordCount
// records at generatedAt.
func Generate(recordCount int, generatedAt time.Time) string {
	return must(GenerateWithOptions(Options{
		RecordCount: recordCount,
		GeneratedAt: generatedAt,
	}))
}

// GenerateWithOptions renders the archive summary. The output depends only on opts.
func GenerateWithOptions(opts Options) (string, error) {
	freq := opts.UpdateFrequency
	if freq == "" {
		freq = DefaultUpdateFrequency
	}

	example, err := json.MarshalIndent(ExampleRecord, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render example record: %w", err)
	}

	data := struct {
		LastUpdated     string
		Count           string
		UpdateFrequency string
		Formats         []string
		Example         string
	}{
		LastUpdated:     opts.GeneratedAt.UTC().Format(lastUpdatedLayout),
		Count:           FormatCount(opts.RecordCount),
		UpdateFrequency: freq,
		Formats:         opts.Formats,
		Example:         string(example),
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render README.md: %w", err)
	}
	return buf.String(), nil
}

// FormatCount renders n with English digit grouping, e.g. 12,345.
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// DescribeInterval turns a schedule interval into an update frequency
// statement such as "Every 3 hours".
func DescribeInterval(d time.Duration) string {
	switch {
	case d <= 0:
		return DefaultUpdateFrequency
	case d == time.Hour:
		return "Every hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("Every %d hours", d/time.Hour)
	case d == time.Minute:
		return "Every minute"
	case d%time.Minute == 0:
		return fmt.Sprintf("Every %d minutes", d/time.Minute)
	default:
		return "Every " + d.String()
	}
}

// Write stores content at path, creating the parent directory if needed.
func Write(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func must(s string, err error) string {
	if err != nil {
		panic(err)
	}
	return s
}
