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
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/NVIDIA/zbx-archive/pkg/export"
)

// Format represents the output format type
type Format string

const (
	// FormatJSON outputs records as an indented JSON array
	FormatJSON Format = "json"
	// FormatCSV outputs records as CSV with a header row
	FormatCSV Format = "csv"
	// FormatParquet outputs records as a single Parquet row group
	FormatParquet Format = "parquet"
)

// DefaultFormats are written by every export run unless configured otherwise.
var DefaultFormats = []Format{FormatJSON, FormatCSV}

func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatParquet:
		return false
	default:
		return true
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// SupportedFormats returns a list of all supported output formats
// for serialization.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatCSV),
		string(FormatParquet),
	}
}

// ParseFormats converts names into formats, rejecting unknown names and
// dropping duplicates while keeping order.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]struct{}, len(names))
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f := Format(n)
		if f.IsUnknown() {
			return nil, fmt.Errorf("unknown format %q, supported: %v", n, SupportedFormats())
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

// Writer handles serialization of records to an io.Writer.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewWriter creates a new Writer with the specified format and output destination.
// If output is nil, os.Stdout will be used.
// If format is unknown, defaults to JSON format.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	var closer io.Closer
	if c, ok := output.(io.Closer); ok && output != os.Stdout {
		closer = c
	}
	return &Writer{
		format: format,
		output: output,
		closer: closer,
	}
}

// Close releases any resources associated with the Writer.
// It's safe to call Close on stdout-based writers.
func (w *Writer) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// Serialize writes records in the configured format.
// Context is provided for consistency with the Serializer interface.
func (w *Writer) Serialize(ctx context.Context, records []export.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(w.format, records)
	if err != nil {
		return err
	}
	if _, err := w.output.Write(data); err != nil {
		return fmt.Errorf("failed to write %s output: %w", w.format, err)
	}
	return nil
}

// Marshal renders records in format. Field order is always export.Columns.
func Marshal(format Format, records []export.Record) ([]byte, error) {
	if records == nil {
		records = []export.Record{}
	}
	switch format {
	case FormatJSON:
		return marshalJSON(records)
	case FormatCSV:
		return marshalCSV(records)
	case FormatParquet:
		return marshalParquet(records)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func marshalJSON(records []export.Record) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalCSV(records []export.Record) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(export.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return nil, fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to serialize to CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalParquet(records []export.Record) ([]byte, error) {
	var buf bytes.Buffer
	pw := parquet.NewGenericWriter[export.Record](&buf)
	if _, err := pw.Write(records); err != nil {
		return nil, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize to parquet: %w", err)
	}
	return buf.Bytes(), nil
}
