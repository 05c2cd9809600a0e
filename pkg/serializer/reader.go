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
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/NVIDIA/zbx-archive/pkg/export"
)

// FormatFromPath determines the serialization format based on file extension.
// Extension matching is case-insensitive.
func FormatFromPath(filePath string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	f := Format(ext)
	if f.IsUnknown() {
		return "", fmt.Errorf("cannot infer format from %q, supported: %v", filePath, SupportedFormats())
	}
	return f, nil
}

// Unmarshal is the inverse of Marshal.
func Unmarshal(format Format, data []byte) ([]export.Record, error) {
	switch format {
	case FormatJSON:
		return unmarshalJSON(data)
	case FormatCSV:
		return unmarshalCSV(data)
	case FormatParquet:
		return unmarshalParquet(data)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ReadFile loads a snapshot file, inferring the format from its extension.
func ReadFile(path string) ([]export.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	records, err := Unmarshal(format, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return records, nil
}

func unmarshalJSON(data []byte) ([]export.Record, error) {
	records := []export.Record{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to deserialize JSON: %w", err)
	}
	if records == nil {
		records = []export.Record{}
	}
	return records, nil
}

func unmarshalCSV(data []byte) ([]export.Record, error) {
	data, sentinel, err := protectQuotedCR(data)
	if err != nil {
		return nil, err
	}
	restore := func(field string) string {
		if sentinel == "" {
			return field
		}
		return strings.ReplaceAll(field, sentinel, "\r")
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = len(export.Columns)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("CSV input has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, col := range export.Columns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected CSV header %v, want %v", header, export.Columns)
		}
	}

	records := []export.Record{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		records = append(records, export.Record{
			Host:      restore(row[0]),
			Metric:    restore(row[1]),
			Value:     restore(row[2]),
			Units:     restore(row[3]),
			Timestamp: restore(row[4]),
		})
	}
	return records, nil
}

// protectQuotedCR replaces carriage returns inside quoted fields with a rune
// absent from data. csv.Reader folds a quoted "\r\n" into "\n", so the
// caller swaps the sentinel back after parsing. Carriage returns outside
// quotes are record terminators and stay as they are.
func protectQuotedCR(data []byte) ([]byte, string, error) {
	if bytes.IndexByte(data, '\r') < 0 {
		return data, "", nil
	}

	var sentinel string
	for r := rune(0xE000); r <= 0xF8FF; r++ {
		if !bytes.ContainsRune(data, r) {
			sentinel = string(r)
			break
		}
	}
	if sentinel == "" {
		return nil, "", errors.New("CSV input exhausts the private use area")
	}

	out := make([]byte, 0, len(data)+8)
	quoted := false
	replaced := false
	for _, b := range data {
		switch {
		case b == '"':
			quoted = !quoted
			out = append(out, b)
		case b == '\r' && quoted:
			out = append(out, sentinel...)
			replaced = true
		default:
			out = append(out, b)
		}
	}
	if !replaced {
		return data, "", nil
	}
	return out, sentinel, nil
}

func unmarshalParquet(data []byte) ([]export.Record, error) {
	records, err := parquet.Read[export.Record](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize parquet: %w", err)
	}
	if records == nil {
		records = []export.Record{}
	}
	return records, nil
}
