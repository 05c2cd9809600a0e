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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NVIDIA/zbx-archive/pkg/errors"
	"github.com/NVIDIA/zbx-archive/pkg/export"
)

// rename is swapped in tests to simulate a failing filesystem.
var rename = os.Rename

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// WriteSnapshot writes records to <dir>/<name>.<ext> for every format and
// returns the written paths in format order.
//
// All formats are rendered and written to temporary files first; the final
// names appear only once every temporary file is complete. On error neither
// temporary files nor final files renamed by this call are left behind.
func WriteSnapshot(ctx context.Context, dir, name string, records []export.Record, formats ...Format) ([]string, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"snapshot name must be a plain file name", map[string]any{"name": name})
	}
	if len(formats) == 0 {
		formats = DefaultFormats
	}

	rendered := make([][]byte, len(formats))
	for i, f := range formats {
		data, err := Marshal(f, records)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInternal,
				"failed to render snapshot", err, map[string]any{"format": string(f)})
		}
		rendered[i] = data
	}

	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to create output directory", err, map[string]any{"dir": dir})
	}

	temps := make([]string, 0, len(formats))
	cleanup := func() {
		for _, t := range temps {
			if err := os.Remove(t); err != nil && !os.IsNotExist(err) {
				slog.Warn("failed to remove temporary snapshot file", "path", t, "error", err)
			}
		}
	}

	for i, f := range formats {
		if err := ctx.Err(); err != nil {
			cleanup()
			return nil, errors.Wrap(errors.ErrCodeTimeout, "snapshot write canceled", err)
		}
		tmp, err := writeTemp(dir, name+f.Extension(), rendered[i])
		if tmp != "" {
			temps = append(temps, tmp)
		}
		if err != nil {
			cleanup()
			return nil, errors.WrapWithContext(errors.ErrCodeInternal,
				"failed to write snapshot", err, map[string]any{"format": string(f), "dir": dir})
		}
	}

	paths := make([]string, 0, len(formats))
	for i, f := range formats {
		final := filepath.Join(dir, name+f.Extension())
		if err := rename(temps[i], final); err != nil {
			cleanup()
			for _, p := range paths {
				if rmErr := os.Remove(p); rmErr != nil && !os.IsNotExist(rmErr) {
					slog.Warn("failed to remove partial snapshot file", "path", p, "error", rmErr)
				}
			}
			return nil, errors.WrapWithContext(errors.ErrCodeInternal,
				"failed to publish snapshot file", err, map[string]any{"path": final})
		}
		paths = append(paths, final)
	}

	slog.Debug("snapshot written", "dir", dir, "name", name, "records", len(records), "files", len(paths))
	return paths, nil
}

// writeTemp writes data to a new temporary file in dir and returns its path.
// The path is returned whenever the file was created, even on error.
func writeTemp(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+pattern+".*.tmp")
	if err != nil {
		return "", err
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return path, err
	}
	if err := f.Chmod(fileMode); err != nil {
		f.Close()
		return path, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return path, err
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
