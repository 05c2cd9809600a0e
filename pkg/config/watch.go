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

package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and calls onChange with the newly loaded Config each
// time the file changes. It runs until ctx is canceled.
//
// The parent directory is watched so atomic saves and Kubernetes ConfigMap
// volume updates (a ..data symlink swap) are seen. Each reload applies the
// environment the same way startup does. Command line overrides, path
// resolution and validation are left to onChange; an error it returns is
// logged as a rejected reload. A file that fails to load never reaches
// onChange.
func Watch(ctx context.Context, path string, onChange func(*Config) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	slog.Info("watching config for changes", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, abs) {
				continue
			}

			cfg, err := Load(abs)
			if err != nil {
				slog.Error("config reload failed, keeping previous config", "path", abs, "error", err)
				continue
			}
			cfg.ApplyEnv()

			if err := onChange(cfg); err != nil {
				slog.Error("config reload rejected, keeping previous config", "path", abs, "error", err)
				continue
			}
			slog.Info("config reloaded", "path", abs)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config watcher error", "error", err)
		}
	}
}

func relevant(event fsnotify.Event, path string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == path || filepath.Base(name) == "..data"
}
