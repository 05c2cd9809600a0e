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

package snapshotter

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/zbx-archive/pkg/errors"
	"github.com/NVIDIA/zbx-archive/pkg/export"
	"github.com/NVIDIA/zbx-archive/pkg/publisher"
	"github.com/NVIDIA/zbx-archive/pkg/serializer"
	"github.com/NVIDIA/zbx-archive/pkg/summary"
)

// Exporter performs export runs: it polls the monitoring API, maps and
// redacts every item, writes the snapshot files and the summary, and hands
// the files to the publisher.
type Exporter struct {
	// Source is the monitoring API. Required.
	Source Source

	// Mapper converts items into records. If nil, the default redaction policy is used.
	Mapper *export.Mapper

	// OutputDir receives <timestamp>.<ext> for every format.
	OutputDir string

	// SummaryPath is where the summary is written. Empty skips the summary.
	SummaryPath string

	// RepoPath is passed through to the publisher.
	RepoPath string

	// Formats are the snapshot formats to write. If empty, serializer.DefaultFormats.
	Formats []serializer.Format

	// Publisher receives the files. If nil, publishing is skipped.
	Publisher publisher.Publisher

	// Login calls Source.Login before reading.
	Login bool

	// Clock returns the run time. If nil, time.Now.
	Clock func() time.Time

	// UpdateFrequency is stated in the summary. If empty, summary.DefaultUpdateFrequency.
	UpdateFrequency string
}

// Run performs one export run. Any failure aborts the run and is returned as
// a *errors.StructuredError; files written before a publish failure stay on disk.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	if e.Source == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "exporter source is required")
	}

	start := time.Now()
	res, err := e.run(ctx)
	elapsed := time.Since(start)
	runDuration.Observe(elapsed.Seconds())

	if err != nil {
		runTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	res.Duration = elapsed
	runTotal.WithLabelValues("success").Inc()
	runLastSuccess.SetToCurrentTime()
	return res, nil
}

func (e *Exporter) run(ctx context.Context) (*Result, error) {
	clock := e.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()

	snap := &Snapshot{
		RunID:       uuid.New(),
		Timestamp:   export.FormatTimestamp(now),
		GeneratedAt: now,
	}
	log := slog.With("run_id", snap.RunID.String(), "timestamp", snap.Timestamp)
	log.Info("export run started")

	if err := e.collect(ctx, log, snap); err != nil {
		return nil, err
	}

	runRecords.Set(float64(len(snap.Records)))
	runRedactedRecords.Set(float64(snap.Redacted()))
	runHosts.Set(float64(snap.Hosts))

	formats := e.Formats
	if len(formats) == 0 {
		formats = serializer.DefaultFormats
	}

	stage := time.Now()
	files, err := serializer.WriteSnapshot(ctx, e.OutputDir, snap.Timestamp, snap.Records, formats...)
	runStageDuration.WithLabelValues("write").Observe(time.Since(stage).Seconds())
	if err != nil {
		log.Error("failed to write snapshot", "error", err)
		return nil, err
	}

	if e.SummaryPath != "" {
		stage = time.Now()
		err = e.writeSummary(snap, formats)
		runStageDuration.WithLabelValues("summary").Observe(time.Since(stage).Seconds())
		if err != nil {
			log.Error("failed to write summary", "error", err)
			return nil, err
		}
		files = append(files, e.SummaryPath)
	}

	if e.Publisher == nil {
		log.Info("publishing disabled, files left in place", "files", files)
	} else {
		stage = time.Now()
		err = e.Publisher.Publish(ctx, publisher.Artifacts{
			Timestamp:   snap.Timestamp,
			GeneratedAt: snap.GeneratedAt,
			RepoPath:    e.RepoPath,
			Files:       files,
		})
		runStageDuration.WithLabelValues("publish").Observe(time.Since(stage).Seconds())
		if err != nil {
			log.Error("failed to publish snapshot", "publisher", e.Publisher.Name(), "error", err)
			return nil, wrapKeepCode("failed to publish snapshot", err)
		}
	}

	log.Info("export run complete",
		slog.Int("hosts", snap.Hosts),
		slog.Int("records", len(snap.Records)),
		slog.Int("redacted", snap.Redacted()),
		slog.Int("files", len(files)))

	return &Result{Snapshot: snap, Files: files}, nil
}

// collect reads every enabled host and its items sequentially.
func (e *Exporter) collect(ctx context.Context, log *slog.Logger, snap *Snapshot) error {
	start := time.Now()
	defer func() {
		runStageDuration.WithLabelValues("collect").Observe(time.Since(start).Seconds())
	}()

	if e.Login {
		if err := e.Source.Login(ctx); err != nil {
			log.Error("login failed", "error", err)
			return wrapKeepCode("failed to authenticate", err)
		}
	}

	hosts, err := e.Source.Hosts(ctx)
	if err != nil {
		log.Error("failed to list hosts", "error", err)
		return wrapKeepCode("failed to list hosts", err)
	}
	snap.Hosts = len(hosts)
	log.Debug("hosts listed", slog.Int("count", len(hosts)))

	mapper := e.Mapper
	if mapper == nil {
		mapper = export.NewMapper(nil)
	}

	records := make([]export.Record, 0)
	for _, h := range hosts {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeTimeout, "export run canceled", err)
		}
		items, err := e.Source.Items(ctx, h.HostID)
		if err != nil {
			log.Error("failed to list items", "host_id", h.HostID, "error", err)
			return errors.WrapWithContext(errors.CodeOf(err), "failed to list items", err,
				map[string]any{"host_id": h.HostID})
		}
		records = append(records, mapper.MapAll(items, snap.Timestamp)...)
		log.Debug("items collected", "host_id", h.HostID, slog.Int("count", len(items)))
	}
	snap.Records = records
	return nil
}

func (e *Exporter) writeSummary(snap *Snapshot, formats []serializer.Format) error {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}

	content, err := summary.GenerateWithOptions(summary.Options{
		RecordCount:     len(snap.Records),
		GeneratedAt:     snap.GeneratedAt,
		UpdateFrequency: e.UpdateFrequency,
		Formats:         names,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to render summary", err)
	}
	if err := summary.Write(e.SummaryPath, content); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write summary", err,
			map[string]any{"path": e.SummaryPath})
	}
	return nil
}

// wrapKeepCode adds a message while preserving the code of err.
func wrapKeepCode(message string, err error) error {
	return errors.Wrap(errors.CodeOf(err), message, err)
}
