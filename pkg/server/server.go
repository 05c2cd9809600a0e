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

package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/zbx-archive/pkg/defaults"
	apperrors "github.com/NVIDIA/zbx-archive/pkg/errors"
	"github.com/NVIDIA/zbx-archive/pkg/logging"
	"github.com/NVIDIA/zbx-archive/pkg/snapshotter"
)

// Run status values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Runner performs one export run. *snapshotter.Exporter satisfies it.
type Runner interface {
	Run(ctx context.Context) (*snapshotter.Result, error)
}

// Config holds serve mode settings.
type Config struct {
	Name    string
	Version string

	// Address is the HTTP listen address.
	Address string
	// Interval is the time between the start of consecutive runs.
	Interval time.Duration
	// RunTimeout bounds a single run.
	RunTimeout time.Duration

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// DefaultConfig returns a Config populated from the defaults package.
func DefaultConfig() *Config {
	return &Config{
		Name:              "zbxarchive",
		Version:           "dev",
		Address:           defaults.ServeAddress,
		Interval:          defaults.ServeInterval,
		RunTimeout:        defaults.ExportRunTimeout,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}
}

// RunStatus summarizes the most recent run.
type RunStatus struct {
	RunID      string    `json:"runId,omitempty"`
	Status     string    `json:"status"`
	Timestamp  string    `json:"timestamp,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Duration   string    `json:"duration"`
	Hosts      int       `json:"hosts"`
	Records    int       `json:"records"`
	Redacted   int       `json:"redacted"`
	Files      []string  `json:"files,omitempty"`
	ErrorCode  string    `json:"errorCode,omitempty"`
	Error      string    `json:"error,omitempty"`

	// ConsecutiveFailures counts failed runs since the last success.
	ConsecutiveFailures int `json:"consecutiveFailures"`
}

// Server runs the exporter on a schedule and serves its status over HTTP.
type Server struct {
	config  *Config
	handler http.Handler
	notify  func(state string) error

	mu       sync.RWMutex
	runner   Runner
	last     *RunStatus
	ready    bool
	failures int
}

// New returns a Server. A nil config uses DefaultConfig.
func New(config *Config, runner Runner) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if runner == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "server runner is required")
	}
	if config.Interval <= 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "serve interval must be positive",
			map[string]any{"interval": config.Interval.String()})
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = defaults.ExportRunTimeout
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaults.ServerShutdownTimeout
	}

	s := &Server{
		config: config,
		runner: runner,
		notify: sdNotify,
	}
	s.handler = s.routes()
	return s, nil
}

func sdNotify(state string) error {
	_, err := daemon.SdNotify(false, state)
	return err
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// SetRunner replaces the runner used from the next run on. Serve mode calls
// it after a configuration reload.
func (s *Server) SetRunner(r Runner) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runner = r
}

// Ready reports whether a run has succeeded since startup.
func (s *Server) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// LastRun returns a copy of the most recent run status, or nil.
func (s *Server) LastRun() *RunStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	cp := *s.last
	cp.Files = append([]string(nil), s.last.Files...)
	return &cp
}

// RunOnce performs one run bounded by Config.RunTimeout and records its
// status. Failures are logged and reported, not returned: the schedule
// continues with the next tick.
func (s *Server) RunOnce(ctx context.Context) *RunStatus {
	s.mu.RLock()
	runner := s.runner
	s.mu.RUnlock()

	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	started := time.Now()
	res, err := runner.Run(runCtx)
	finished := time.Now()

	st := &RunStatus{
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Duration:   finished.Sub(started).String(),
	}

	if err != nil {
		st.Status = StatusFailure
		st.ErrorCode = string(apperrors.CodeOf(err))
		st.Error = err.Error()
	} else {
		st.Status = StatusSuccess
		if res != nil {
			st.Files = append([]string(nil), res.Files...)
			if snap := res.Snapshot; snap != nil {
				st.RunID = snap.RunID.String()
				st.Timestamp = snap.Timestamp
				st.Hosts = snap.Hosts
				st.Records = len(snap.Records)
				st.Redacted = snap.Redacted()
			}
		}
	}

	s.mu.Lock()
	if err != nil {
		s.failures++
	} else {
		s.failures = 0
		s.ready = true
	}
	st.ConsecutiveFailures = s.failures
	s.last = st
	s.mu.Unlock()

	if err != nil {
		slog.Error("scheduled export run failed",
			"error", err,
			"code", st.ErrorCode,
			"consecutive_failures", st.ConsecutiveFailures)
	} else {
		slog.Info("scheduled export run completed",
			"run_id", st.RunID,
			"records", st.Records,
			"duration", st.Duration)
	}
	return st
}

// schedule runs immediately, then on every tick until ctx is done.
func (s *Server) schedule(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			s.RunOnce(ctx)
		}
	}
}

// Run listens on Config.Address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Address)
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to listen", err,
			map[string]any{"address": s.config.Address})
	}
	return s.Serve(ctx, ln)
}

// Serve runs the scheduler and the HTTP server on ln until ctx is canceled
// or the HTTP server fails. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          logging.NewLogLogger(slog.LevelWarn, false),
	}

	slog.Info("serve mode starting",
		"address", ln.Addr().String(),
		"interval", s.config.Interval.String(),
		"run_timeout", s.config.RunTimeout.String())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "http server failed", err)
		}
		return nil
	})

	g.Go(func() error {
		s.schedule(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.notifyState(daemon.SdNotifyStopping)

		s.mu.Lock()
		s.ready = false
		s.mu.Unlock()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down http server")
		return httpServer.Shutdown(shutdownCtx)
	})

	s.notifyState(daemon.SdNotifyReady)

	err := g.Wait()

	s.mu.Lock()
	s.ready = false
	s.mu.Unlock()

	if err != nil {
		return err
	}
	slog.Info("serve mode stopped")
	return nil
}

func (s *Server) notifyState(state string) {
	if s.notify == nil {
		return
	}
	if err := s.notify(state); err != nil {
		slog.Warn("systemd notification failed", "state", state, "error", err)
	}
}
