// Copyright 2026 Blink Labs Software
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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/chaincore/database"
	"github.com/blinklabs-io/chaincore/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// session holds a database opened for a single command
type session struct {
	db              *database.Database
	logger          *slog.Logger
	registry        *prometheus.Registry
	metricsFile     string
	shutdownTracing func(context.Context) error
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, errors.New("no config found in context")
	}
	level, err := cfg.ZstdLevel()
	if err != nil {
		return nil, err
	}
	provider, shutdown, err := setupTracing(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	logger := slog.Default()
	registry := prometheus.NewRegistry()
	db, err := database.New(
		database.WithLogger(logger),
		database.WithPromRegistry(registry),
		database.WithTracerProvider(provider),
		database.WithDataDir(cfg.DatabasePath),
		database.WithBlockCacheSize(cfg.BlockCacheSize),
		database.WithIndexCacheSize(cfg.IndexCacheSize),
		database.WithGc(cfg.GcEnabled),
		database.WithCompressionLevel(level),
		database.WithEvm(cfg.EnableEvm),
	)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		_ = shutdown(cmd.Context())
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &session{
		db:              db,
		logger:          logger,
		registry:        registry,
		metricsFile:     cfg.MetricsFile,
		shutdownTracing: shutdown,
	}, nil
}

// Close closes the database, flushes spans and writes the metrics file
func (s *session) Close(ctx context.Context) error {
	err := s.db.Close()
	err = errors.Join(err, s.shutdownTracing(ctx))
	if s.metricsFile != "" {
		if writeErr := prometheus.WriteToTextfile(s.metricsFile, s.registry); writeErr != nil {
			err = errors.Join(err, fmt.Errorf("write metrics file: %w", writeErr))
		}
	}
	if err != nil {
		s.logger.Error(
			"failed to close session",
			"component", programName,
			"error", err,
		)
	}
	return err
}

// withSession runs fn against an open database and closes it afterwards
func withSession(cmd *cobra.Command, fn func(*session) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	runErr := fn(s)
	closeErr := s.Close(context.WithoutCancel(cmd.Context()))
	return errors.Join(runErr, closeErr)
}
