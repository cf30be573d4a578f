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

// Package metadata indexes stored blocks and snapshots in sqlite
package metadata

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// DefaultVacuumInterval is the delay between two VACUUM runs on a
// disk-backed store
const DefaultVacuumInterval = 24 * time.Hour

// Store is the sqlite index. Without a data directory the database lives
// in memory only.
type Store struct {
	db             *gorm.DB
	logger         *slog.Logger
	timerVacuum    *time.Timer
	timerMutex     sync.Mutex
	vacuumWG       sync.WaitGroup
	dataDir        string
	vacuumInterval time.Duration
	closed         bool
}

// New opens the store and migrates its schema
func New(opts ...StoreOptionFunc) (*Store, error) {
	s := &Store{
		vacuumInterval: DefaultVacuumInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	var dsn string
	if s.dataDir == "" {
		// A private in-memory database per store
		dsn = "file::memory:"
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(s.dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(s.dataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		// WAL journal mode, disable sync on write
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=sync(OFF)",
			filepath.Join(s.dataDir, "metadata.sqlite"),
		)
	}
	db, err := gorm.Open(
		sqlite.Open(dsn),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
		},
	)
	if err != nil {
		return nil, err
	}
	if s.dataDir == "" {
		// Every new connection to :memory: would see an empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	s.db = db
	// Configure tracing for GORM
	if err := s.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}
	for _, model := range MigrateModels {
		s.logger.Debug(
			fmt.Sprintf("creating table: %T", model),
			"component", "database",
		)
		if err := s.db.AutoMigrate(model); err != nil {
			return nil, err
		}
	}
	s.scheduleVacuum()
	return s, nil
}

func (s *Store) runVacuum() error {
	s.timerMutex.Lock()
	if s.dataDir == "" || s.closed {
		s.timerMutex.Unlock()
		return nil
	}
	// Track this vacuum operation while we know the store is open
	s.vacuumWG.Add(1)
	s.timerMutex.Unlock()
	defer s.vacuumWG.Done()
	return s.db.Exec("VACUUM").Error
}

// scheduleVacuum arms the next VACUUM run
func (s *Store) scheduleVacuum() {
	s.timerMutex.Lock()
	defer s.timerMutex.Unlock()
	if s.closed || s.dataDir == "" {
		return
	}
	if s.timerVacuum != nil {
		s.timerVacuum.Stop()
	}
	s.timerVacuum = time.AfterFunc(s.vacuumInterval, func() {
		defer s.scheduleVacuum()
		s.logger.Debug(
			"running vacuum on sqlite metadata database",
			"component", "database",
		)
		if err := s.runVacuum(); err != nil {
			s.logger.Error(
				"failed to free unused space in metadata store",
				"component", "database",
				"error", err,
			)
		}
	})
}

// Close stops background work and closes the database
func (s *Store) Close() error {
	s.timerMutex.Lock()
	s.closed = true
	if s.timerVacuum != nil {
		s.timerVacuum.Stop()
		s.timerVacuum = nil
	}
	s.timerMutex.Unlock()
	// Wait for any in-flight vacuum operations to complete
	s.vacuumWG.Wait()
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return sqlDB.Close()
}

// DB returns the underlying GORM database handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction starts a database transaction
func (s *Store) Transaction() *gorm.DB {
	return s.db.Begin()
}

// resolveDB picks the transaction handle when one is given
func (s *Store) resolveDB(txn *gorm.DB) *gorm.DB {
	if txn != nil {
		return txn
	}
	return s.db
}
