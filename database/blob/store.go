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

// Package blob stores encoded blocks and snapshots in badger
package blob

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/prometheus/client_golang/prometheus"
)

// Default cache sizes for BadgerDB (in bytes)
const (
	DefaultBlockCacheSize = 268435456 // 256MB
	DefaultIndexCacheSize = 67108864  // 64MB
	DefaultValueThreshold = 1048576   // 1MB
	DefaultGcInterval     = 5 * time.Minute
)

const commitTimestampKey = "metadata_commit_timestamp"

var (
	ErrKeyNotFound    = errors.New("blob key not found")
	ErrTxnFinished    = errors.New("blob transaction already finished")
	ErrTxnWrongStore  = errors.New("blob transaction from different store")
	ErrTxnNotWritable = errors.New("blob transaction is read-only")
)

// Store keeps all data in badger. Without a data directory the data lives
// in memory only.
type Store struct {
	promRegistry   prometheus.Registerer
	db             *badger.DB
	logger         *slog.Logger
	metrics        storeMetrics
	gcTicker       *time.Ticker
	gcStopCh       chan struct{}
	dataDir        string
	gcWg           sync.WaitGroup
	blockCacheSize uint64
	indexCacheSize uint64
	valueThreshold int64
	gcInterval     time.Duration
	gcEnabled      bool
}

// New opens the store
func New(opts ...StoreOptionFunc) (*Store, error) {
	s := &Store{
		gcEnabled:      true,
		gcInterval:     DefaultGcInterval,
		blockCacheSize: DefaultBlockCacheSize,
		indexCacheSize: DefaultIndexCacheSize,
		valueThreshold: DefaultValueThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	var badgerOpts badger.Options
	if s.dataDir == "" {
		badgerOpts = badger.DefaultOptions("").
			WithInMemory(true)
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(s.dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		badgerOpts = badger.DefaultOptions(filepath.Join(s.dataDir, "blob")).
			WithBlockCacheSize(int64(s.blockCacheSize)). //nolint:gosec // cache sizes come from config
			WithIndexCacheSize(int64(s.indexCacheSize)). //nolint:gosec // cache sizes come from config
			WithCompression(options.Snappy)
	}
	badgerOpts = badgerOpts.
		WithLogger(NewBadgerLogger(s.logger)).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING).
		WithValueThreshold(s.valueThreshold)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	s.db = db
	s.metrics.init(s.promRegistry)
	if s.gcEnabled && s.dataDir != "" {
		s.gcTicker = time.NewTicker(s.gcInterval)
		s.gcStopCh = make(chan struct{})
		s.gcWg.Add(1)
		go s.blobGc(s.gcTicker, s.gcStopCh)
	}
	return s, nil
}

func (s *Store) blobGc(t *time.Ticker, stop <-chan struct{}) {
	defer s.gcWg.Done()
	for {
		select {
		case <-t.C:
			// Keep rewriting while GC finds something to reclaim
			for {
				err := s.db.RunValueLogGC(0.5)
				if err == nil {
					continue
				}
				if !errors.Is(err, badger.ErrNoRewrite) {
					s.logger.Warn(
						fmt.Sprintf("blob DB: GC failure: %s", err),
						"component", "database",
					)
				}
				break
			}
		case <-stop:
			return
		}
	}
}

// Close stops the GC loop and closes the database
func (s *Store) Close() error {
	if s.gcTicker != nil {
		s.gcTicker.Stop()
		close(s.gcStopCh)
		s.gcWg.Wait()
		s.gcTicker = nil
	}
	return s.db.Close()
}

// DB returns the database handle
func (s *Store) DB() *badger.DB {
	return s.db
}

// Txn is a badger transaction bound to its store
type Txn struct {
	store    *Store
	tx       *badger.Txn
	update   bool
	finished bool
}

// NewTransaction starts a transaction. Read-only transactions see a
// consistent view of the store.
func (s *Store) NewTransaction(update bool) *Txn {
	return &Txn{store: s, tx: s.db.NewTransaction(update), update: update}
}

func (t *Txn) Commit() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if !t.update {
		t.tx.Discard()
		return nil
	}
	return t.tx.Commit()
}

func (t *Txn) Rollback() error {
	if t.finished {
		return nil
	}
	t.tx.Discard()
	t.finished = true
	return nil
}

func (s *Store) validateTxn(txn *Txn) error {
	if txn == nil {
		return errors.New("nil blob transaction")
	}
	if txn.store != s {
		return ErrTxnWrongStore
	}
	if txn.finished {
		return ErrTxnFinished
	}
	return nil
}

// Get returns a copy of the value stored under key
func (s *Store) Get(txn *Txn, key []byte) ([]byte, error) {
	if err := s.validateTxn(txn); err != nil {
		return nil, err
	}
	item, err := txn.tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	s.metrics.reads.Inc()
	s.metrics.bytesRead.Add(float64(len(val)))
	return val, nil
}

// Has reports whether key is present
func (s *Store) Has(txn *Txn, key []byte) (bool, error) {
	if err := s.validateTxn(txn); err != nil {
		return false, err
	}
	_, err := txn.tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Set stores val under key
func (s *Store) Set(txn *Txn, key, val []byte) error {
	if err := s.validateTxn(txn); err != nil {
		return err
	}
	if !txn.update {
		return ErrTxnNotWritable
	}
	if err := txn.tx.Set(key, val); err != nil {
		return err
	}
	s.metrics.writes.Inc()
	s.metrics.bytesWritten.Add(float64(len(val)))
	return nil
}

// Delete removes key
func (s *Store) Delete(txn *Txn, key []byte) error {
	if err := s.validateTxn(txn); err != nil {
		return err
	}
	if !txn.update {
		return ErrTxnNotWritable
	}
	return txn.tx.Delete(key)
}

// Keys returns all keys starting with prefix, in key order
func (s *Store) Keys(txn *Txn, prefix []byte) ([][]byte, error) {
	if err := s.validateTxn(txn); err != nil {
		return nil, err
	}
	it := txn.tx.NewIterator(badger.IteratorOptions{
		Prefix:         prefix,
		PrefetchValues: false,
	})
	defer it.Close()
	var ret [][]byte
	for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
		ret = append(ret, it.Item().KeyCopy(nil))
	}
	return ret, nil
}

// GetCommitTimestamp returns the timestamp of the last coordinated commit,
// or 0 when none was recorded
func (s *Store) GetCommitTimestamp() (int64, error) {
	txn := s.NewTransaction(false)
	defer txn.Rollback() //nolint:errcheck

	val, err := s.Get(txn, []byte(commitTimestampKey))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return new(big.Int).SetBytes(val).Int64(), nil
}

// SetCommitTimestamp records the timestamp of a coordinated commit
func (s *Store) SetCommitTimestamp(txn *Txn, timestamp int64) error {
	return s.Set(
		txn,
		[]byte(commitTimestampKey),
		new(big.Int).SetInt64(timestamp).Bytes(),
	)
}
