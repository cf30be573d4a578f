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

package database

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/blinklabs-io/chaincore/database/blob"
	"github.com/blinklabs-io/chaincore/database/metadata"
	"github.com/blinklabs-io/chaincore/params"
	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/blinklabs-io/chaincore/database"

// ErrNotFound is returned when a block or snapshot is not stored
var ErrNotFound = errors.New("not found")

// Database stores encoded blocks and compressed ledger snapshots in a blob
// store and indexes them in a metadata store
type Database struct {
	logger            *slog.Logger
	promRegistry      prometheus.Registerer
	tracerProvider    trace.TracerProvider
	tracer            trace.Tracer
	blob              *blob.Store
	metadata          *metadata.Store
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	metrics           databaseMetrics
	blocks            *blockCache
	blockCacheEntries int
	dataDir           string
	blockCacheSize    uint64
	indexCacheSize    uint64
	gcEnabled         bool
	compressionLevel  zstd.EncoderLevel
	enableEvm         bool
}

// New creates a database. Without a data directory both stores live in
// memory. A CommitTimestampError is returned along with the database when
// the stores disagree about the last commit.
func New(opts ...DatabaseOptionFunc) (*Database, error) {
	d := &Database{
		gcEnabled:         true,
		compressionLevel:  zstd.SpeedDefault,
		blockCacheEntries: DefaultBlockCacheEntries,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if d.tracerProvider == nil {
		d.tracerProvider = otel.GetTracerProvider()
	}
	d.tracer = d.tracerProvider.Tracer(tracerName)
	d.metrics.init(d.promRegistry)
	d.blocks = newBlockCache(d.blockCacheEntries)
	var err error
	d.encoder, err = zstd.NewWriter(
		nil,
		zstd.WithEncoderLevel(d.compressionLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	d.decoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = d.encoder.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	metadataDir := ""
	if d.dataDir != "" {
		metadataDir = filepath.Join(d.dataDir, "metadata")
	}
	d.metadata, err = metadata.New(
		metadata.WithLogger(d.logger),
		metadata.WithDataDir(metadataDir),
	)
	if err != nil {
		d.closeCodecs()
		return nil, fmt.Errorf("open metadata store: %w", err)
	}
	blobOpts := []blob.StoreOptionFunc{
		blob.WithLogger(d.logger),
		blob.WithPromRegistry(d.promRegistry),
		blob.WithDataDir(d.dataDir),
		blob.WithGc(d.gcEnabled),
	}
	if d.blockCacheSize > 0 {
		blobOpts = append(blobOpts, blob.WithBlockCacheSize(d.blockCacheSize))
	}
	if d.indexCacheSize > 0 {
		blobOpts = append(blobOpts, blob.WithIndexCacheSize(d.indexCacheSize))
	}
	d.blob, err = blob.New(blobOpts...)
	if err != nil {
		_ = d.metadata.Close()
		d.closeCodecs()
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	if err := d.checkCommitTimestamp(); err != nil {
		// Database is available for recovery, so return it with error
		return d, err
	}
	d.logger.Debug(
		"database opened",
		"component", "database",
		"data_dir", d.dataDir,
		"in_memory", d.dataDir == "",
	)
	return d, nil
}

// Blob returns the underlying blob store
func (d *Database) Blob() *blob.Store {
	return d.blob
}

// Metadata returns the underlying metadata store
func (d *Database) Metadata() *metadata.Store {
	return d.metadata
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// decodeOptions returns the parameter decode capabilities enabled for
// this database
func (d *Database) decodeOptions() []params.DecodeOptionFunc {
	if d.enableEvm {
		return []params.DecodeOptionFunc{params.WithEvm()}
	}
	return nil
}

func (d *Database) closeCodecs() {
	if d.decoder != nil {
		d.decoder.Close()
	}
	if d.encoder != nil {
		_ = d.encoder.Close()
	}
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	// Close metadata
	metadataErr := d.metadata.Close()
	err = errors.Join(err, metadataErr)
	// Close blob
	blobErr := d.blob.Close()
	err = errors.Join(err, blobErr)
	d.closeCodecs()
	return err
}
