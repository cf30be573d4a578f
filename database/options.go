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
	"log/slog"

	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

type DatabaseOptionFunc func(*Database)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) DatabaseOptionFunc {
	return func(d *Database) {
		d.logger = logger
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(registry prometheus.Registerer) DatabaseOptionFunc {
	return func(d *Database) {
		d.promRegistry = registry
	}
}

// WithTracerProvider specifies the tracer provider used for spans. The
// global provider is used by default.
func WithTracerProvider(provider trace.TracerProvider) DatabaseOptionFunc {
	return func(d *Database) {
		d.tracerProvider = provider
	}
}

// WithDataDir specifies the data directory to use for storage
func WithDataDir(dataDir string) DatabaseOptionFunc {
	return func(d *Database) {
		d.dataDir = dataDir
	}
}

// WithBlockCacheSize specifies the blob store block cache size
func WithBlockCacheSize(size uint64) DatabaseOptionFunc {
	return func(d *Database) {
		d.blockCacheSize = size
	}
}

// WithIndexCacheSize specifies the blob store index cache size
func WithIndexCacheSize(size uint64) DatabaseOptionFunc {
	return func(d *Database) {
		d.indexCacheSize = size
	}
}

// WithGc specifies whether blob store garbage collection runs
func WithGc(enabled bool) DatabaseOptionFunc {
	return func(d *Database) {
		d.gcEnabled = enabled
	}
}

// WithCompressionLevel specifies the zstd level used for snapshots
func WithCompressionLevel(level zstd.EncoderLevel) DatabaseOptionFunc {
	return func(d *Database) {
		d.compressionLevel = level
	}
}

// WithEvm lets stored snapshots carry the EVM configuration parameter
func WithEvm(enabled bool) DatabaseOptionFunc {
	return func(d *Database) {
		d.enableEvm = enabled
	}
}

// WithBlockCacheEntries specifies how many decoded blocks are kept in
// memory. Zero disables the cache.
func WithBlockCacheEntries(entries int) DatabaseOptionFunc {
	return func(d *Database) {
		d.blockCacheEntries = entries
	}
}
