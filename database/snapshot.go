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
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/blinklabs-io/chaincore/block"
	"github.com/blinklabs-io/chaincore/database/blob"
	"github.com/blinklabs-io/chaincore/database/metadata"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/ledger/snapshot"
	"go.opentelemetry.io/otel/attribute"
)

const snapshotKeyPrefix = "s"

// SnapshotInfo is the indexed summary of a stored snapshot. The ID is the
// hash of the uncompressed stream.
type SnapshotInfo struct {
	ID             digest.Hash
	Date           block.Date
	ChainLength    block.ChainLength
	EntryCount     uint64
	RawSize        uint64
	CompressedSize uint64
	CreatedAt      time.Time
}

func snapshotKey(id digest.Hash) []byte {
	return append([]byte(snapshotKeyPrefix), id[:]...)
}

func snapshotInfoFromModel(m metadata.Snapshot) (SnapshotInfo, error) {
	id, err := digest.FromBytes(m.Digest)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("indexed snapshot digest: %w", err)
	}
	return SnapshotInfo{
		ID:             id,
		Date:           block.Date{Epoch: m.Epoch, Slot: m.Slot},
		ChainLength:    block.ChainLength(m.ChainLength),
		EntryCount:     m.EntryCount,
		RawSize:        m.RawSize,
		CompressedSize: m.CompressedSize,
		CreatedAt:      m.CreatedAt,
	}, nil
}

// PutSnapshot encodes, compresses and stores a ledger snapshot
func (d *Database) PutSnapshot(ctx context.Context, l *snapshot.Ledger) (SnapshotInfo, error) {
	raw, err := l.Bytes()
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return d.storeSnapshot(ctx, raw, l.Globals, len(l.Entries()))
}

// ImportSnapshot reads a raw snapshot stream, checks that it loads into a
// ledger and stores it unchanged
func (d *Database) ImportSnapshot(ctx context.Context, r io.Reader) (SnapshotInfo, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("read snapshot: %w", err)
	}
	dec := snapshot.NewBytesDecoder(raw, d.decodeOptions()...)
	l, err := snapshot.LoadFrom(dec)
	if err != nil {
		d.metrics.decodeFailures.WithLabelValues("snapshot").Inc()
		return SnapshotInfo{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return d.storeSnapshot(ctx, raw, l.Globals, dec.Count())
}

func (d *Database) storeSnapshot(
	ctx context.Context,
	raw []byte,
	globals snapshot.Globals,
	entryCount int,
) (_ SnapshotInfo, err error) {
	id := digest.Sum(raw)
	ctx, span := d.startSpan(
		ctx,
		"database.PutSnapshot",
		attribute.String("snapshot.id", id.String()),
		attribute.Int("snapshot.raw_size", len(raw)),
		attribute.Int("snapshot.entries", entryCount),
	)
	defer func() { endSpan(span, err) }()
	compressed := d.encoder.EncodeAll(raw, nil)
	model := metadata.Snapshot{
		Digest:         id.Bytes(),
		Epoch:          globals.Date.Epoch,
		Slot:           globals.Date.Slot,
		ChainLength:    uint32(globals.ChainLength),
		EntryCount:     uint64(entryCount), //nolint:gosec
		RawSize:        uint64(len(raw)),
		CompressedSize: uint64(len(compressed)),
		CreatedAt:      time.Now().UTC(),
	}
	stored := false
	txn := d.Transaction(true)
	err = txn.Do(func(txn *Txn) error {
		key := snapshotKey(id)
		exists, err := d.blob.Has(txn.Blob(), key)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := d.blob.Set(txn.Blob(), key, compressed); err != nil {
			return err
		}
		if err := d.metadata.AddSnapshot(model, txn.Metadata().WithContext(ctx)); err != nil {
			return err
		}
		stored = true
		return nil
	})
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("store snapshot %s: %w", id, err)
	}
	if !stored {
		return d.GetSnapshotInfo(ctx, id)
	}
	d.metrics.snapshotsStored.Inc()
	d.metrics.snapshotRawBytes.Add(float64(len(raw)))
	d.metrics.snapshotCompressedBytes.Add(float64(len(compressed)))
	d.logger.Info(
		"stored ledger snapshot",
		"component", "database",
		"id", id.String(),
		"date", globals.Date.String(),
		"entries", entryCount,
		"raw_size", len(raw),
		"compressed_size", len(compressed),
	)
	return snapshotInfoFromModel(model)
}

// rawSnapshot returns the uncompressed stream of a stored snapshot after
// checking it against its id
func (d *Database) rawSnapshot(id digest.Hash) ([]byte, error) {
	txn := d.Transaction(false)
	defer txn.Release()
	compressed, err := d.blob.Get(txn.Blob(), snapshotKey(id))
	if err != nil {
		if errors.Is(err, blob.ErrKeyNotFound) {
			return nil, fmt.Errorf("snapshot %s: %w: %w", id, ErrNotFound, err)
		}
		return nil, err
	}
	raw, err := d.decoder.DecodeAll(compressed, nil)
	if err != nil {
		d.metrics.decodeFailures.WithLabelValues("snapshot").Inc()
		return nil, fmt.Errorf("decompress snapshot %s: %w", id, err)
	}
	if sum := digest.Sum(raw); sum != id {
		d.metrics.decodeFailures.WithLabelValues("snapshot").Inc()
		return nil, fmt.Errorf("stored snapshot %s hashes to %s", id, sum)
	}
	return raw, nil
}

// GetSnapshot loads a stored snapshot into a ledger
func (d *Database) GetSnapshot(ctx context.Context, id digest.Hash) (_ *snapshot.Ledger, err error) {
	_, span := d.startSpan(
		ctx,
		"database.GetSnapshot",
		attribute.String("snapshot.id", id.String()),
	)
	defer func() { endSpan(span, err) }()
	raw, err := d.rawSnapshot(id)
	if err != nil {
		return nil, err
	}
	l, err := snapshot.LoadBytes(raw, d.decodeOptions()...)
	if err != nil {
		d.metrics.decodeFailures.WithLabelValues("snapshot").Inc()
		return nil, fmt.Errorf("decode stored snapshot %s: %w", id, err)
	}
	return l, nil
}

// ExportSnapshot writes the uncompressed stream of a stored snapshot to w
func (d *Database) ExportSnapshot(ctx context.Context, id digest.Hash, w io.Writer) (err error) {
	_, span := d.startSpan(
		ctx,
		"database.ExportSnapshot",
		attribute.String("snapshot.id", id.String()),
	)
	defer func() { endSpan(span, err) }()
	raw, err := d.rawSnapshot(id)
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write snapshot %s: %w", id, err)
	}
	return nil
}

// GetSnapshotInfo returns the index entry of a stored snapshot
func (d *Database) GetSnapshotInfo(ctx context.Context, id digest.Hash) (SnapshotInfo, error) {
	m, err := d.metadata.GetSnapshot(id.Bytes(), d.metadata.DB().WithContext(ctx))
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return SnapshotInfo{}, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
		}
		return SnapshotInfo{}, err
	}
	return snapshotInfoFromModel(m)
}

// ListSnapshots returns every stored snapshot ordered by chain length
func (d *Database) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	models, err := d.metadata.ListSnapshots(d.metadata.DB().WithContext(ctx))
	if err != nil {
		return nil, err
	}
	ret := make([]SnapshotInfo, 0, len(models))
	for _, m := range models {
		info, err := snapshotInfoFromModel(m)
		if err != nil {
			return nil, err
		}
		ret = append(ret, info)
	}
	return ret, nil
}
