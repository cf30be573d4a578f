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

	"github.com/blinklabs-io/chaincore/block"
	"github.com/blinklabs-io/chaincore/database/blob"
	"github.com/blinklabs-io/chaincore/database/metadata"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/fragment"
	"go.opentelemetry.io/otel/attribute"
)

const blockKeyPrefix = "b"

// BlockInfo is the indexed summary of a stored block
type BlockInfo struct {
	ID            block.HeaderID
	Parent        block.HeaderID
	Date          block.Date
	ChainLength   block.ChainLength
	Version       block.Version
	ContentSize   uint32
	FragmentCount uint32
}

func blockKey(id block.HeaderID) []byte {
	return append([]byte(blockKeyPrefix), id[:]...)
}

func blockInfoFromModel(m metadata.Block) (BlockInfo, error) {
	id, err := digest.FromBytes(m.Hash)
	if err != nil {
		return BlockInfo{}, fmt.Errorf("indexed block hash: %w", err)
	}
	parent, err := digest.FromBytes(m.Parent)
	if err != nil {
		return BlockInfo{}, fmt.Errorf("indexed block parent: %w", err)
	}
	return BlockInfo{
		ID:            id,
		Parent:        parent,
		Date:          block.Date{Epoch: m.Epoch, Slot: m.Slot},
		ChainLength:   block.ChainLength(m.ChainLength),
		Version:       block.Version(m.Version),
		ContentSize:   m.ContentSize,
		FragmentCount: m.FragmentCount,
	}, nil
}

// PutBlock stores the encoded block and indexes it. Storing a block that
// is already present does nothing.
func (d *Database) PutBlock(ctx context.Context, b block.Block) (err error) {
	id := b.ID()
	ctx, span := d.startSpan(
		ctx,
		"database.PutBlock",
		attribute.String("block.id", id.String()),
		attribute.Int64("block.chain_length", int64(b.ChainLength())),
	)
	defer func() { endSpan(span, err) }()
	raw, err := b.Bytes()
	if err != nil {
		return fmt.Errorf("encode block %s: %w", id, err)
	}
	stored := false
	txn := d.Transaction(true)
	err = txn.Do(func(txn *Txn) error {
		key := blockKey(id)
		exists, err := d.blob.Has(txn.Blob(), key)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := d.blob.Set(txn.Blob(), key, raw); err != nil {
			return err
		}
		header := b.Header()
		model := metadata.Block{
			Hash:          id.Bytes(),
			Parent:        b.ParentID().Bytes(),
			Epoch:         header.Date.Epoch,
			Slot:          header.Date.Slot,
			ChainLength:   uint32(header.ChainLength),
			ContentSize:   header.ContentSize,
			FragmentCount: uint32(b.Contents().Len()), //nolint:gosec
			Version:       uint16(header.Version),
		}
		if err := d.metadata.AddBlock(model, txn.Metadata().WithContext(ctx)); err != nil {
			return err
		}
		stored = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("store block %s: %w", id, err)
	}
	d.blocks.put(newCachedBlock(b))
	if stored {
		d.metrics.blocksStored.Inc()
		d.logger.Debug(
			"stored block",
			"component", "database",
			"id", id.String(),
			"date", b.Date().String(),
			"chain_length", uint32(b.ChainLength()),
			"size", len(raw),
		)
	}
	return nil
}

// ImportBlock decodes and verifies data before storing it
func (d *Database) ImportBlock(ctx context.Context, data []byte) (block.Block, error) {
	b, err := block.Decode(data)
	if err != nil {
		d.metrics.decodeFailures.WithLabelValues("block").Inc()
		return block.Block{}, fmt.Errorf("decode block: %w", err)
	}
	if err := d.PutBlock(ctx, b); err != nil {
		return block.Block{}, err
	}
	return b, nil
}

// GetBlock loads a stored block. The content hash and size are verified
// again when the block is not cached.
func (d *Database) GetBlock(ctx context.Context, id block.HeaderID) (block.Block, error) {
	cb, err := d.loadBlock(ctx, id)
	if err != nil {
		return block.Block{}, err
	}
	return cb.block, nil
}

// GetFragment returns a fragment of a stored block by fragment id
func (d *Database) GetFragment(
	ctx context.Context,
	blockID block.HeaderID,
	fragmentID fragment.ID,
) (fragment.Fragment, error) {
	cb, err := d.loadBlock(ctx, blockID)
	if err != nil {
		return fragment.Fragment{}, err
	}
	raw, ok := cb.fragment(fragmentID)
	if !ok {
		return fragment.Fragment{}, fmt.Errorf(
			"fragment %s in block %s: %w",
			fragmentID,
			blockID,
			ErrNotFound,
		)
	}
	return fragment.FromRaw(raw)
}

func (d *Database) loadBlock(ctx context.Context, id block.HeaderID) (_ *cachedBlock, err error) {
	if cb, ok := d.blocks.get(id); ok {
		return cb, nil
	}
	_, span := d.startSpan(
		ctx,
		"database.GetBlock",
		attribute.String("block.id", id.String()),
	)
	defer func() { endSpan(span, err) }()
	txn := d.Transaction(false)
	defer txn.Release()
	raw, err := d.blob.Get(txn.Blob(), blockKey(id))
	if err != nil {
		if errors.Is(err, blob.ErrKeyNotFound) {
			return nil, fmt.Errorf("block %s: %w: %w", id, ErrNotFound, err)
		}
		return nil, err
	}
	b, err := block.Decode(raw)
	if err != nil {
		d.metrics.decodeFailures.WithLabelValues("block").Inc()
		return nil, fmt.Errorf("decode stored block %s: %w", id, err)
	}
	if b.ID() != id {
		return nil, fmt.Errorf(
			"stored block %s decodes with id %s",
			id,
			b.ID(),
		)
	}
	cb := newCachedBlock(b)
	d.blocks.put(cb)
	return cb, nil
}

// GetBlockInfo returns the index entry of a stored block
func (d *Database) GetBlockInfo(ctx context.Context, id block.HeaderID) (BlockInfo, error) {
	m, err := d.metadata.GetBlock(id.Bytes(), d.metadata.DB().WithContext(ctx))
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return BlockInfo{}, fmt.Errorf("block %s: %w", id, ErrNotFound)
		}
		return BlockInfo{}, err
	}
	return blockInfoFromModel(m)
}

// Tip returns the stored block with the greatest chain length
func (d *Database) Tip(ctx context.Context) (_ BlockInfo, err error) {
	ctx, span := d.startSpan(ctx, "database.Tip")
	defer func() { endSpan(span, err) }()
	m, err := d.metadata.Tip(d.metadata.DB().WithContext(ctx))
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return BlockInfo{}, fmt.Errorf("tip: %w", ErrNotFound)
		}
		return BlockInfo{}, err
	}
	return blockInfoFromModel(m)
}
