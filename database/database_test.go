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

package database_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/blinklabs-io/chaincore/block"
	"github.com/blinklabs-io/chaincore/database"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/fragment"
	"github.com/blinklabs-io/chaincore/keys"
	"github.com/blinklabs-io/chaincore/ledger/snapshot"
	"github.com/blinklabs-io/chaincore/params"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestDatabase(t *testing.T, opts ...database.DatabaseOptionFunc) *database.Database {
	t.Helper()
	db, err := database.New(opts...)
	require.NoError(t, err)
	return db
}

func buildChain(t *testing.T, n int) []block.Block {
	t.Helper()
	leader := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{7}, ed25519.SeedSize))
	initial, err := fragment.NewInitial(params.ConfigParams{
		params.DiscriminationTest,
		params.SlotsPerEpoch(100),
	})
	require.NoError(t, err)
	genesis, err := block.Build(
		block.Common{},
		block.NoProof{},
		fragment.ContentsFromFragments(initial),
	)
	require.NoError(t, err)
	ret := []block.Block{genesis}
	for i := 1; i < n; i++ {
		prev := ret[i-1]
		b, err := block.BuildBft(
			block.Common{
				Date:        block.Date{Epoch: 0, Slot: uint32(i)},
				ChainLength: prev.ChainLength().Increase(),
				Parent:      prev.ID(),
			},
			fragment.ContentsFromFragments(fragment.Fragment{
				Kind: fragment.KindTransaction,
				Body: []byte{byte(i)},
			}),
			leader,
		)
		require.NoError(t, err)
		ret = append(ret, b)
	}
	return ret
}

func testLedger(t *testing.T) *snapshot.Ledger {
	t.Helper()
	l := snapshot.NewLedger(snapshot.Globals{
		Date:        block.Date{Epoch: 2, Slot: 10},
		ChainLength: 210,
		Static: snapshot.StaticParams{
			Block0Hash:      digest.Sum([]byte("block0")),
			Block0StartTime: 1_600_000_000,
			Discrimination:  params.DiscriminationTest,
			KesUpdateSpeed:  3600,
		},
		Era: snapshot.TimeEra{SlotsPerEpoch: 100},
	})
	require.NoError(t, l.Pots.AppendFees(5))
	require.NoError(t, l.Pots.TreasuryAdd(1000))
	l.Accounts[keys.PublicKey{9}] = snapshot.AccountState{
		Delegation: snapshot.DelegateFull(digest.Sum([]byte("pool"))),
		Value:      77,
	}
	l.ConfigParams = params.ConfigParams{params.SlotsPerEpoch(100)}
	return l
}

func TestBlocks(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	registry := prometheus.NewRegistry()
	db := newTestDatabase(t, database.WithPromRegistry(registry))
	defer db.Close() //nolint:errcheck

	_, err := db.Tip(ctx)
	require.ErrorIs(t, err, database.ErrNotFound)

	chain := buildChain(t, 4)
	for _, b := range chain {
		require.NoError(t, db.PutBlock(ctx, b))
	}
	// storing again does nothing
	require.NoError(t, db.PutBlock(ctx, chain[2]))
	assert.InDelta(
		t,
		4,
		counterValue(t, registry, "chaincore_database_blocks_stored_total"),
		0,
	)

	tip, err := db.Tip(ctx)
	require.NoError(t, err)
	assert.Equal(t, chain[3].ID(), tip.ID)
	assert.Equal(t, chain[2].ID(), tip.Parent)
	assert.Equal(t, block.ChainLength(3), tip.ChainLength)
	assert.Equal(t, block.VersionBft, tip.Version)
	assert.Equal(t, uint32(1), tip.FragmentCount)

	got, err := db.GetBlock(ctx, chain[1].ID())
	require.NoError(t, err)
	assert.True(t, got.Equal(chain[1]))
	assert.Equal(t, chain[1].Contents(), got.Contents())

	info, err := db.GetBlockInfo(ctx, chain[0].ID())
	require.NoError(t, err)
	assert.Equal(t, block.VersionGenesis, info.Version)
	assert.True(t, info.Parent.IsZero())

	_, err = db.GetBlock(ctx, digest.Sum([]byte("missing")))
	require.ErrorIs(t, err, database.ErrNotFound)
	_, err = db.GetBlockInfo(ctx, digest.Sum([]byte("missing")))
	require.ErrorIs(t, err, database.ErrNotFound)

	frag, err := db.GetFragment(ctx, chain[1].ID(), chain[1].Contents()[0].ID())
	require.NoError(t, err)
	assert.Equal(t, fragment.KindTransaction, frag.Kind)
	assert.Equal(t, []byte{1}, frag.Body)
	_, err = db.GetFragment(ctx, chain[1].ID(), digest.Sum([]byte("nope")))
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestBlocksUncached(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	db := newTestDatabase(t, database.WithBlockCacheEntries(0))
	defer db.Close() //nolint:errcheck

	chain := buildChain(t, 3)
	for _, b := range chain {
		require.NoError(t, db.PutBlock(ctx, b))
	}
	for _, b := range chain {
		got, err := db.GetBlock(ctx, b.ID())
		require.NoError(t, err)
		assert.True(t, got.Equal(b))
		assert.Equal(t, b.Header(), got.Header())
	}
	frag, err := db.GetFragment(ctx, chain[0].ID(), chain[0].Contents()[0].ID())
	require.NoError(t, err)
	assert.Equal(t, fragment.KindInitial, frag.Kind)
}

// counterValue reads a gathered counter by name
func counterValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}

func TestImportBlock(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	db := newTestDatabase(t)
	defer db.Close() //nolint:errcheck

	chain := buildChain(t, 2)
	data, err := chain[1].Bytes()
	require.NoError(t, err)
	b, err := db.ImportBlock(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, chain[1].ID(), b.ID())

	// a truncated block is rejected and nothing is stored
	_, err = db.ImportBlock(ctx, data[:len(data)-1])
	require.Error(t, err)
	tip, err := db.Tip(ctx)
	require.NoError(t, err)
	assert.Equal(t, chain[1].ID(), tip.ID)
}

func TestSnapshots(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	db := newTestDatabase(t)
	defer db.Close() //nolint:errcheck

	l := testLedger(t)
	raw, err := l.Bytes()
	require.NoError(t, err)

	info, err := db.PutSnapshot(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, digest.Sum(raw), info.ID)
	assert.Equal(t, uint64(len(raw)), info.RawSize)
	assert.NotZero(t, info.CompressedSize)
	// globals, three pots, one account and one parameter
	assert.Equal(t, uint64(6), info.EntryCount)
	assert.Equal(t, block.ChainLength(210), info.ChainLength)

	again, err := db.PutSnapshot(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, info.ID, again.ID)

	loaded, err := db.GetSnapshot(ctx, info.ID)
	require.NoError(t, err)
	reencoded, err := loaded.Bytes()
	require.NoError(t, err)
	assert.Equal(t, raw, reencoded)

	var out bytes.Buffer
	require.NoError(t, db.ExportSnapshot(ctx, info.ID, &out))
	assert.Equal(t, raw, out.Bytes())

	_, err = db.GetSnapshot(ctx, digest.Sum([]byte("missing")))
	require.ErrorIs(t, err, database.ErrNotFound)

	list, err := db.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, info.ID, list[0].ID)
}

func TestImportSnapshot(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	db := newTestDatabase(t)
	defer db.Close() //nolint:errcheck

	l := testLedger(t)
	raw, err := l.Bytes()
	require.NoError(t, err)
	info, err := db.ImportSnapshot(ctx, bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, digest.Sum(raw), info.ID)
	assert.Equal(t, uint64(6), info.EntryCount)

	// missing end marker
	_, err = db.ImportSnapshot(ctx, bytes.NewReader(raw[:len(raw)-1]))
	require.Error(t, err)
	list, err := db.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSnapshotEvmGate(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	l := testLedger(t)
	l.ConfigParams = append(l.ConfigParams, params.EvmParams{
		Version: params.EvmParamsVersion,
		Digest:  digest.Sum([]byte("evm")),
	})
	raw, err := l.Bytes()
	require.NoError(t, err)

	plain := newTestDatabase(t)
	_, err = plain.ImportSnapshot(ctx, bytes.NewReader(raw))
	require.ErrorIs(t, err, params.ErrInvalidTag)
	require.NoError(t, plain.Close())

	evm := newTestDatabase(t, database.WithEvm(true))
	defer evm.Close() //nolint:errcheck
	info, err := evm.ImportSnapshot(ctx, bytes.NewReader(raw))
	require.NoError(t, err)
	loaded, err := evm.GetSnapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.ConfigParams, 2)
}

func TestTxnRollback(t *testing.T) {
	defer goleak.VerifyNone(t)
	db := newTestDatabase(t)
	defer db.Close() //nolint:errcheck

	errBoom := errors.New("boom")
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		require.NoError(t, db.Blob().Set(txn.Blob(), []byte("k"), []byte("v")))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	ts, err := db.Blob().GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)
}

func TestCommitTimestampMismatch(t *testing.T) {
	defer goleak.VerifyNone(t)
	dir := t.TempDir()
	db, err := database.New(database.WithDataDir(dir), database.WithGc(false))
	require.NoError(t, err)
	chain := buildChain(t, 1)
	require.NoError(t, db.PutBlock(context.Background(), chain[0]))

	// move the blob side ahead of the metadata side
	txn := db.Blob().NewTransaction(true)
	require.NoError(t, db.Blob().SetCommitTimestamp(txn, 1))
	require.NoError(t, txn.Commit())
	require.NoError(t, db.Close())

	db, err = database.New(database.WithDataDir(dir), database.WithGc(false))
	var tsErr database.CommitTimestampError
	require.ErrorAs(t, err, &tsErr)
	assert.Equal(t, int64(1), tsErr.BlobTimestamp)
	require.NotNil(t, db)
	require.NoError(t, db.Close())
}
