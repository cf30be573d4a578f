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

package ledger_test

import (
	"math"
	"testing"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/ledger"
	"github.com/blinklabs-io/chaincore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePots(t *testing.T, fees, treasury, rewards value.Value) ledger.Pots {
	t.Helper()
	p := ledger.ZeroPots()
	require.NoError(t, p.AppendFees(fees))
	require.NoError(t, p.TreasuryAdd(treasury))
	require.NoError(t, p.RewardsAdd(rewards))
	return p
}

func TestZeroPots(t *testing.T) {
	p := ledger.ZeroPots()
	assert.Equal(t, []value.Value{0, 0, 0}, p.Values())
	total, err := p.TotalValue()
	require.NoError(t, err)
	assert.Equal(t, value.Zero, total)
}

func TestPotsEntriesOrder(t *testing.T) {
	p := samplePots(t, 1, 2, 3)
	it := p.Entries()
	expected := []ledger.Entry{
		{Type: ledger.EntryFees, Value: 1},
		{Type: ledger.EntryTreasury, Value: 2},
		{Type: ledger.EntryRewards, Value: 3},
	}
	for _, want := range expected {
		e, ok := it.Next()
		require.True(t, ok)
		assert.Equal(t, want, e)
	}
	_, ok := it.Next()
	assert.False(t, ok)
	_, ok = it.Next()
	assert.False(t, ok)

	// a fresh iterator starts over
	e, ok := p.Entries().Next()
	require.True(t, ok)
	assert.Equal(t, ledger.EntryFees, e.Type)
}

func TestPotsTotalValue(t *testing.T) {
	p := samplePots(t, 10, 20, 30)
	total, err := p.TotalValue()
	require.NoError(t, err)
	assert.Equal(t, value.Value(60), total)

	p = samplePots(t, math.MaxUint64, 1, 0)
	_, err = p.TotalValue()
	require.ErrorIs(t, err, value.ErrOverflow)
}

func TestAppendFeesOverflow(t *testing.T) {
	p := samplePots(t, math.MaxUint64-1, 0, 1)
	err := p.AppendFees(2)
	require.ErrorIs(t, err, ledger.ErrPotValueInvalid)
	require.ErrorIs(t, err, value.ErrOverflow)
	assert.Equal(t, value.Value(math.MaxUint64-1), p.FeesValue())

	require.ErrorIs(t, p.RewardsAdd(math.MaxUint64), ledger.ErrPotValueInvalid)
	assert.Equal(t, value.Value(1), p.RewardsValue())
	require.NoError(t, p.TreasuryAdd(math.MaxUint64))
	require.ErrorIs(t, p.TreasuryAdd(1), ledger.ErrPotValueInvalid)
}

func TestDrawCapped(t *testing.T) {
	testDefs := []struct {
		available value.Value
		expected  value.Value
		drawn     value.Value
	}{
		{available: 100, expected: 40, drawn: 40},
		{available: 100, expected: 100, drawn: 100},
		{available: 100, expected: 250, drawn: 100},
		{available: 0, expected: 5, drawn: 0},
	}
	for _, testDef := range testDefs {
		p := samplePots(t, 0, testDef.available, testDef.available)
		assert.Equal(t, testDef.drawn, p.DrawReward(testDef.expected))
		assert.Equal(t, testDef.available-testDef.drawn, p.RewardsValue())
		assert.Equal(t, testDef.drawn, p.DrawTreasury(testDef.expected))
		assert.Equal(t, testDef.available-testDef.drawn, p.TreasuryValue())
	}
}

func TestSiphonFees(t *testing.T) {
	p := samplePots(t, 77, 1, 1)
	assert.Equal(t, value.Value(77), p.SiphonFees())
	assert.Equal(t, value.Zero, p.FeesValue())
	assert.Equal(t, value.Zero, p.SiphonFees())
}

func TestSetFromEntry(t *testing.T) {
	src := samplePots(t, 5, 6, 7)
	dst := ledger.ZeroPots()
	it := src.Entries()
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		dst.SetFromEntry(e)
	}
	assert.Equal(t, src, dst)
}

func TestEntryCodec(t *testing.T) {
	e := ledger.Entry{Type: ledger.EntryRewards, Value: 0x0102}
	data, err := codec.EncodeToBytes(e.Write)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 0, 0, 0, 0, 0, 1, 2}, data)

	got, err := ledger.ReadEntry(codec.NewBytesReader(data))
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = ledger.ReadEntry(codec.NewBytesReader(data[:4]))
	require.ErrorIs(t, err, codec.ErrUnexpectedEnd)

	data[0] = 3
	_, err = ledger.ReadEntry(codec.NewBytesReader(data))
	require.ErrorIs(t, err, codec.ErrStructureInvalid)
}
