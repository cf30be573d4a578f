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

package stake_test

import (
	"math"
	"testing"

	"github.com/blinklabs-io/chaincore/stake"
	"github.com/blinklabs-io/chaincore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIn(t *testing.T) {
	stakes := []stake.Stake{0, 1, 99, 100, 12345678, math.MaxUint64}
	ns := []uint32{1, 2, 3, 10, 97, math.MaxUint32}
	for _, s := range stakes {
		for _, n := range ns {
			split := s.SplitIn(n)
			parts, err := split.Parts.Scale(n)
			require.NoError(t, err)
			total, ok := parts.CheckedAdd(split.Remaining)
			require.True(t, ok)
			assert.Equal(t, s, total, "stake %d split in %d", s, n)
		}
	}
	assert.Panics(t, func() { stake.Stake(1).SplitIn(0) })
}

func TestSum(t *testing.T) {
	total, err := stake.Sum(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, stake.Stake(6), total)

	_, err = stake.Sum(math.MaxUint64, 1)
	require.ErrorIs(t, err, value.ErrOverflow)
}

func TestCheckedAndWrapping(t *testing.T) {
	_, ok := stake.Stake(math.MaxUint64).CheckedAdd(1)
	assert.False(t, ok)
	_, ok = stake.Stake(0).CheckedSub(1)
	assert.False(t, ok)
	diff, ok := stake.Stake(5).CheckedSub(2)
	assert.True(t, ok)
	assert.Equal(t, stake.Stake(3), diff)
	assert.Equal(t, stake.Stake(0), stake.Stake(math.MaxUint64).WrappingAdd(1))
	assert.Equal(t, stake.Stake(math.MaxUint64), stake.Zero().WrappingSub(1))
	assert.Equal(t, stake.Stake(42), stake.FromValue(value.Value(42)))
}

func TestPercentStakeBoundaries(t *testing.T) {
	values := []value.Value{0, 1, 7, 1_000_000, math.MaxUint64}
	totals := []stake.Stake{1, 3, 1_000_003, math.MaxUint64}
	for _, total := range totals {
		full := stake.NewPercentStake(total, total)
		none := stake.NewPercentStake(0, total)
		for _, v := range values {
			assert.Equal(t, v, full.ScaleValue(v))
			assert.Equal(t, value.Zero, none.ScaleValue(v))
		}
	}
	assert.Equal(t, value.Zero, stake.NewPercentStake(0, 0).ScaleValue(100))
}

func TestPercentStakeScaleValue(t *testing.T) {
	testDefs := []struct {
		stake    stake.Stake
		total    stake.Stake
		value    value.Value
		expected value.Value
	}{
		{stake: 1, total: 2, value: 100, expected: 50},
		{stake: 1, total: 3, value: 1000, expected: 333},
		{stake: 2, total: 3, value: 1000, expected: 666},
		{stake: 1, total: 4, value: 10, expected: 2},
		// dividing by total first would zero this out
		{stake: 999_999, total: 1_000_000, value: 1, expected: 0},
		{stake: 500_000, total: 1_000_000, value: 3, expected: 1},
		{
			stake:    1,
			total:    2,
			value:    math.MaxUint64,
			expected: math.MaxUint64 / 2,
		},
	}
	for _, testDef := range testDefs {
		p := stake.NewPercentStake(testDef.stake, testDef.total)
		assert.Equal(
			t,
			testDef.expected,
			p.ScaleValue(testDef.value),
			"%d/%d of %d",
			testDef.stake,
			testDef.total,
			testDef.value,
		)
	}
}

func TestPercentStakeNeverExceedsValue(t *testing.T) {
	total := stake.Stake(7_919)
	for s := stake.Stake(0); s <= total; s += 113 {
		p := stake.NewPercentStake(s, total)
		scaled := p.ScaleValue(math.MaxUint64)
		assert.LessOrEqual(t, uint64(scaled), uint64(math.MaxUint64))
		assert.InDelta(t, p.AsFloat(), float64(scaled)/float64(math.MaxUint64), 1e-9)
	}
}

func TestNewPercentStakePanics(t *testing.T) {
	assert.Panics(t, func() { stake.NewPercentStake(2, 1) })
	assert.InDelta(t, 0.25, stake.NewPercentStake(1, 4).AsFloat(), 1e-12)
}
