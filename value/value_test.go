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

package value_test

import (
	"math"
	"testing"

	"github.com/blinklabs-io/chaincore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	testDefs := []struct {
		a, b      value.Value
		expected  value.Value
		expectErr bool
	}{
		{a: 0, b: 0, expected: 0},
		{a: 1, b: 2, expected: 3},
		{a: math.MaxUint64 - 1, b: 1, expected: math.MaxUint64},
		{a: math.MaxUint64, b: 1, expectErr: true},
		{a: math.MaxUint64, b: math.MaxUint64, expectErr: true},
	}
	for _, testDef := range testDefs {
		sum, err := testDef.a.Add(testDef.b)
		if testDef.expectErr {
			require.ErrorIs(t, err, value.ErrOverflow)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, testDef.expected, sum)
	}
}

func TestOverflowMessageNamesOperands(t *testing.T) {
	_, err := value.Value(math.MaxUint64).Add(5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "18446744073709551615 + 5")
}

func TestSub(t *testing.T) {
	diff, err := value.Value(10).Sub(3)
	require.NoError(t, err)
	assert.Equal(t, value.Value(7), diff)

	_, err = value.Value(3).Sub(10)
	require.ErrorIs(t, err, value.ErrUnderflow)
}

func TestWrapping(t *testing.T) {
	assert.Equal(t, value.Value(0), value.Value(math.MaxUint64).WrappingAdd(1))
	assert.Equal(t, value.Value(math.MaxUint64), value.Value(0).WrappingSub(1))
}

func TestSum(t *testing.T) {
	total, err := value.Sum(1, 2, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, value.Value(10), total)

	total, err = value.Sum()
	require.NoError(t, err)
	assert.Equal(t, value.Zero, total)

	_, err = value.Sum(math.MaxUint64, 0, 1)
	require.ErrorIs(t, err, value.ErrOverflow)
}

func TestScale(t *testing.T) {
	scaled, err := value.Value(7).Scale(3)
	require.NoError(t, err)
	assert.Equal(t, value.Value(21), scaled)

	_, err = value.Value(math.MaxUint64 / 2).Scale(3)
	require.ErrorIs(t, err, value.ErrOverflow)
}

func TestSplitIn(t *testing.T) {
	for _, n := range []uint32{1, 2, 3, 7, 1000} {
		v := value.Value(12345)
		split := v.SplitIn(n)
		parts, err := split.Parts.Scale(n)
		require.NoError(t, err)
		total, err := parts.Add(split.Remaining)
		require.NoError(t, err)
		assert.Equal(t, v, total)
		assert.Less(t, uint64(split.Remaining), uint64(n))
	}
	assert.Panics(t, func() { value.Value(1).SplitIn(0) })
}

func TestNewRatio(t *testing.T) {
	r, err := value.NewRatio(1, 3)
	require.NoError(t, err)
	assert.True(t, r.IsValid())
	assert.Equal(t, "1/3", r.String())

	_, err = value.NewRatio(1, 0)
	require.ErrorIs(t, err, value.ErrZeroDenominator)
}
