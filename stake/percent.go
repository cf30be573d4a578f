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

package stake

import (
	"fmt"
	"math/bits"

	"github.com/blinklabs-io/chaincore/value"
)

// scaleFactor raises precision before dividing by the total so that small
// values are not zeroed early
const scaleFactor uint64 = 1_000_000_000_000_000_000

// PercentStake is a participant's share of the total stake
type PercentStake struct {
	Stake Stake
	Total Stake
}

// NewPercentStake panics if stake exceeds total
func NewPercentStake(stake, total Stake) PercentStake {
	if stake > total {
		panic(
			fmt.Sprintf("stake: share %d exceeds total %d", stake, total),
		)
	}
	return PercentStake{Stake: stake, Total: total}
}

// AsFloat returns the share as a fraction in [0, 1]
func (p PercentStake) AsFloat() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Stake) / float64(p.Total)
}

// ScaleValue returns (v * 10^18 / total) * stake / 10^18 computed over a
// 128-bit intermediate. A full share returns v unchanged.
func (p PercentStake) ScaleValue(v value.Value) value.Value {
	if p.Total == 0 || p.Stake == 0 {
		return value.Zero
	}
	if p.Stake == p.Total {
		return v
	}
	total := uint64(p.Total)
	// v * 10^18 always fits in 128 bits
	hi, lo := bits.Mul64(uint64(v), scaleFactor)
	q1, r := bits.Div64(0, hi, total)
	q0, _ := bits.Div64(r, lo, total)
	// (q1:q0) * stake <= v * 10^18 since stake < total
	mulHi, mulLo := bits.Mul64(q0, uint64(p.Stake))
	mulHi += q1 * uint64(p.Stake)
	// the quotient is bounded by v, so mulHi < 10^18
	out, _ := bits.Div64(mulHi, mulLo, scaleFactor)
	return value.Value(out)
}
