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

// Package stake implements consensus weight arithmetic and the fixed-point
// share scaling used to distribute rewards.
package stake

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/blinklabs-io/chaincore/value"
)

// Stake is a consensus weight derived from held value
type Stake uint64

// StakeUnit is one of the equal parts produced by Stake.SplitIn
type StakeUnit Stake

// SplitValueIn is the result of dividing a Stake into equal parts
type SplitValueIn struct {
	Parts     StakeUnit
	Remaining Stake
}

// FromValue converts a Value into a Stake with no loss
func FromValue(v value.Value) Stake {
	return Stake(v)
}

// Zero returns the empty stake
func Zero() Stake {
	return 0
}

// Sum adds all stakes, failing on the first overflow
func Sum(stakes ...Stake) (Stake, error) {
	var total Stake
	for _, s := range stakes {
		next, ok := total.CheckedAdd(s)
		if !ok {
			return 0, fmt.Errorf("%w: stake %d + %d", value.ErrOverflow, total, s)
		}
		total = next
	}
	return total, nil
}

func (s Stake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// CheckedAdd returns s + other and false on overflow
func (s Stake) CheckedAdd(other Stake) (Stake, bool) {
	sum, carry := bits.Add64(uint64(s), uint64(other), 0)
	return Stake(sum), carry == 0
}

// CheckedSub returns s - other and false on underflow
func (s Stake) CheckedSub(other Stake) (Stake, bool) {
	diff, borrow := bits.Sub64(uint64(s), uint64(other), 0)
	return Stake(diff), borrow == 0
}

func (s Stake) WrappingAdd(other Stake) Stake {
	return s + other
}

func (s Stake) WrappingSub(other Stake) Stake {
	return s - other
}

// SplitIn divides s into n equal parts with the remainder kept explicitly.
// It panics when n is zero.
func (s Stake) SplitIn(n uint32) SplitValueIn {
	if n == 0 {
		panic("stake: cannot split in zero parts")
	}
	return SplitValueIn{
		Parts:     StakeUnit(s / Stake(n)),
		Remaining: s % Stake(n),
	}
}

// Scale multiplies the unit back up by n
func (u StakeUnit) Scale(n uint32) (Stake, error) {
	hi, lo := bits.Mul64(uint64(u), uint64(n))
	if hi != 0 {
		return 0, fmt.Errorf("%w: stake unit %d * %d", value.ErrOverflow, u, n)
	}
	return Stake(lo), nil
}
