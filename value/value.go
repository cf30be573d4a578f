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

// Package value implements the checked monetary amount used throughout the
// ledger. Arithmetic that would leave the 64-bit range fails instead of
// wrapping, unless the operation is explicitly named Wrapping.
package value

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

var (
	ErrOverflow  = errors.New("value overflow")
	ErrUnderflow = errors.New("value underflow")
)

// Value is a non-negative monetary amount
type Value uint64

// Zero is the empty value
const Zero Value = 0

func (v Value) String() string {
	return strconv.FormatUint(uint64(v), 10)
}

// Add returns v + other or ErrOverflow
func (v Value) Add(other Value) (Value, error) {
	sum, carry := bits.Add64(uint64(v), uint64(other), 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, v, other)
	}
	return Value(sum), nil
}

// Sub returns v - other or ErrUnderflow
func (v Value) Sub(other Value) (Value, error) {
	diff, borrow := bits.Sub64(uint64(v), uint64(other), 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: %d - %d", ErrUnderflow, v, other)
	}
	return Value(diff), nil
}

// WrappingAdd adds modulo 2^64
func (v Value) WrappingAdd(other Value) Value {
	return v + other
}

// WrappingSub subtracts modulo 2^64
func (v Value) WrappingSub(other Value) Value {
	return v - other
}

// Scale returns v * n or ErrOverflow
func (v Value) Scale(n uint32) (Value, error) {
	hi, lo := bits.Mul64(uint64(v), uint64(n))
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, v, n)
	}
	return Value(lo), nil
}

// Split is the result of dividing a Value into equal parts
type Split struct {
	Parts     Value
	Remaining Value
}

// SplitIn divides v into n equal parts plus a remainder, such that
// Parts*n + Remaining == v. It panics when n is zero.
func (v Value) SplitIn(n uint32) Split {
	if n == 0 {
		panic("value: cannot split in zero parts")
	}
	return Split{
		Parts:     v / Value(n),
		Remaining: v % Value(n),
	}
}

// Sum adds all values, failing on the first overflow
func Sum(values ...Value) (Value, error) {
	total := Zero
	for _, v := range values {
		var err error
		total, err = total.Add(v)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
