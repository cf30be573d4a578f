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

package value

import (
	"errors"
	"fmt"
)

var ErrZeroDenominator = errors.New("ratio denominator is zero")

// Ratio is a proportion with a strictly positive denominator
type Ratio struct {
	Numerator   uint64
	Denominator uint64
}

// NewRatio builds a Ratio, rejecting a zero denominator
func NewRatio(numerator, denominator uint64) (Ratio, error) {
	if denominator == 0 {
		return Ratio{}, fmt.Errorf("%w: %d/0", ErrZeroDenominator, numerator)
	}
	return Ratio{Numerator: numerator, Denominator: denominator}, nil
}

// IsValid reports whether the denominator is nonzero
func (r Ratio) IsValid() bool {
	return r.Denominator != 0
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}
