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

// Package ledger holds the special value pools of the ledger state.
package ledger

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/value"
)

// ErrPotValueInvalid wraps the arithmetic error of a failed pot update
var ErrPotValueInvalid = errors.New("pot value invalid")

func potValueInvalid(err error) error {
	return fmt.Errorf("%w: %w", ErrPotValueInvalid, err)
}

// Treasury is the pool of value owned by the protocol
type Treasury struct {
	value value.Value
}

// InitialTreasury returns a treasury holding v
func InitialTreasury(v value.Value) Treasury {
	return Treasury{value: v}
}

func (t Treasury) Value() value.Value {
	return t.value
}

// Draw removes at most expected from the treasury and returns what was
// removed
func (t *Treasury) Draw(expected value.Value) value.Value {
	drawn := min(t.value, expected)
	t.value -= drawn
	return drawn
}

// Add is a checked addition
func (t *Treasury) Add(v value.Value) error {
	sum, err := t.value.Add(v)
	if err != nil {
		return potValueInvalid(err)
	}
	t.value = sum
	return nil
}

// Pots are the fee, treasury and reward pools
type Pots struct {
	fees     value.Value
	treasury Treasury
	rewards  value.Value
}

// ZeroPots returns empty pots
func ZeroPots() Pots {
	return Pots{treasury: InitialTreasury(value.Zero)}
}

// Entries iterates fees, treasury and rewards in that order
func (p *Pots) Entries() *Entries {
	return &Entries{pots: *p}
}

// Values returns the pool values in entry order
func (p *Pots) Values() []value.Value {
	ret := make([]value.Value, 0, 3)
	it := p.Entries()
	for {
		e, ok := it.Next()
		if !ok {
			return ret
		}
		ret = append(ret, e.Value)
	}
}

// TotalValue is the checked sum of all pools
func (p *Pots) TotalValue() (value.Value, error) {
	return value.Sum(p.Values()...)
}

// AppendFees adds collected fees to the fee pool
func (p *Pots) AppendFees(fees value.Value) error {
	sum, err := p.fees.Add(fees)
	if err != nil {
		return potValueInvalid(err)
	}
	p.fees = sum
	return nil
}

// DrawReward removes at most expected from the reward pool and returns
// what was removed
func (p *Pots) DrawReward(expected value.Value) value.Value {
	drawn := min(p.rewards, expected)
	p.rewards -= drawn
	return drawn
}

// DrawTreasury removes at most expected from the treasury
func (p *Pots) DrawTreasury(expected value.Value) value.Value {
	return p.treasury.Draw(expected)
}

// SiphonFees empties the fee pool and returns its previous value
func (p *Pots) SiphonFees() value.Value {
	siphoned := p.fees
	p.fees = value.Zero
	return siphoned
}

func (p *Pots) TreasuryAdd(v value.Value) error {
	return p.treasury.Add(v)
}

func (p *Pots) RewardsAdd(v value.Value) error {
	sum, err := p.rewards.Add(v)
	if err != nil {
		return potValueInvalid(err)
	}
	p.rewards = sum
	return nil
}

func (p *Pots) FeesValue() value.Value {
	return p.fees
}

func (p *Pots) TreasuryValue() value.Value {
	return p.treasury.Value()
}

func (p *Pots) RewardsValue() value.Value {
	return p.rewards
}

// SetFromEntry overwrites the pool named by e
func (p *Pots) SetFromEntry(e Entry) {
	switch e.Type {
	case EntryFees:
		p.fees = e.Value
	case EntryTreasury:
		p.treasury = InitialTreasury(e.Value)
	case EntryRewards:
		p.rewards = e.Value
	}
}

// EntryType names a pool
type EntryType uint8

const (
	EntryFees     EntryType = 0
	EntryTreasury EntryType = 1
	EntryRewards  EntryType = 2
)

func (t EntryType) String() string {
	switch t {
	case EntryFees:
		return "fees"
	case EntryTreasury:
		return "treasury"
	case EntryRewards:
		return "rewards"
	default:
		return fmt.Sprintf("pot(%d)", uint8(t))
	}
}

// Entry is the value of a single pool
type Entry struct {
	Type  EntryType
	Value value.Value
}

func (e Entry) Write(w *codec.Writer) error {
	if err := w.PutU8(uint8(e.Type)); err != nil {
		return err
	}
	return w.PutU64(uint64(e.Value))
}

func ReadEntry(r *codec.Reader) (Entry, error) {
	t, err := r.GetU8()
	if err != nil {
		return Entry{}, err
	}
	if EntryType(t) > EntryRewards {
		return Entry{}, codec.StructureInvalid("invalid pot entry type %d", t)
	}
	v, err := r.GetU64()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Type: EntryType(t), Value: value.Value(v)}, nil
}

// Entries walks the pools of a Pots copy once
type Entries struct {
	pots Pots
	next int
}

// Next returns the next pool entry, or false once all three were returned
func (it *Entries) Next() (Entry, bool) {
	var e Entry
	switch it.next {
	case 0:
		e = Entry{Type: EntryFees, Value: it.pots.fees}
	case 1:
		e = Entry{Type: EntryTreasury, Value: it.pots.treasury.Value()}
	case 2:
		e = Entry{Type: EntryRewards, Value: it.pots.rewards}
	default:
		return Entry{}, false
	}
	it.next++
	return e, true
}
