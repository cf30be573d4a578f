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

package snapshot

import (
	"bytes"
	"cmp"
	"errors"
	"io"
	"maps"
	"slices"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/keys"
	"github.com/blinklabs-io/chaincore/ledger"
	"github.com/blinklabs-io/chaincore/params"
)

// Ledger is the ledger state carried by a snapshot
type Ledger struct {
	Globals              Globals
	Pots                 ledger.Pots
	Utxos                map[UtxoPointer]Output
	OldUtxos             map[UtxoPointer]Output
	Accounts             map[keys.PublicKey]AccountState
	ConfigParams         params.ConfigParams
	UpdateProposals      map[digest.Hash]ProposalState
	MultisigAccounts     map[digest.Hash]AccountState
	MultisigDeclarations map[digest.Hash]Declaration
	StakePools           map[PoolID]PoolState
	LeaderParticipation  map[PoolID]uint32
}

// NewLedger returns an empty ledger with the given globals. An unset
// discrimination defaults to production.
func NewLedger(globals Globals) *Ledger {
	if globals.Static.Discrimination == 0 {
		globals.Static.Discrimination = params.DiscriminationProduction
	}
	return &Ledger{
		Globals:              globals,
		Pots:                 ledger.ZeroPots(),
		Utxos:                make(map[UtxoPointer]Output),
		OldUtxos:             make(map[UtxoPointer]Output),
		Accounts:             make(map[keys.PublicKey]AccountState),
		UpdateProposals:      make(map[digest.Hash]ProposalState),
		MultisigAccounts:     make(map[digest.Hash]AccountState),
		MultisigDeclarations: make(map[digest.Hash]Declaration),
		StakePools:           make(map[PoolID]PoolState),
		LeaderParticipation:  make(map[PoolID]uint32),
	}
}

func compareUtxoPointer(a, b UtxoPointer) int {
	if c := bytes.Compare(a.FragmentID[:], b.FragmentID[:]); c != 0 {
		return c
	}
	return cmp.Compare(a.OutputIndex, b.OutputIndex)
}

func compare32[K ~[32]byte](a, b K) int {
	return bytes.Compare(a[:], b[:])
}

func sortedKeys[K comparable, V any](m map[K]V, cmpFn func(a, b K) int) []K {
	return slices.SortedFunc(maps.Keys(m), cmpFn)
}

// Entries lists the ledger state in stream order: globals, the three pots,
// then each keyed collection sorted by key. Config params keep their
// insertion order.
func (l *Ledger) Entries() []Entry {
	ret := []Entry{l.Globals}
	it := l.Pots.Entries()
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		ret = append(ret, Pot{Entry: e})
	}
	for _, k := range sortedKeys(l.Utxos, compareUtxoPointer) {
		ret = append(ret, Utxo{Pointer: k, Output: l.Utxos[k]})
	}
	for _, k := range sortedKeys(l.OldUtxos, compareUtxoPointer) {
		ret = append(ret, OldUtxo{Pointer: k, Output: l.OldUtxos[k]})
	}
	for _, k := range sortedKeys(l.Accounts, compare32) {
		ret = append(ret, Account{ID: k, State: l.Accounts[k]})
	}
	for _, p := range l.ConfigParams {
		ret = append(ret, ConfigParam{Param: p})
	}
	for _, k := range sortedKeys(l.UpdateProposals, compare32) {
		ret = append(ret, UpdateProposal{ID: k, State: l.UpdateProposals[k]})
	}
	for _, k := range sortedKeys(l.MultisigAccounts, compare32) {
		ret = append(ret, MultisigAccount{ID: k, State: l.MultisigAccounts[k]})
	}
	for _, k := range sortedKeys(l.MultisigDeclarations, compare32) {
		ret = append(ret, MultisigDeclaration{ID: k, Declaration: l.MultisigDeclarations[k]})
	}
	for _, k := range sortedKeys(l.StakePools, compare32) {
		ret = append(ret, StakePool{ID: k, State: l.StakePools[k]})
	}
	for _, k := range sortedKeys(l.LeaderParticipation, compare32) {
		ret = append(ret, LeaderParticipation{Pool: k, Blocks: l.LeaderParticipation[k]})
	}
	return ret
}

// Write encodes the ledger as a complete snapshot stream
func (l *Ledger) Write(w io.Writer) error {
	return WriteAll(w, l.Entries())
}

// Bytes is the complete snapshot stream
func (l *Ledger) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := l.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// apply adds a decoded entry to the ledger state
func (l *Ledger) apply(e Entry) error {
	switch e := e.(type) {
	case Globals:
		l.Globals = e
	case Pot:
		l.Pots.SetFromEntry(e.Entry)
	case Utxo:
		if _, ok := l.Utxos[e.Pointer]; ok {
			return codec.InvalidData("duplicate utxo %s", e.Pointer)
		}
		l.Utxos[e.Pointer] = e.Output
	case OldUtxo:
		if _, ok := l.OldUtxos[e.Pointer]; ok {
			return codec.InvalidData("duplicate old utxo %s", e.Pointer)
		}
		l.OldUtxos[e.Pointer] = e.Output
	case Account:
		if _, ok := l.Accounts[e.ID]; ok {
			return codec.InvalidData("duplicate account %s", e.ID)
		}
		l.Accounts[e.ID] = e.State
	case ConfigParam:
		l.ConfigParams = append(l.ConfigParams, e.Param)
	case UpdateProposal:
		if _, ok := l.UpdateProposals[e.ID]; ok {
			return codec.InvalidData("duplicate update proposal %s", e.ID)
		}
		l.UpdateProposals[e.ID] = e.State
	case MultisigAccount:
		if _, ok := l.MultisigAccounts[e.ID]; ok {
			return codec.InvalidData("duplicate multisig account %s", e.ID)
		}
		l.MultisigAccounts[e.ID] = e.State
	case MultisigDeclaration:
		if _, ok := l.MultisigDeclarations[e.ID]; ok {
			return codec.InvalidData("duplicate multisig declaration %s", e.ID)
		}
		l.MultisigDeclarations[e.ID] = e.Declaration
	case StakePool:
		if _, ok := l.StakePools[e.ID]; ok {
			return codec.InvalidData("duplicate stake pool %s", e.ID)
		}
		l.StakePools[e.ID] = e.State
	case LeaderParticipation:
		if _, ok := l.LeaderParticipation[e.Pool]; ok {
			return codec.InvalidData("duplicate leader participation for %s", e.Pool)
		}
		l.LeaderParticipation[e.Pool] = e.Blocks
	}
	return nil
}

// Load rebuilds a ledger from a snapshot stream. The stream must carry
// exactly one globals entry.
func Load(r io.Reader, opts ...params.DecodeOptionFunc) (*Ledger, error) {
	return LoadFrom(NewDecoder(r, opts...))
}

// LoadBytes rebuilds a ledger from an in-memory snapshot stream
func LoadBytes(data []byte, opts ...params.DecodeOptionFunc) (*Ledger, error) {
	return LoadFrom(NewBytesDecoder(data, opts...))
}

// LoadFrom rebuilds a ledger from the remaining entries of d. d.Count
// reports the number of entries read once it returns.
func LoadFrom(d *Decoder) (*Ledger, error) {
	l := NewLedger(Globals{})
	var haveGlobals bool
	for {
		e, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if g, ok := e.(Globals); ok {
			if haveGlobals {
				return nil, codec.InvalidData(
					"duplicate globals at entry %d",
					d.Count()-1,
				)
			}
			l.Globals = g
			haveGlobals = true
			continue
		}
		if err := l.apply(e); err != nil {
			return nil, err
		}
	}
	if err := d.ExpectEnd(); err != nil {
		return nil, err
	}
	if !haveGlobals {
		return nil, codec.InvalidData("snapshot has no globals entry")
	}
	return l, nil
}
