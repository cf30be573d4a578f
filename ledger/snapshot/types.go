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
	"fmt"
	"math"

	"github.com/blinklabs-io/chaincore/block"
	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/keys"
	"github.com/blinklabs-io/chaincore/params"
	"github.com/blinklabs-io/chaincore/value"
)

const (
	// maxRatioPools is the largest number of pools a ratio delegation can
	// spread over
	maxRatioPools = 8
	// maxDeclarationDepth bounds multisig declaration nesting on decode
	maxDeclarationDepth = 64
	// maxPrealloc caps slice capacity taken from an untrusted count
	maxPrealloc = 1024
)

// PoolID identifies a stake pool
type PoolID = digest.Hash

// writeDigest writes a hash as a u64 length followed by its bytes
func writeDigest(w *codec.Writer, h digest.Hash) error {
	if err := w.PutU64(digest.Size); err != nil {
		return err
	}
	return w.PutBytes(h[:])
}

func readDigest(r *codec.Reader) (digest.Hash, error) {
	size, err := r.GetU64()
	if err != nil {
		return digest.Hash{}, err
	}
	if size != digest.Size {
		return digest.Hash{}, codec.InvalidData(
			"digest of %d bytes, expected %d",
			size,
			digest.Size,
		)
	}
	return r.GetArray32()
}

// writeLenBytes writes a u64 length followed by data
func writeLenBytes(w *codec.Writer, data []byte) error {
	if err := w.PutU64(uint64(len(data))); err != nil {
		return err
	}
	return w.PutBytes(data)
}

func readLenBytes(r *codec.Reader) ([]byte, error) {
	size, err := r.GetU64()
	if err != nil {
		return nil, err
	}
	if size > math.MaxInt32 {
		return nil, codec.StructureInvalid("byte run of %d bytes is too large", size)
	}
	return r.GetBytes(int(size))
}

func readCount(r *codec.Reader) (uint64, error) {
	n, err := r.GetU64()
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 {
		return 0, codec.StructureInvalid("element count %d is too large", n)
	}
	return n, nil
}

func writeDate(w *codec.Writer, d block.Date) error {
	if err := w.PutU32(d.Epoch); err != nil {
		return err
	}
	return w.PutU32(d.Slot)
}

func readDate(r *codec.Reader) (block.Date, error) {
	epoch, err := r.GetU32()
	if err != nil {
		return block.Date{}, err
	}
	slot, err := r.GetU32()
	if err != nil {
		return block.Date{}, err
	}
	return block.Date{Epoch: epoch, Slot: slot}, nil
}

// StaticParams are the ledger parameters fixed at genesis
type StaticParams struct {
	Block0Hash      block.HeaderID
	Block0StartTime params.Block0Date
	Discrimination  params.Discrimination
	KesUpdateSpeed  uint32
}

func (s StaticParams) write(w *codec.Writer) error {
	if err := w.PutBytes(s.Block0Hash[:]); err != nil {
		return err
	}
	if err := w.PutU64(uint64(s.Block0StartTime)); err != nil {
		return err
	}
	// the stream numbers discriminations from zero
	var disc uint8
	switch s.Discrimination {
	case params.DiscriminationProduction:
		disc = 0
	case params.DiscriminationTest:
		disc = 1
	default:
		return fmt.Errorf("invalid discrimination %d", uint8(s.Discrimination))
	}
	if err := w.PutU8(disc); err != nil {
		return err
	}
	return w.PutU32(s.KesUpdateSpeed)
}

func readStaticParams(r *codec.Reader) (StaticParams, error) {
	var s StaticParams
	var err error
	if s.Block0Hash, err = r.GetArray32(); err != nil {
		return s, err
	}
	start, err := r.GetU64()
	if err != nil {
		return s, err
	}
	s.Block0StartTime = params.Block0Date(start)
	disc, err := r.GetU8()
	if err != nil {
		return s, err
	}
	switch disc {
	case 0:
		s.Discrimination = params.DiscriminationProduction
	case 1:
		s.Discrimination = params.DiscriminationTest
	default:
		return s, codec.InvalidData("unrecognized discrimination code %d", disc)
	}
	if s.KesUpdateSpeed, err = r.GetU32(); err != nil {
		return s, err
	}
	return s, nil
}

// TimeEra anchors slot numbering to an epoch
type TimeEra struct {
	EpochStart    uint32
	SlotStart     uint64
	SlotsPerEpoch uint32
}

func (t TimeEra) write(w *codec.Writer) error {
	if err := w.PutU32(t.EpochStart); err != nil {
		return err
	}
	if err := w.PutU64(t.SlotStart); err != nil {
		return err
	}
	return w.PutU32(t.SlotsPerEpoch)
}

func readTimeEra(r *codec.Reader) (TimeEra, error) {
	var t TimeEra
	var err error
	if t.EpochStart, err = r.GetU32(); err != nil {
		return t, err
	}
	if t.SlotStart, err = r.GetU64(); err != nil {
		return t, err
	}
	if t.SlotsPerEpoch, err = r.GetU32(); err != nil {
		return t, err
	}
	return t, nil
}

// UtxoPointer locates an unspent output
type UtxoPointer struct {
	FragmentID  digest.Hash
	OutputIndex uint8
}

func (p UtxoPointer) String() string {
	return fmt.Sprintf("%s#%d", p.FragmentID, p.OutputIndex)
}

// Output is an address and the value held by it
type Output struct {
	Address []byte
	Value   value.Value
}

func writeUtxo(w *codec.Writer, p UtxoPointer, o Output) error {
	if err := w.PutBytes(p.FragmentID[:]); err != nil {
		return err
	}
	if err := w.PutU8(p.OutputIndex); err != nil {
		return err
	}
	if err := writeLenBytes(w, o.Address); err != nil {
		return err
	}
	return w.PutU64(uint64(o.Value))
}

func readUtxo(r *codec.Reader) (UtxoPointer, Output, error) {
	var p UtxoPointer
	var o Output
	var err error
	if p.FragmentID, err = r.GetArray32(); err != nil {
		return p, o, err
	}
	if p.OutputIndex, err = r.GetU8(); err != nil {
		return p, o, err
	}
	if o.Address, err = readLenBytes(r); err != nil {
		return p, o, err
	}
	v, err := r.GetU64()
	if err != nil {
		return p, o, err
	}
	o.Value = value.Value(v)
	return p, o, nil
}

// LastRewards records the most recent reward credited to an account
type LastRewards struct {
	Epoch  uint32
	Reward value.Value
}

// DelegationType selects how an account delegates its stake
type DelegationType uint8

const (
	DelegationNone  DelegationType = 0
	DelegationFull  DelegationType = 1
	DelegationRatio DelegationType = 2
)

// PoolShare is one pool of a ratio delegation
type PoolShare struct {
	Pool  PoolID
	Share uint8
}

// Ratio spreads stake over several pools in Parts equal parts
type Ratio struct {
	Parts uint8
	Pools []PoolShare
}

// NewRatio validates a ratio delegation: parts must be nonzero, there must
// be between 1 and 8 pools, every share must be nonzero and the shares must
// add up to parts
func NewRatio(parts uint8, pools []PoolShare) (Ratio, error) {
	if parts == 0 {
		return Ratio{}, codec.InvalidData("ratio delegation with zero parts")
	}
	if len(pools) == 0 || len(pools) > maxRatioPools {
		return Ratio{}, codec.InvalidData(
			"ratio delegation over %d pools",
			len(pools),
		)
	}
	var total int
	for _, p := range pools {
		if p.Share == 0 {
			return Ratio{}, codec.InvalidData("ratio delegation to %s with zero share", p.Pool)
		}
		total += int(p.Share)
	}
	if total != int(parts) {
		return Ratio{}, codec.InvalidData(
			"ratio delegation shares add up to %d, expected %d",
			total,
			parts,
		)
	}
	return Ratio{Parts: parts, Pools: pools}, nil
}

// Delegation is the stake delegation of an account
type Delegation struct {
	Type  DelegationType
	Pool  PoolID
	Ratio Ratio
}

func NotDelegated() Delegation {
	return Delegation{Type: DelegationNone}
}

func DelegateFull(pool PoolID) Delegation {
	return Delegation{Type: DelegationFull, Pool: pool}
}

func DelegateRatio(r Ratio) Delegation {
	return Delegation{Type: DelegationRatio, Ratio: r}
}

func (d Delegation) write(w *codec.Writer) error {
	if err := w.PutU8(uint8(d.Type)); err != nil {
		return err
	}
	switch d.Type {
	case DelegationNone:
		return nil
	case DelegationFull:
		return writeDigest(w, d.Pool)
	case DelegationRatio:
		if err := w.PutU8(d.Ratio.Parts); err != nil {
			return err
		}
		if err := w.PutU64(uint64(len(d.Ratio.Pools))); err != nil {
			return err
		}
		for _, p := range d.Ratio.Pools {
			if err := w.PutU8(p.Share); err != nil {
				return err
			}
			if err := writeDigest(w, p.Pool); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid delegation type %d", uint8(d.Type))
	}
}

func readDelegation(r *codec.Reader) (Delegation, error) {
	code, err := r.GetU8()
	if err != nil {
		return Delegation{}, err
	}
	switch DelegationType(code) {
	case DelegationNone:
		return NotDelegated(), nil
	case DelegationFull:
		pool, err := readDigest(r)
		if err != nil {
			return Delegation{}, err
		}
		return DelegateFull(pool), nil
	case DelegationRatio:
		parts, err := r.GetU8()
		if err != nil {
			return Delegation{}, err
		}
		n, err := readCount(r)
		if err != nil {
			return Delegation{}, err
		}
		pools := make([]PoolShare, 0, min(n, maxPrealloc))
		for range n {
			share, err := r.GetU8()
			if err != nil {
				return Delegation{}, err
			}
			pool, err := readDigest(r)
			if err != nil {
				return Delegation{}, err
			}
			pools = append(pools, PoolShare{Pool: pool, Share: share})
		}
		ratio, err := NewRatio(parts, pools)
		if err != nil {
			return Delegation{}, err
		}
		return DelegateRatio(ratio), nil
	default:
		return Delegation{}, codec.StructureInvalid("invalid delegation type code %d", code)
	}
}

// AccountState is the balance and delegation of an account
type AccountState struct {
	Counter     uint32
	Delegation  Delegation
	Value       value.Value
	LastRewards LastRewards
}

func (a AccountState) write(w *codec.Writer) error {
	if err := w.PutU32(a.Counter); err != nil {
		return err
	}
	if err := a.Delegation.write(w); err != nil {
		return err
	}
	if err := w.PutU64(uint64(a.Value)); err != nil {
		return err
	}
	if err := w.PutU32(a.LastRewards.Epoch); err != nil {
		return err
	}
	return w.PutU64(uint64(a.LastRewards.Reward))
}

func readAccountState(r *codec.Reader) (AccountState, error) {
	var a AccountState
	var err error
	if a.Counter, err = r.GetU32(); err != nil {
		return a, err
	}
	if a.Delegation, err = readDelegation(r); err != nil {
		return a, err
	}
	v, err := r.GetU64()
	if err != nil {
		return a, err
	}
	a.Value = value.Value(v)
	if a.LastRewards.Epoch, err = r.GetU32(); err != nil {
		return a, err
	}
	reward, err := r.GetU64()
	if err != nil {
		return a, err
	}
	a.LastRewards.Reward = value.Value(reward)
	return a, nil
}

// Declaration is a multisig spending policy: Threshold of the owners must
// sign. An owner is either a key hash or a nested declaration.
type Declaration struct {
	Threshold uint8
	Owners    []DeclElement
}

// DeclElement is a declaration owner. Sub is set for a nested declaration,
// otherwise Owner holds the key hash.
type DeclElement struct {
	Sub   *Declaration
	Owner digest.Hash
}

func OwnerElement(h digest.Hash) DeclElement {
	return DeclElement{Owner: h}
}

func SubElement(d Declaration) DeclElement {
	return DeclElement{Sub: &d}
}

func (d Declaration) write(w *codec.Writer) error {
	if err := w.PutU8(d.Threshold); err != nil {
		return err
	}
	if err := w.PutU64(uint64(len(d.Owners))); err != nil {
		return err
	}
	for _, e := range d.Owners {
		if e.Sub != nil {
			if err := w.PutU8(0); err != nil {
				return err
			}
			if err := e.Sub.write(w); err != nil {
				return err
			}
			continue
		}
		if err := w.PutU8(1); err != nil {
			return err
		}
		if err := w.PutBytes(e.Owner[:]); err != nil {
			return err
		}
	}
	return nil
}

func readDeclaration(r *codec.Reader, depth int) (Declaration, error) {
	if depth > maxDeclarationDepth {
		return Declaration{}, codec.StructureInvalid(
			"declaration nested deeper than %d levels",
			maxDeclarationDepth,
		)
	}
	var d Declaration
	var err error
	if d.Threshold, err = r.GetU8(); err != nil {
		return d, err
	}
	n, err := readCount(r)
	if err != nil {
		return d, err
	}
	d.Owners = make([]DeclElement, 0, min(n, maxPrealloc))
	for range n {
		tag, err := r.GetU8()
		if err != nil {
			return d, err
		}
		switch tag {
		case 0:
			sub, err := readDeclaration(r, depth+1)
			if err != nil {
				return d, err
			}
			d.Owners = append(d.Owners, SubElement(sub))
		case 1:
			owner, err := r.GetArray32()
			if err != nil {
				return d, err
			}
			d.Owners = append(d.Owners, OwnerElement(owner))
		default:
			return d, codec.StructureInvalid("invalid declaration element code %d", tag)
		}
	}
	return d, nil
}

// Proposal is a set of parameter changes put forward by a BFT leader
type Proposal struct {
	Changes  params.ConfigParams
	Proposer keys.PublicKey
}

// ProposalState tracks the votes collected by a pending proposal
type ProposalState struct {
	Proposal Proposal
	Date     block.Date
	Voters   []keys.PublicKey
}

func (p ProposalState) write(w *codec.Writer) error {
	if err := p.Proposal.Changes.Write(w); err != nil {
		return err
	}
	if err := w.PutBytes(p.Proposal.Proposer[:]); err != nil {
		return err
	}
	if err := writeDate(w, p.Date); err != nil {
		return err
	}
	if err := w.PutU64(uint64(len(p.Voters))); err != nil {
		return err
	}
	for _, v := range p.Voters {
		if err := w.PutBytes(v[:]); err != nil {
			return err
		}
	}
	return nil
}

func readProposalState(
	r *codec.Reader,
	opts []params.DecodeOptionFunc,
) (ProposalState, error) {
	var p ProposalState
	var err error
	if p.Proposal.Changes, err = params.ReadConfigParams(r, opts...); err != nil {
		return p, err
	}
	if p.Proposal.Proposer, err = r.GetArray32(); err != nil {
		return p, err
	}
	if p.Date, err = readDate(r); err != nil {
		return p, err
	}
	n, err := readCount(r)
	if err != nil {
		return p, err
	}
	p.Voters = make([]keys.PublicKey, 0, min(n, maxPrealloc))
	for range n {
		voter, err := r.GetArray32()
		if err != nil {
			return p, err
		}
		p.Voters = append(p.Voters, voter)
	}
	return p, nil
}

// PoolLastRewards records the most recent rewards distributed by a pool
type PoolLastRewards struct {
	Epoch           uint32
	ValueTaxed      value.Value
	ValueForStakers value.Value
}

// PoolState is a registered stake pool. The registration certificate is
// carried opaquely.
type PoolState struct {
	LastRewards  PoolLastRewards
	Registration []byte
}

func (p PoolState) write(w *codec.Writer) error {
	if err := w.PutU32(p.LastRewards.Epoch); err != nil {
		return err
	}
	if err := w.PutU64(uint64(p.LastRewards.ValueTaxed)); err != nil {
		return err
	}
	if err := w.PutU64(uint64(p.LastRewards.ValueForStakers)); err != nil {
		return err
	}
	return writeLenBytes(w, p.Registration)
}

func readPoolState(r *codec.Reader) (PoolState, error) {
	var p PoolState
	var err error
	if p.LastRewards.Epoch, err = r.GetU32(); err != nil {
		return p, err
	}
	taxed, err := r.GetU64()
	if err != nil {
		return p, err
	}
	p.LastRewards.ValueTaxed = value.Value(taxed)
	stakers, err := r.GetU64()
	if err != nil {
		return p, err
	}
	p.LastRewards.ValueForStakers = value.Value(stakers)
	if p.Registration, err = readLenBytes(r); err != nil {
		return p, err
	}
	return p, nil
}
