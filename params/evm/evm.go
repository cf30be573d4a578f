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

// Package evm holds the execution engine parameter block. It is encoded on
// its own, outside the TagLen framing, and is referenced from the core
// parameter set by digest.
package evm

import (
	"bytes"
	"fmt"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/params"
)

// Version is the encoding version written in the first byte
const Version = params.EvmParamsVersion

// maxBlockHashes bounds the block hash list on decode
const maxBlockHashes = 256

// Word is a 256-bit big-endian quantity
type Word [32]byte

// Address is a 20-byte account address
type Address [20]byte

type Hash [32]byte

// GasSchedule is the per-operation gas cost table
type GasSchedule struct {
	ExtCode                uint64
	ExtCodeHash            uint64
	SstoreSet              uint64
	SstoreReset            uint64
	RefundSstoreClears     int64
	Balance                uint64
	Sload                  uint64
	Suicide                uint64
	SuicideNewAccount      uint64
	Call                   uint64
	ExpByte                uint64
	TransactionCreate      uint64
	TransactionCall        uint64
	TransactionZeroData    uint64
	TransactionNonZeroData uint64
}

// Features are the hard-fork feature switches and limits. A nil
// CreateContractLimit means contract size is unlimited.
type Features struct {
	SstoreGasMetering        bool
	SstoreRevertUnderStipend bool
	ErrOnCallWithMoreGas     bool
	CallL64AfterGas          bool
	EmptyConsideredExists    bool
	CreateIncreaseNonce      bool
	StackLimit               uint64
	MemoryLimit              uint64
	CallStackLimit           uint64
	CreateContractLimit      *uint64
	CallStipend              uint64
	HasDelegateCall          bool
	HasCreate2               bool
	HasRevert                bool
	HasReturnData            bool
	HasBitwiseShifting       bool
	HasChainID               bool
	HasSelfBalance           bool
	HasExtCodeHash           bool
	Estimate                 bool
}

// Environment is the block execution environment
type Environment struct {
	GasPrice        Word
	Origin          Address
	ChainID         Word
	BlockHashes     []Hash
	BlockNumber     Word
	BlockCoinbase   Address
	BlockTimestamp  Word
	BlockDifficulty Word
	BlockGasLimit   Word
}

// Params is the full EVM configuration
type Params struct {
	Gas         GasSchedule
	Features    Features
	Environment Environment
}

// Istanbul returns the default Istanbul-era configuration with an empty
// environment
func Istanbul() Params {
	limit := uint64(0x6000)
	return Params{
		Gas: GasSchedule{
			ExtCode:                700,
			ExtCodeHash:            700,
			SstoreSet:              20000,
			SstoreReset:            5000,
			RefundSstoreClears:     15000,
			Balance:                700,
			Sload:                  800,
			Suicide:                5000,
			SuicideNewAccount:      25000,
			Call:                   700,
			ExpByte:                50,
			TransactionCreate:      53000,
			TransactionCall:        21000,
			TransactionZeroData:    4,
			TransactionNonZeroData: 16,
		},
		Features: Features{
			SstoreGasMetering:        true,
			SstoreRevertUnderStipend: true,
			ErrOnCallWithMoreGas:     false,
			CallL64AfterGas:          true,
			EmptyConsideredExists:    false,
			CreateIncreaseNonce:      true,
			StackLimit:               1024,
			MemoryLimit:              0xffffffffffffffff,
			CallStackLimit:           1024,
			CreateContractLimit:      &limit,
			CallStipend:              2300,
			HasDelegateCall:          true,
			HasCreate2:               true,
			HasRevert:                true,
			HasReturnData:            true,
			HasBitwiseShifting:       true,
			HasChainID:               true,
			HasSelfBalance:           true,
			HasExtCodeHash:           true,
			Estimate:                 false,
		},
	}
}

// Encode returns the version byte, a u32 body length and the body
func (p Params) Encode() ([]byte, error) {
	body, err := codec.EncodeToBytes(p.writeBody)
	if err != nil {
		return nil, err
	}
	return codec.EncodeToBytes(func(w *codec.Writer) error {
		if err := w.PutU8(Version); err != nil {
			return err
		}
		if err := w.PutU32(uint32(len(body))); err != nil {
			return err
		}
		return w.PutBytes(body)
	})
}

// Digest is the Blake2b-256 of the encoded block
func (p Params) Digest() (digest.Hash, error) {
	data, err := p.Encode()
	if err != nil {
		return digest.Hash{}, err
	}
	return digest.Sum(data), nil
}

// Reference builds the core config parameter that points at this block
func (p Params) Reference() (params.EvmParams, error) {
	d, err := p.Digest()
	if err != nil {
		return params.EvmParams{}, err
	}
	return params.EvmParams{Version: Version, Digest: d}, nil
}

// Matches reports whether ref points at this block
func (p Params) Matches(ref params.EvmParams) bool {
	d, err := p.Digest()
	if err != nil {
		return false
	}
	return ref.Version == Version && ref.Digest == d
}

func (p Params) writeBody(w *codec.Writer) error {
	g := p.Gas
	for _, v := range []uint64{
		g.ExtCode,
		g.ExtCodeHash,
		g.SstoreSet,
		g.SstoreReset,
		uint64(g.RefundSstoreClears),
		g.Balance,
		g.Sload,
		g.Suicide,
		g.SuicideNewAccount,
		g.Call,
		g.ExpByte,
		g.TransactionCreate,
		g.TransactionCall,
		g.TransactionZeroData,
		g.TransactionNonZeroData,
	} {
		if err := w.PutU64(v); err != nil {
			return err
		}
	}
	f := p.Features
	for _, b := range []bool{
		f.SstoreGasMetering,
		f.SstoreRevertUnderStipend,
		f.ErrOnCallWithMoreGas,
		f.CallL64AfterGas,
		f.EmptyConsideredExists,
		f.CreateIncreaseNonce,
	} {
		if err := w.PutBool(b); err != nil {
			return err
		}
	}
	for _, v := range []uint64{f.StackLimit, f.MemoryLimit, f.CallStackLimit} {
		if err := w.PutU64(v); err != nil {
			return err
		}
	}
	if f.CreateContractLimit == nil {
		if err := w.PutBool(false); err != nil {
			return err
		}
	} else {
		if err := w.PutBool(true); err != nil {
			return err
		}
		if err := w.PutU64(*f.CreateContractLimit); err != nil {
			return err
		}
	}
	if err := w.PutU64(f.CallStipend); err != nil {
		return err
	}
	for _, b := range []bool{
		f.HasDelegateCall,
		f.HasCreate2,
		f.HasRevert,
		f.HasReturnData,
		f.HasBitwiseShifting,
		f.HasChainID,
		f.HasSelfBalance,
		f.HasExtCodeHash,
		f.Estimate,
	} {
		if err := w.PutBool(b); err != nil {
			return err
		}
	}
	e := p.Environment
	if err := putAll(w, e.GasPrice[:], e.Origin[:], e.ChainID[:]); err != nil {
		return err
	}
	if err := w.PutU64(uint64(len(e.BlockHashes))); err != nil {
		return err
	}
	for _, h := range e.BlockHashes {
		if err := w.PutBytes(h[:]); err != nil {
			return err
		}
	}
	return putAll(
		w,
		e.BlockNumber[:],
		e.BlockCoinbase[:],
		e.BlockTimestamp[:],
		e.BlockDifficulty[:],
		e.BlockGasLimit[:],
	)
}

func putAll(w *codec.Writer, runs ...[]byte) error {
	for _, run := range runs {
		if err := w.PutBytes(run); err != nil {
			return err
		}
	}
	return nil
}

// Decode parses a block produced by Encode. The data must be consumed
// exactly.
func Decode(data []byte) (Params, error) {
	r := codec.NewBytesReader(data)
	version, err := r.GetU8()
	if err != nil {
		return Params{}, err
	}
	if version != Version {
		return Params{}, codec.StructureInvalid("unknown evm params version %d", version)
	}
	length, err := r.GetU32()
	if err != nil {
		return Params{}, err
	}
	body, err := r.GetBytes(int(length))
	if err != nil {
		return Params{}, err
	}
	if err := r.ExpectEnd(); err != nil {
		return Params{}, err
	}
	br := codec.NewBytesReader(body)
	p, err := readBody(br)
	if err != nil {
		return Params{}, fmt.Errorf("decode evm params: %w", err)
	}
	if err := br.ExpectEnd(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func readBody(r *codec.Reader) (Params, error) {
	var p Params
	g := &p.Gas
	var refund uint64
	for _, dst := range []*uint64{
		&g.ExtCode,
		&g.ExtCodeHash,
		&g.SstoreSet,
		&g.SstoreReset,
		&refund,
		&g.Balance,
		&g.Sload,
		&g.Suicide,
		&g.SuicideNewAccount,
		&g.Call,
		&g.ExpByte,
		&g.TransactionCreate,
		&g.TransactionCall,
		&g.TransactionZeroData,
		&g.TransactionNonZeroData,
	} {
		v, err := r.GetU64()
		if err != nil {
			return p, err
		}
		*dst = v
	}
	g.RefundSstoreClears = int64(refund)
	f := &p.Features
	if err := getBools(
		r,
		&f.SstoreGasMetering,
		&f.SstoreRevertUnderStipend,
		&f.ErrOnCallWithMoreGas,
		&f.CallL64AfterGas,
		&f.EmptyConsideredExists,
		&f.CreateIncreaseNonce,
	); err != nil {
		return p, err
	}
	for _, dst := range []*uint64{&f.StackLimit, &f.MemoryLimit, &f.CallStackLimit} {
		v, err := r.GetU64()
		if err != nil {
			return p, err
		}
		*dst = v
	}
	hasLimit, err := r.GetBool()
	if err != nil {
		return p, err
	}
	if hasLimit {
		limit, err := r.GetU64()
		if err != nil {
			return p, err
		}
		f.CreateContractLimit = &limit
	}
	if f.CallStipend, err = r.GetU64(); err != nil {
		return p, err
	}
	if err := getBools(
		r,
		&f.HasDelegateCall,
		&f.HasCreate2,
		&f.HasRevert,
		&f.HasReturnData,
		&f.HasBitwiseShifting,
		&f.HasChainID,
		&f.HasSelfBalance,
		&f.HasExtCodeHash,
		&f.Estimate,
	); err != nil {
		return p, err
	}
	e := &p.Environment
	if err := getAll(r, e.GasPrice[:], e.Origin[:], e.ChainID[:]); err != nil {
		return p, err
	}
	count, err := r.GetU64()
	if err != nil {
		return p, err
	}
	if count > maxBlockHashes {
		return p, codec.StructureInvalid("too many block hashes: %d", count)
	}
	if count > 0 {
		e.BlockHashes = make([]Hash, count)
		for i := range e.BlockHashes {
			if err := getAll(r, e.BlockHashes[i][:]); err != nil {
				return p, err
			}
		}
	}
	err = getAll(
		r,
		e.BlockNumber[:],
		e.BlockCoinbase[:],
		e.BlockTimestamp[:],
		e.BlockDifficulty[:],
		e.BlockGasLimit[:],
	)
	return p, err
}

func getBools(r *codec.Reader, dsts ...*bool) error {
	for _, dst := range dsts {
		v, err := r.GetBool()
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func getAll(r *codec.Reader, dsts ...[]byte) error {
	for _, dst := range dsts {
		buf, err := r.GetBytes(len(dst))
		if err != nil {
			return err
		}
		copy(dst, buf)
	}
	return nil
}

// Equal compares two parameter blocks by their encodings
func (p Params) Equal(other Params) bool {
	a, errA := p.Encode()
	b, errB := other.Encode()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}
