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

// Package snapshot implements the ledger snapshot stream: a sequence of
// entries, each a one-byte code followed by its body, closed by an end
// marker.
package snapshot

import (
	"fmt"

	"github.com/blinklabs-io/chaincore/block"
	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/keys"
	"github.com/blinklabs-io/chaincore/ledger"
	"github.com/blinklabs-io/chaincore/params"
)

// Code is the discriminant written before each entry
type Code uint8

const (
	CodeGlobals             Code = 0
	CodePot                 Code = 1
	CodeUtxo                Code = 2
	CodeOldUtxo             Code = 3
	CodeAccount             Code = 4
	CodeConfigParam         Code = 5
	CodeUpdateProposal      Code = 6
	CodeMultisigAccount     Code = 7
	CodeMultisigDeclaration Code = 8
	CodeStakePool           Code = 9
	CodeLeaderParticipation Code = 10
	// CodeEnd terminates the stream
	CodeEnd Code = 11
)

var codeNames = [...]string{
	CodeGlobals:             "globals",
	CodePot:                 "pot",
	CodeUtxo:                "utxo",
	CodeOldUtxo:             "old-utxo",
	CodeAccount:             "account",
	CodeConfigParam:         "config-param",
	CodeUpdateProposal:      "update-proposal",
	CodeMultisigAccount:     "multisig-account",
	CodeMultisigDeclaration: "multisig-declaration",
	CodeStakePool:           "stake-pool",
	CodeLeaderParticipation: "leader-participation",
	CodeEnd:                 "end",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// Entry is one element of the snapshot stream
type Entry interface {
	Code() Code
	writeBody(w *codec.Writer) error
}

// Globals are the chain position and static parameters
type Globals struct {
	Date        block.Date
	ChainLength block.ChainLength
	Static      StaticParams
	Era         TimeEra
}

func (Globals) Code() Code { return CodeGlobals }

func (g Globals) writeBody(w *codec.Writer) error {
	if err := writeDate(w, g.Date); err != nil {
		return err
	}
	if err := w.PutU32(uint32(g.ChainLength)); err != nil {
		return err
	}
	if err := g.Static.write(w); err != nil {
		return err
	}
	return g.Era.write(w)
}

func readGlobals(r *codec.Reader) (Globals, error) {
	var g Globals
	var err error
	if g.Date, err = readDate(r); err != nil {
		return g, err
	}
	length, err := r.GetU32()
	if err != nil {
		return g, err
	}
	g.ChainLength = block.ChainLength(length)
	if g.Static, err = readStaticParams(r); err != nil {
		return g, err
	}
	if g.Era, err = readTimeEra(r); err != nil {
		return g, err
	}
	return g, nil
}

// Pot is the value of one of the special pools
type Pot struct {
	ledger.Entry
}

func (Pot) Code() Code { return CodePot }

func (p Pot) writeBody(w *codec.Writer) error {
	return p.Entry.Write(w)
}

// Utxo is an unspent output
type Utxo struct {
	Pointer UtxoPointer
	Output  Output
}

func (Utxo) Code() Code { return CodeUtxo }

func (u Utxo) writeBody(w *codec.Writer) error {
	return writeUtxo(w, u.Pointer, u.Output)
}

// OldUtxo is an unspent output paying to a legacy address
type OldUtxo struct {
	Pointer UtxoPointer
	Output  Output
}

func (OldUtxo) Code() Code { return CodeOldUtxo }

func (u OldUtxo) writeBody(w *codec.Writer) error {
	return writeUtxo(w, u.Pointer, u.Output)
}

// Account is a single-key account
type Account struct {
	ID    keys.PublicKey
	State AccountState
}

func (Account) Code() Code { return CodeAccount }

func (a Account) writeBody(w *codec.Writer) error {
	if err := w.PutBytes(a.ID[:]); err != nil {
		return err
	}
	return a.State.write(w)
}

// ConfigParam is one active chain parameter
type ConfigParam struct {
	Param params.ConfigParam
}

func (ConfigParam) Code() Code { return CodeConfigParam }

func (c ConfigParam) writeBody(w *codec.Writer) error {
	return params.WriteConfigParam(w, c.Param)
}

// UpdateProposal is a pending parameter update
type UpdateProposal struct {
	ID    digest.Hash
	State ProposalState
}

func (UpdateProposal) Code() Code { return CodeUpdateProposal }

func (u UpdateProposal) writeBody(w *codec.Writer) error {
	if err := w.PutBytes(u.ID[:]); err != nil {
		return err
	}
	return u.State.write(w)
}

// MultisigAccount is an account controlled by a declaration
type MultisigAccount struct {
	ID    digest.Hash
	State AccountState
}

func (MultisigAccount) Code() Code { return CodeMultisigAccount }

func (m MultisigAccount) writeBody(w *codec.Writer) error {
	if err := w.PutBytes(m.ID[:]); err != nil {
		return err
	}
	return m.State.write(w)
}

// MultisigDeclaration is the policy of a multisig account
type MultisigDeclaration struct {
	ID          digest.Hash
	Declaration Declaration
}

func (MultisigDeclaration) Code() Code { return CodeMultisigDeclaration }

func (m MultisigDeclaration) writeBody(w *codec.Writer) error {
	if err := w.PutBytes(m.ID[:]); err != nil {
		return err
	}
	return m.Declaration.write(w)
}

// StakePool is a registered pool
type StakePool struct {
	ID    PoolID
	State PoolState
}

func (StakePool) Code() Code { return CodeStakePool }

func (s StakePool) writeBody(w *codec.Writer) error {
	if err := writeDigest(w, s.ID); err != nil {
		return err
	}
	return s.State.write(w)
}

// LeaderParticipation counts the blocks produced by a pool in the current
// epoch
type LeaderParticipation struct {
	Pool   PoolID
	Blocks uint32
}

func (LeaderParticipation) Code() Code { return CodeLeaderParticipation }

func (l LeaderParticipation) writeBody(w *codec.Writer) error {
	if err := writeDigest(w, l.Pool); err != nil {
		return err
	}
	return w.PutU32(l.Blocks)
}

// WriteEntry writes the code of e followed by its body
func WriteEntry(w *codec.Writer, e Entry) error {
	if err := w.PutU8(uint8(e.Code())); err != nil {
		return err
	}
	return e.writeBody(w)
}

func readEntryBody(
	r *codec.Reader,
	code Code,
	opts []params.DecodeOptionFunc,
) (Entry, error) {
	switch code {
	case CodeGlobals:
		return readGlobals(r)
	case CodePot:
		e, err := ledger.ReadEntry(r)
		if err != nil {
			return nil, err
		}
		return Pot{Entry: e}, nil
	case CodeUtxo:
		p, o, err := readUtxo(r)
		if err != nil {
			return nil, err
		}
		return Utxo{Pointer: p, Output: o}, nil
	case CodeOldUtxo:
		p, o, err := readUtxo(r)
		if err != nil {
			return nil, err
		}
		return OldUtxo{Pointer: p, Output: o}, nil
	case CodeAccount:
		id, err := r.GetArray32()
		if err != nil {
			return nil, err
		}
		state, err := readAccountState(r)
		if err != nil {
			return nil, err
		}
		return Account{ID: id, State: state}, nil
	case CodeConfigParam:
		p, err := params.ReadConfigParam(r, opts...)
		if err != nil {
			return nil, err
		}
		return ConfigParam{Param: p}, nil
	case CodeUpdateProposal:
		id, err := r.GetArray32()
		if err != nil {
			return nil, err
		}
		state, err := readProposalState(r, opts)
		if err != nil {
			return nil, err
		}
		return UpdateProposal{ID: id, State: state}, nil
	case CodeMultisigAccount:
		id, err := r.GetArray32()
		if err != nil {
			return nil, err
		}
		state, err := readAccountState(r)
		if err != nil {
			return nil, err
		}
		return MultisigAccount{ID: id, State: state}, nil
	case CodeMultisigDeclaration:
		id, err := r.GetArray32()
		if err != nil {
			return nil, err
		}
		decl, err := readDeclaration(r, 0)
		if err != nil {
			return nil, err
		}
		return MultisigDeclaration{ID: id, Declaration: decl}, nil
	case CodeStakePool:
		id, err := readDigest(r)
		if err != nil {
			return nil, err
		}
		state, err := readPoolState(r)
		if err != nil {
			return nil, err
		}
		return StakePool{ID: id, State: state}, nil
	case CodeLeaderParticipation:
		pool, err := readDigest(r)
		if err != nil {
			return nil, err
		}
		blocks, err := r.GetU32()
		if err != nil {
			return nil, err
		}
		return LeaderParticipation{Pool: pool, Blocks: blocks}, nil
	default:
		return nil, codec.StructureInvalid("unknown snapshot entry code %d", uint8(code))
	}
}
