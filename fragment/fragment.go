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

package fragment

import (
	"bytes"
	"fmt"

	"github.com/blinklabs-io/chaincore/certificate"
	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/params"
)

// Kind identifies the content of a fragment
type Kind uint8

const (
	KindInitial              Kind = 0
	KindOldUtxoDeclaration   Kind = 1
	KindTransaction          Kind = 2
	KindOwnerStakeDelegation Kind = 3
	KindStakeDelegation      Kind = 4
	KindPoolRegistration     Kind = 5
	KindPoolRetirement       Kind = 6
	KindPoolUpdate           Kind = 7
	KindUpdateProposal       Kind = 8
	KindUpdateVote           Kind = 9
	KindVotePlan             Kind = 10
	KindVoteCast             Kind = 11
	KindVoteTally            Kind = 12
	KindEncryptedVoteTally   Kind = 13
	KindMintToken            Kind = 14
	KindEvm                  Kind = 15
	KindEvmMapping           Kind = 16
)

var kindNames = [...]string{
	KindInitial:              "initial",
	KindOldUtxoDeclaration:   "old-utxo-declaration",
	KindTransaction:          "transaction",
	KindOwnerStakeDelegation: "owner-stake-delegation",
	KindStakeDelegation:      "stake-delegation",
	KindPoolRegistration:     "pool-registration",
	KindPoolRetirement:       "pool-retirement",
	KindPoolUpdate:           "pool-update",
	KindUpdateProposal:       "update-proposal",
	KindUpdateVote:           "update-vote",
	KindVotePlan:             "vote-plan",
	KindVoteCast:             "vote-cast",
	KindVoteTally:            "vote-tally",
	KindEncryptedVoteTally:   "encrypted-vote-tally",
	KindMintToken:            "mint-token",
	KindEvm:                  "evm",
	KindEvmMapping:           "evm-mapping",
}

func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown-kind-%d", uint8(k))
}

// Fragment is a decoded fragment header with its body. Bodies of kinds
// without a typed accessor stay opaque.
type Fragment struct {
	Kind Kind
	Body []byte
}

// FromRaw splits a raw payload into reserved byte, kind and body
func FromRaw(raw Raw) (Fragment, error) {
	if len(raw) < 2 {
		return Fragment{}, codec.StructureInvalid(
			"fragment payload of %d bytes is too short",
			len(raw),
		)
	}
	if raw[0] != 0 {
		return Fragment{}, codec.StructureInvalid(
			"fragment reserved byte is %d",
			raw[0],
		)
	}
	kind := Kind(raw[1])
	if !kind.Valid() {
		return Fragment{}, codec.StructureInvalid("unknown fragment kind %d", raw[1])
	}
	return Fragment{
		Kind: kind,
		Body: bytes.Clone(raw[2:]),
	}, nil
}

// ToRaw builds the raw payload
func (f Fragment) ToRaw() Raw {
	ret := make([]byte, 0, 2+len(f.Body))
	ret = append(ret, 0, uint8(f.Kind))
	return Raw(append(ret, f.Body...))
}

// ID is the id of the raw payload
func (f Fragment) ID() ID {
	return f.ToRaw().ID()
}

// NewInitial wraps the genesis parameters
func NewInitial(cp params.ConfigParams) (Fragment, error) {
	body, err := cp.Bytes()
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Kind: KindInitial, Body: body}, nil
}

// Initial decodes the body of an initial fragment
func (f Fragment) Initial(opts ...params.DecodeOptionFunc) (params.ConfigParams, error) {
	if err := f.expectKind(KindInitial); err != nil {
		return nil, err
	}
	return params.DecodeConfigParams(f.Body, opts...)
}

// NewVoteCast wraps a vote
func NewVoteCast(vc certificate.VoteCast) (Fragment, error) {
	if err := vc.Validate(); err != nil {
		return Fragment{}, err
	}
	return Fragment{Kind: KindVoteCast, Body: vc.PayloadData()}, nil
}

// VoteCast decodes the body of a vote cast fragment
func (f Fragment) VoteCast() (certificate.VoteCast, error) {
	if err := f.expectKind(KindVoteCast); err != nil {
		return certificate.VoteCast{}, err
	}
	return certificate.DecodeVoteCast(f.Body)
}

// NewEncryptedVoteTally wraps a tally with its committee proof
func NewEncryptedVoteTally(
	tally certificate.EncryptedVoteTally,
	proof certificate.EncryptedVoteTallyProof,
) Fragment {
	return Fragment{
		Kind: KindEncryptedVoteTally,
		Body: certificate.Bytes[certificate.EncryptedVoteTallyProof](tally, proof),
	}
}

// EncryptedVoteTally decodes the payload data followed by the auth data
func (f Fragment) EncryptedVoteTally() (
	certificate.EncryptedVoteTally,
	certificate.EncryptedVoteTallyProof,
	error,
) {
	var tally certificate.EncryptedVoteTally
	var proof certificate.EncryptedVoteTallyProof
	if err := f.expectKind(KindEncryptedVoteTally); err != nil {
		return tally, proof, err
	}
	r := codec.NewBytesReader(f.Body)
	tally, err := certificate.ReadEncryptedVoteTally(r)
	if err != nil {
		return tally, proof, err
	}
	proof, err = certificate.ReadEncryptedVoteTallyProof(r)
	if err != nil {
		return tally, proof, err
	}
	return tally, proof, r.ExpectEnd()
}

func (f Fragment) expectKind(kind Kind) error {
	if f.Kind != kind {
		return fmt.Errorf("fragment is %s, not %s", f.Kind, kind)
	}
	return nil
}
