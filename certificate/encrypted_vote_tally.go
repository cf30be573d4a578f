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

package certificate

import (
	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/keys"
	"github.com/blinklabs-io/chaincore/params"
)

// EncryptedVoteTally starts the tally of a private vote plan
type EncryptedVoteTally struct {
	VotePlan VotePlanId
}

// EncryptedVoteTallyProof is the committee member signature over the
// transaction binding data
type EncryptedVoteTallyProof struct {
	Committee params.CommitteeId
	Signature keys.Signature
}

var _ Payload[EncryptedVoteTallyProof] = EncryptedVoteTally{}

func (EncryptedVoteTally) HasData() bool { return true }

func (EncryptedVoteTally) HasAuth() bool { return true }

func (e EncryptedVoteTally) PayloadData() []byte {
	return append([]byte(nil), e.VotePlan[:]...)
}

func (EncryptedVoteTally) PayloadAuthData(auth EncryptedVoteTallyProof) []byte {
	ret := make([]byte, 0, len(auth.Committee)+len(auth.Signature))
	ret = append(ret, auth.Committee[:]...)
	return append(ret, auth.Signature[:]...)
}

// Verify checks the signature against the committee member key. The
// committee id is the member's public key.
func (p EncryptedVoteTallyProof) Verify(bindingData []byte) keys.Verification {
	return keys.Verify(keys.PublicKey(p.Committee), bindingData, p.Signature)
}

// ReadEncryptedVoteTally reads the vote plan id
func ReadEncryptedVoteTally(r *codec.Reader) (EncryptedVoteTally, error) {
	plan, err := r.GetArray32()
	if err != nil {
		return EncryptedVoteTally{}, err
	}
	return EncryptedVoteTally{VotePlan: plan}, nil
}

// ReadEncryptedVoteTallyProof reads a committee id and its signature
func ReadEncryptedVoteTallyProof(r *codec.Reader) (EncryptedVoteTallyProof, error) {
	var ret EncryptedVoteTallyProof
	id, err := r.GetArray32()
	if err != nil {
		return ret, err
	}
	ret.Committee = id
	sig, err := r.GetBytes(keys.SignatureSize)
	if err != nil {
		return ret, err
	}
	copy(ret.Signature[:], sig)
	return ret, nil
}
