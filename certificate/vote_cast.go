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
	"fmt"

	"github.com/blinklabs-io/chaincore/codec"
)

// VoteCast is a vote on one proposal of a vote plan. It carries no
// authentication of its own: the enclosing transaction witnesses it.
type VoteCast struct {
	VotePlan      VotePlanId
	ProposalIndex uint8
	Payload       VotePayload
}

var _ Payload[NoAuth] = VoteCast{}

func (VoteCast) HasData() bool { return true }

func (VoteCast) HasAuth() bool { return false }

// PayloadData panics when the vote cannot be encoded. Check Validate first
// on votes built by hand.
func (v VoteCast) PayloadData() []byte {
	data, err := codec.EncodeToBytes(v.Write)
	if err != nil {
		panic(fmt.Sprintf("certificate: invalid vote cast: %s", err))
	}
	return data
}

func (VoteCast) PayloadAuthData(NoAuth) []byte {
	return []byte{}
}

// Validate checks that the payload can be encoded
func (v VoteCast) Validate() error {
	_, err := codec.EncodeToBytes(v.Write)
	return err
}

func (v VoteCast) Write(w *codec.Writer) error {
	if err := w.PutBytes(v.VotePlan[:]); err != nil {
		return err
	}
	if err := w.PutU8(v.ProposalIndex); err != nil {
		return err
	}
	return v.Payload.write(w)
}

// ReadVoteCast reads a VoteCast from r
func ReadVoteCast(r *codec.Reader) (VoteCast, error) {
	var ret VoteCast
	plan, err := r.GetArray32()
	if err != nil {
		return ret, err
	}
	ret.VotePlan = plan
	if ret.ProposalIndex, err = r.GetU8(); err != nil {
		return ret, err
	}
	if ret.Payload, err = readVotePayload(r); err != nil {
		return ret, err
	}
	return ret, nil
}

// DecodeVoteCast decodes a VoteCast that spans all of data
func DecodeVoteCast(data []byte) (VoteCast, error) {
	r := codec.NewBytesReader(data)
	ret, err := ReadVoteCast(r)
	if err != nil {
		return VoteCast{}, err
	}
	if err := r.ExpectEnd(); err != nil {
		return VoteCast{}, err
	}
	return ret, nil
}
