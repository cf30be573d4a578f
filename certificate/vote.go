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

// VoteKind tags the vote payload
type VoteKind uint8

const (
	VotePublic  VoteKind = 1
	VotePrivate VoteKind = 2
)

// maxVoteRun is the largest encrypted vote or proof that fits the u16
// length prefix
const maxVoteRun = 0xffff

// VotePayload is a public choice or an encrypted vote with its proof
type VotePayload struct {
	Kind          VoteKind
	Choice        uint8
	EncryptedVote []byte
	Proof         []byte
}

// PublicVote builds a plain-text vote for choice
func PublicVote(choice uint8) VotePayload {
	return VotePayload{Kind: VotePublic, Choice: choice}
}

// PrivateVote builds an encrypted vote
func PrivateVote(encryptedVote, proof []byte) VotePayload {
	return VotePayload{
		Kind:          VotePrivate,
		EncryptedVote: encryptedVote,
		Proof:         proof,
	}
}

func (v VotePayload) write(w *codec.Writer) error {
	if err := w.PutU8(uint8(v.Kind)); err != nil {
		return err
	}
	switch v.Kind {
	case VotePublic:
		return w.PutU8(v.Choice)
	case VotePrivate:
		for _, run := range [][]byte{v.EncryptedVote, v.Proof} {
			if len(run) > maxVoteRun {
				return fmt.Errorf("private vote component too large: %d bytes", len(run))
			}
			if err := w.PutU16(uint16(len(run))); err != nil {
				return err
			}
			if err := w.PutBytes(run); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown vote kind %d", v.Kind)
	}
}

func readVotePayload(r *codec.Reader) (VotePayload, error) {
	kind, err := r.GetU8()
	if err != nil {
		return VotePayload{}, err
	}
	switch VoteKind(kind) {
	case VotePublic:
		choice, err := r.GetU8()
		if err != nil {
			return VotePayload{}, err
		}
		return PublicVote(choice), nil
	case VotePrivate:
		var runs [2][]byte
		for i := range runs {
			length, err := r.GetU16()
			if err != nil {
				return VotePayload{}, err
			}
			if runs[i], err = r.GetBytes(int(length)); err != nil {
				return VotePayload{}, err
			}
		}
		return PrivateVote(runs[0], runs[1]), nil
	default:
		return VotePayload{}, codec.StructureInvalid("unknown vote payload tag %d", kind)
	}
}
