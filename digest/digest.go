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

// Package digest provides the content-addressing hash used for block ids,
// fragment ids and content hashes.
package digest

import (
	"encoding/hex"
	"fmt"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Size is the length in bytes of a Hash
const Size = lcommon.Blake2b256Size

// Hash is a Blake2b-256 digest
type Hash [Size]byte

// Sum computes the Blake2b-256 digest of data
func Sum(data []byte) Hash {
	return Hash(lcommon.Blake2b256Hash(data))
}

// FromBytes copies a 32-byte slice into a Hash
func FromBytes(data []byte) (Hash, error) {
	var h Hash
	if len(data) != Size {
		return h, fmt.Errorf(
			"invalid digest length: expected %d, got %d",
			Size,
			len(data),
		)
	}
	copy(h[:], data)
	return h, nil
}

// FromHex decodes a hex-encoded Hash
func FromHex(s string) (Hash, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("decode digest hex: %w", err)
	}
	return FromBytes(data)
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	tmp, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*h = tmp
	return nil
}
