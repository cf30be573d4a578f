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

// Package fragment implements the length-prefixed framing of the
// transaction-like units carried inside a block.
package fragment

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/digest"
)

// ID identifies a fragment by the hash of its payload
type ID = digest.Hash

// Raw is the serialized payload of a fragment, without its length prefix
type Raw []byte

// SizeBytesPlusSize is the framed size: the u32 prefix plus the payload
func (r Raw) SizeBytesPlusSize() int {
	return 4 + len(r)
}

// ID hashes the payload. The length prefix is not included.
func (r Raw) ID() ID {
	return digest.Sum(r)
}

// Write writes the u32 length followed by the payload
func (r Raw) Write(w *codec.Writer) error {
	if uint64(len(r)) > math.MaxUint32 {
		return fmt.Errorf("fragment too large: %d bytes", len(r))
	}
	if err := w.PutU32(uint32(len(r))); err != nil {
		return err
	}
	return w.PutBytes(r)
}

// Framed returns the length-prefixed encoding
func (r Raw) Framed() []byte {
	ret := make([]byte, 0, r.SizeBytesPlusSize())
	ret = binary.BigEndian.AppendUint32(ret, uint32(len(r)))
	return append(ret, r...)
}

// ReadRaw reads a u32 length and exactly that many payload bytes. A short
// read fails; there is no partial result.
func ReadRaw(r *codec.Reader) (Raw, error) {
	size, err := r.GetU32()
	if err != nil {
		return nil, err
	}
	return readRawBody(r, size)
}

func readRawBody(r *codec.Reader, size uint32) (Raw, error) {
	data, err := r.GetBytes(int(size))
	if err != nil {
		return nil, fmt.Errorf("read fragment of %d bytes: %w", size, err)
	}
	return Raw(data), nil
}
