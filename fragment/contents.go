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
	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/digest"
)

// Contents is the ordered fragment list of a block
type Contents []Raw

// ContentsFromFragments converts decoded fragments to their raw form
func ContentsFromFragments(frags ...Fragment) Contents {
	ret := make(Contents, len(frags))
	for i, f := range frags {
		ret[i] = f.ToRaw()
	}
	return ret
}

// Len returns the number of fragments
func (c Contents) Len() int {
	return len(c)
}

// Size is the total framed size of all fragments
func (c Contents) Size() uint64 {
	var total uint64
	for _, raw := range c {
		total += uint64(raw.SizeBytesPlusSize())
	}
	return total
}

// ComputeHashSize returns the hash of the concatenated framed fragments and
// their total size. Empty contents hash the empty input.
func (c Contents) ComputeHashSize() (digest.Hash, uint64) {
	data := make([]byte, 0, c.Size())
	for _, raw := range c {
		data = append(data, raw.Framed()...)
	}
	return digest.Sum(data), uint64(len(data))
}

// Write writes each fragment framed, in order
func (c Contents) Write(w *codec.Writer) error {
	for _, raw := range c {
		if err := raw.Write(w); err != nil {
			return err
		}
	}
	return nil
}

// ReadContents reads framed fragments until exactly size bytes are
// consumed. A fragment that would run past size fails with
// ErrStructureInvalid before its body is read.
func ReadContents(r *codec.Reader, size uint32) (Contents, error) {
	var ret Contents
	remaining := uint64(size)
	for remaining > 0 {
		if remaining < 4 {
			return nil, codec.StructureInvalid(
				"%d bytes remaining according to the header but got a fragment of size %d",
				remaining,
				4,
			)
		}
		length, err := r.GetU32()
		if err != nil {
			return nil, err
		}
		framed := 4 + uint64(length)
		if framed > remaining {
			return nil, codec.StructureInvalid(
				"%d bytes remaining according to the header but got a fragment of size %d",
				remaining,
				framed,
			)
		}
		raw, err := readRawBody(r, length)
		if err != nil {
			return nil, err
		}
		ret = append(ret, raw)
		remaining -= framed
	}
	return ret, nil
}
