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

package block

import (
	"crypto/ed25519"
	"fmt"
	"math"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/fragment"
	"github.com/blinklabs-io/chaincore/keys"
)

// maxHeaderSize bounds the framed header length accepted on decode
const maxHeaderSize = 4096

// Block is a header bound to its fragment contents by the content hash.
// Two blocks are equal when their header ids are equal.
type Block struct {
	header   Header
	contents fragment.Contents
	id       HeaderID
}

func newBlock(header Header, contents fragment.Contents) (Block, error) {
	id, err := header.ID()
	if err != nil {
		return Block{}, err
	}
	return Block{header: header, contents: contents, id: id}, nil
}

// checkContents rejects fragments that Read would refuse
func checkContents(contents fragment.Contents) error {
	for i, raw := range contents {
		if _, err := fragment.FromRaw(raw); err != nil {
			return fmt.Errorf("fragment %d: %w", i, err)
		}
	}
	return nil
}

// Build fills the content hash and size of common from contents, sets the
// version from proof and returns the finished block. Every fragment must
// decode with fragment.FromRaw.
func Build(common Common, proof Proof, contents fragment.Contents) (Block, error) {
	if proof == nil {
		proof = NoProof{}
	}
	if err := checkContents(contents); err != nil {
		return Block{}, err
	}
	hash, size := contents.ComputeHashSize()
	if size > math.MaxUint32 {
		return Block{}, fmt.Errorf("block content too large: %d bytes", size)
	}
	common.Version = proof.Version()
	common.ContentHash = hash
	common.ContentSize = uint32(size)
	return newBlock(Header{Common: common, Proof: proof}, contents)
}

// BuildBft builds a block signed by a BFT leader
func BuildBft(
	common Common,
	contents fragment.Contents,
	leader ed25519.PrivateKey,
) (Block, error) {
	if err := checkContents(contents); err != nil {
		return Block{}, err
	}
	hash, size := contents.ComputeHashSize()
	if size > math.MaxUint32 {
		return Block{}, fmt.Errorf("block content too large: %d bytes", size)
	}
	common.Version = VersionBft
	common.ContentHash = hash
	common.ContentSize = uint32(size)
	unsigned := Header{Common: common}
	proof := BftProof{
		Leader:    keys.PublicKeyOf(leader),
		Signature: keys.Sign(leader, unsigned.SigningData()),
	}
	return newBlock(Header{Common: common, Proof: proof}, contents)
}

func (b Block) Header() Header {
	return b.header
}

func (b Block) Contents() fragment.Contents {
	return b.contents
}

func (b Block) ID() HeaderID {
	return b.id
}

func (b Block) ParentID() HeaderID {
	return b.header.Parent
}

func (b Block) Date() Date {
	return b.header.Date
}

func (b Block) ChainLength() ChainLength {
	return b.header.ChainLength
}

func (b Block) Version() Version {
	return b.header.Version
}

// Equal compares header ids only
func (b Block) Equal(other Block) bool {
	return b.id == other.id
}

// Fragments decodes the kind and body of every fragment
func (b Block) Fragments() ([]fragment.Fragment, error) {
	ret := make([]fragment.Fragment, 0, len(b.contents))
	for i, raw := range b.contents {
		f, err := fragment.FromRaw(raw)
		if err != nil {
			return nil, fmt.Errorf("fragment %d: %w", i, err)
		}
		ret = append(ret, f)
	}
	return ret, nil
}

// Write writes the u32-framed header followed by the framed fragments
func (b Block) Write(w *codec.Writer) error {
	header, err := b.header.Bytes()
	if err != nil {
		return err
	}
	if err := w.PutU32(uint32(len(header))); err != nil {
		return err
	}
	if err := w.PutBytes(header); err != nil {
		return err
	}
	return b.contents.Write(w)
}

// Bytes is the full block encoding
func (b Block) Bytes() ([]byte, error) {
	return codec.EncodeToBytes(b.Write)
}

// Read decodes a block from r, checking the declared content size and
// content hash against the fragments. A bounded reader reports content
// declared past its end as codec.ErrStructureInvalid. A stream reader cannot
// know its length, so the same defect surfaces as codec.ErrUnexpectedEnd.
func Read(r *codec.Reader) (Block, error) {
	headerLen, err := r.GetU32()
	if err != nil {
		return Block{}, err
	}
	if headerLen > maxHeaderSize {
		return Block{}, codec.StructureInvalid("header of %d bytes is too large", headerLen)
	}
	headerData, err := r.GetBytes(int(headerLen))
	if err != nil {
		return Block{}, err
	}
	header, err := DecodeHeader(headerData)
	if err != nil {
		return Block{}, fmt.Errorf("decode header: %w", err)
	}
	if rem, ok := r.Remaining(); ok && rem < int64(header.ContentSize) {
		return Block{}, codec.StructureInvalid(
			"header declares %d content bytes but only %d remain",
			header.ContentSize,
			rem,
		)
	}
	contents, err := fragment.ReadContents(r, header.ContentSize)
	if err != nil {
		return Block{}, err
	}
	if err := checkContents(contents); err != nil {
		return Block{}, err
	}
	contentHash, _ := contents.ComputeHashSize()
	if contentHash != header.ContentHash {
		return Block{}, codec.InvalidData(
			"Inconsistent block content hash in header: block %s header %s",
			contentHash,
			header.ContentHash,
		)
	}
	return newBlock(header, contents)
}

// Decode decodes a block that spans all of data. Bytes past the declared
// content fail with ErrStructureInvalid.
func Decode(data []byte) (Block, error) {
	r := codec.NewBytesReader(data)
	b, err := Read(r)
	if err != nil {
		return Block{}, err
	}
	if err := r.ExpectEnd(); err != nil {
		return Block{}, fmt.Errorf(
			"%w: content beyond the declared size: %w",
			codec.ErrStructureInvalid,
			err,
		)
	}
	return b, nil
}
