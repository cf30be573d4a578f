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

// Package block implements the block header, its leader proofs and the
// binding between a header and its fragment contents.
package block

import (
	"bytes"
	"fmt"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/keys"
)

// HeaderID is the hash of a serialized header
type HeaderID = digest.Hash

// Version selects the leader proof carried by the header
type Version uint16

const (
	VersionGenesis      Version = 0
	VersionBft          Version = 1
	VersionGenesisPraos Version = 2
)

func (v Version) String() string {
	switch v {
	case VersionGenesis:
		return "genesis"
	case VersionBft:
		return "bft"
	case VersionGenesisPraos:
		return "genesis-praos"
	default:
		return fmt.Sprintf("version(%d)", uint16(v))
	}
}

const (
	VrfProofSize     = 96
	KesSignatureSize = 484
	// commonSize is the header length without the proof
	commonSize = 2 + 4 + 4 + 4 + 4 + digest.Size + digest.Size
)

// Date is the position of a block in time
type Date struct {
	Epoch uint32
	Slot  uint32
}

func (d Date) String() string {
	return fmt.Sprintf("%d.%d", d.Epoch, d.Slot)
}

// Less orders dates by epoch then slot
func (d Date) Less(other Date) bool {
	if d.Epoch != other.Epoch {
		return d.Epoch < other.Epoch
	}
	return d.Slot < other.Slot
}

// ChainLength is the number of blocks since genesis
type ChainLength uint32

// Increase returns the chain length of a child block
func (c ChainLength) Increase() ChainLength {
	return c + 1
}

// Common holds the header fields shared by all versions
type Common struct {
	Version     Version
	ContentSize uint32
	Date        Date
	ChainLength ChainLength
	ContentHash digest.Hash
	Parent      HeaderID
}

func (c Common) write(w *codec.Writer) error {
	if err := w.PutU16(uint16(c.Version)); err != nil {
		return err
	}
	for _, v := range []uint32{
		c.ContentSize,
		c.Date.Epoch,
		c.Date.Slot,
		uint32(c.ChainLength),
	} {
		if err := w.PutU32(v); err != nil {
			return err
		}
	}
	if err := w.PutBytes(c.ContentHash[:]); err != nil {
		return err
	}
	return w.PutBytes(c.Parent[:])
}

func readCommon(r *codec.Reader) (Common, error) {
	var c Common
	version, err := r.GetU16()
	if err != nil {
		return c, err
	}
	c.Version = Version(version)
	var fields [4]uint32
	for i := range fields {
		if fields[i], err = r.GetU32(); err != nil {
			return c, err
		}
	}
	c.ContentSize = fields[0]
	c.Date = Date{Epoch: fields[1], Slot: fields[2]}
	c.ChainLength = ChainLength(fields[3])
	if c.ContentHash, err = r.GetArray32(); err != nil {
		return c, err
	}
	if c.Parent, err = r.GetArray32(); err != nil {
		return c, err
	}
	return c, nil
}

// Proof is the leader proof of a header. Its concrete type is determined
// by the header version.
type Proof interface {
	Version() Version
	write(w *codec.Writer) error
}

// NoProof is carried by genesis headers
type NoProof struct{}

func (NoProof) Version() Version { return VersionGenesis }

func (NoProof) write(*codec.Writer) error { return nil }

// BftProof is a signature by one of the BFT leaders
type BftProof struct {
	Leader    keys.PublicKey
	Signature keys.Signature
}

func (BftProof) Version() Version { return VersionBft }

func (p BftProof) write(w *codec.Writer) error {
	if err := w.PutBytes(p.Leader[:]); err != nil {
		return err
	}
	return w.PutBytes(p.Signature[:])
}

// Verify checks the leader signature over the header signing data
func (p BftProof) Verify(h Header) keys.Verification {
	return keys.Verify(p.Leader, h.SigningData(), p.Signature)
}

// GenesisPraosProof is a stake pool VRF proof and KES signature. The
// proof bytes are carried opaquely.
type GenesisPraosProof struct {
	NodeID       [32]byte
	VrfProof     [VrfProofSize]byte
	KesSignature [KesSignatureSize]byte
}

func (GenesisPraosProof) Version() Version { return VersionGenesisPraos }

func (p GenesisPraosProof) write(w *codec.Writer) error {
	if err := w.PutBytes(p.NodeID[:]); err != nil {
		return err
	}
	if err := w.PutBytes(p.VrfProof[:]); err != nil {
		return err
	}
	return w.PutBytes(p.KesSignature[:])
}

func readProof(r *codec.Reader, version Version) (Proof, error) {
	switch version {
	case VersionGenesis:
		return NoProof{}, nil
	case VersionBft:
		var p BftProof
		leader, err := r.GetArray32()
		if err != nil {
			return nil, err
		}
		p.Leader = leader
		sig, err := r.GetBytes(keys.SignatureSize)
		if err != nil {
			return nil, err
		}
		copy(p.Signature[:], sig)
		return p, nil
	case VersionGenesisPraos:
		var p GenesisPraosProof
		node, err := r.GetArray32()
		if err != nil {
			return nil, err
		}
		p.NodeID = node
		vrf, err := r.GetBytes(VrfProofSize)
		if err != nil {
			return nil, err
		}
		copy(p.VrfProof[:], vrf)
		kes, err := r.GetBytes(KesSignatureSize)
		if err != nil {
			return nil, err
		}
		copy(p.KesSignature[:], kes)
		return p, nil
	default:
		return nil, codec.StructureInvalid("unknown block version %d", uint16(version))
	}
}

// Header is the common fields followed by the leader proof
type Header struct {
	Common
	Proof Proof
}

// Bytes is the serialized header
func (h Header) Bytes() ([]byte, error) {
	return codec.EncodeToBytes(h.Write)
}

// Write serializes the header. The proof must match the version.
func (h Header) Write(w *codec.Writer) error {
	proof := h.Proof
	if proof == nil {
		proof = NoProof{}
	}
	if proof.Version() != h.Version {
		return fmt.Errorf(
			"header version %s does not match %s proof",
			h.Version,
			proof.Version(),
		)
	}
	if err := h.Common.write(w); err != nil {
		return err
	}
	return proof.write(w)
}

// SigningData is the serialized header without its proof
func (h Header) SigningData() []byte {
	var buf bytes.Buffer
	// in-memory writes cannot fail
	_ = h.Common.write(codec.NewWriter(&buf))
	return buf.Bytes()
}

// ID hashes the serialized header
func (h Header) ID() (HeaderID, error) {
	data, err := h.Bytes()
	if err != nil {
		return HeaderID{}, err
	}
	return digest.Sum(data), nil
}

// DecodeHeader decodes a header that spans all of data
func DecodeHeader(data []byte) (Header, error) {
	r := codec.NewBytesReader(data)
	common, err := readCommon(r)
	if err != nil {
		return Header{}, err
	}
	proof, err := readProof(r, common.Version)
	if err != nil {
		return Header{}, err
	}
	if err := r.ExpectEnd(); err != nil {
		return Header{}, fmt.Errorf("%w: %w", codec.ErrStructureInvalid, err)
	}
	return Header{Common: common, Proof: proof}, nil
}
