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

package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// readChunkSize bounds each allocation when reading long byte runs from an
// unbounded source, so a corrupt length prefix cannot force a huge
// allocation up front
const readChunkSize = 64 * 1024

// Reader is a sequential big-endian cursor over a byte stream. A short read
// is always fatal: the returned error wraps ErrUnexpectedEnd.
type Reader struct {
	r       io.Reader
	pos     int64
	limit   int64 // total readable bytes, or -1 when the source is unbounded
	scratch [16]byte
}

// NewReader creates a Reader over an arbitrary stream
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, limit: -1}
}

// NewBytesReader creates a bounded Reader over a byte slice
func NewBytesReader(data []byte) *Reader {
	return &Reader{
		r:     bytes.NewReader(data),
		limit: int64(len(data)),
	}
}

// Pos returns the number of bytes consumed so far
func (r *Reader) Pos() int64 {
	return r.pos
}

// Remaining returns the number of unread bytes. The second return value is
// false when the underlying source is unbounded.
func (r *Reader) Remaining() (int64, bool) {
	if r.limit < 0 {
		return 0, false
	}
	return r.limit - r.pos, true
}

func (r *Reader) shortRead(need int, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf(
			"codec: need %d bytes at pos %d: %w: %w",
			need,
			r.pos,
			ErrUnexpectedEnd,
			io.ErrUnexpectedEOF,
		)
	}
	return fmt.Errorf("codec: read at pos %d: %w", r.pos, err)
}

func (r *Reader) fill(buf []byte) error {
	if rem, ok := r.Remaining(); ok && int64(len(buf)) > rem {
		return r.shortRead(len(buf), io.ErrUnexpectedEOF)
	}
	n, err := io.ReadFull(r.r, buf)
	if err != nil {
		err = r.shortRead(len(buf), err)
		r.pos += int64(n)
		return err
	}
	r.pos += int64(n)
	return nil
}

// GetU8 reads a single byte
func (r *Reader) GetU8() (uint8, error) {
	if err := r.fill(r.scratch[:1]); err != nil {
		return 0, err
	}
	return r.scratch[0], nil
}

// GetU16 reads a big-endian uint16
func (r *Reader) GetU16() (uint16, error) {
	if err := r.fill(r.scratch[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.scratch[:2]), nil
}

// GetU32 reads a big-endian uint32
func (r *Reader) GetU32() (uint32, error) {
	if err := r.fill(r.scratch[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.scratch[:4]), nil
}

// GetU64 reads a big-endian uint64
func (r *Reader) GetU64() (uint64, error) {
	if err := r.fill(r.scratch[:8]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(r.scratch[:8]), nil
}

// GetU128 reads a big-endian 128-bit unsigned integer
func (r *Reader) GetU128() (Uint128, error) {
	if err := r.fill(r.scratch[:16]); err != nil {
		return Uint128{}, err
	}
	return Uint128{
		Hi: binary.BigEndian.Uint64(r.scratch[:8]),
		Lo: binary.BigEndian.Uint64(r.scratch[8:16]),
	}, nil
}

// GetBytes reads exactly n bytes into a freshly allocated slice
func (r *Reader) GetBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("codec: negative read length %d at pos %d", n, r.pos)
	}
	if rem, ok := r.Remaining(); ok {
		if int64(n) > rem {
			return nil, r.shortRead(n, io.ErrUnexpectedEOF)
		}
		buf := make([]byte, n)
		if err := r.fill(buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	if n <= readChunkSize {
		buf := make([]byte, n)
		if err := r.fill(buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	buf := make([]byte, 0, readChunkSize)
	for len(buf) < n {
		chunk := min(n-len(buf), readChunkSize)
		start := len(buf)
		buf = append(buf, make([]byte, chunk)...)
		if err := r.fill(buf[start:]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// GetArray32 reads exactly 32 bytes
func (r *Reader) GetArray32() ([32]byte, error) {
	var ret [32]byte
	if err := r.fill(ret[:]); err != nil {
		return ret, err
	}
	return ret, nil
}

// GetBool reads a single byte that must be 0 or 1
func (r *Reader) GetBool() (bool, error) {
	b, err := r.GetU8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, StructureInvalid("invalid boolean byte %d at pos %d", b, r.pos-1)
	}
}

// ExpectEnd fails with ErrTrailingBytes if any input remains
func (r *Reader) ExpectEnd() error {
	if rem, ok := r.Remaining(); ok {
		if rem != 0 {
			return fmt.Errorf("%w: %d bytes at pos %d", ErrTrailingBytes, rem, r.pos)
		}
		return nil
	}
	n, err := r.r.Read(r.scratch[:1])
	if n > 0 {
		return fmt.Errorf("%w: at pos %d", ErrTrailingBytes, r.pos)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("codec: read at pos %d: %w", r.pos, err)
	}
	return nil
}
