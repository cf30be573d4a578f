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
	"fmt"
	"io"
)

// Uint128 is a 128-bit unsigned integer split into two 64-bit halves
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Writer is a sequential big-endian writer over a byte stream
type Writer struct {
	w       io.Writer
	n       int64
	scratch [16]byte
}

// NewWriter creates a Writer over w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Written returns the number of bytes written so far
func (w *Writer) Written() int64 {
	return w.n
}

func (w *Writer) write(buf []byte) error {
	n, err := w.w.Write(buf)
	w.n += int64(n)
	if err != nil {
		return fmt.Errorf("codec: write at pos %d: %w", w.n, err)
	}
	if n != len(buf) {
		return fmt.Errorf("codec: write at pos %d: %w", w.n, io.ErrShortWrite)
	}
	return nil
}

// PutU8 writes a single byte
func (w *Writer) PutU8(v uint8) error {
	w.scratch[0] = v
	return w.write(w.scratch[:1])
}

// PutU16 writes a big-endian uint16
func (w *Writer) PutU16(v uint16) error {
	binary.BigEndian.PutUint16(w.scratch[:2], v)
	return w.write(w.scratch[:2])
}

// PutU32 writes a big-endian uint32
func (w *Writer) PutU32(v uint32) error {
	binary.BigEndian.PutUint32(w.scratch[:4], v)
	return w.write(w.scratch[:4])
}

// PutU64 writes a big-endian uint64
func (w *Writer) PutU64(v uint64) error {
	binary.BigEndian.PutUint64(w.scratch[:8], v)
	return w.write(w.scratch[:8])
}

// PutU128 writes a big-endian 128-bit unsigned integer
func (w *Writer) PutU128(v Uint128) error {
	binary.BigEndian.PutUint64(w.scratch[:8], v.Hi)
	binary.BigEndian.PutUint64(w.scratch[8:16], v.Lo)
	return w.write(w.scratch[:16])
}

// PutBytes writes a raw byte run with no length prefix
func (w *Writer) PutBytes(v []byte) error {
	if len(v) == 0 {
		return nil
	}
	return w.write(v)
}

// PutBool writes a boolean as a single 0/1 byte
func (w *Writer) PutBool(v bool) error {
	if v {
		return w.PutU8(1)
	}
	return w.PutU8(0)
}

// EncodeToBytes runs fn against an in-memory Writer and returns the bytes
// it produced
func EncodeToBytes(fn func(w *Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(NewWriter(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
