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

package snapshot

import (
	"errors"
	"fmt"
	"io"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/params"
)

// ErrEncoderClosed is returned when writing to an encoder after Close
var ErrEncoderClosed = errors.New("snapshot encoder closed")

// Encoder writes entries to a stream
type Encoder struct {
	w      *codec.Writer
	count  int
	closed bool
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: codec.NewWriter(w)}
}

// Encode writes a single entry
func (e *Encoder) Encode(entry Entry) error {
	if e.closed {
		return ErrEncoderClosed
	}
	if err := WriteEntry(e.w, entry); err != nil {
		return fmt.Errorf("encode %s entry: %w", entry.Code(), err)
	}
	e.count++
	return nil
}

// Close writes the end marker. The underlying writer is not closed.
func (e *Encoder) Close() error {
	if e.closed {
		return ErrEncoderClosed
	}
	e.closed = true
	return e.w.PutU8(uint8(CodeEnd))
}

// Count returns the number of entries written
func (e *Encoder) Count() int {
	return e.count
}

// Written returns the number of bytes written, end marker included
func (e *Encoder) Written() int64 {
	return e.w.Written()
}

// Decoder reads entries from a stream one at a time
type Decoder struct {
	r     *codec.Reader
	opts  []params.DecodeOptionFunc
	count int
	done  bool
}

// NewDecoder creates a decoder. The options are applied to every embedded
// config parameter.
func NewDecoder(r io.Reader, opts ...params.DecodeOptionFunc) *Decoder {
	return &Decoder{r: codec.NewReader(r), opts: opts}
}

// NewBytesDecoder creates a decoder over an in-memory stream
func NewBytesDecoder(data []byte, opts ...params.DecodeOptionFunc) *Decoder {
	return &Decoder{r: codec.NewBytesReader(data), opts: opts}
}

// Next returns the next entry. It returns io.EOF once the end marker has
// been read. Input that ends before the end marker fails with
// codec.ErrUnexpectedEnd.
func (d *Decoder) Next() (Entry, error) {
	if d.done {
		return nil, io.EOF
	}
	code, err := d.r.GetU8()
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", d.count, err)
	}
	if Code(code) == CodeEnd {
		d.done = true
		return nil, io.EOF
	}
	entry, err := readEntryBody(d.r, Code(code), d.opts)
	if err != nil {
		return nil, fmt.Errorf("entry %d (%s): %w", d.count, Code(code), err)
	}
	d.count++
	return entry, nil
}

// Count returns the number of entries decoded so far
func (d *Decoder) Count() int {
	return d.count
}

// Pos returns the number of bytes consumed so far
func (d *Decoder) Pos() int64 {
	return d.r.Pos()
}

// ExpectEnd fails with codec.ErrTrailingBytes if any input follows the end
// marker
func (d *Decoder) ExpectEnd() error {
	if !d.done {
		return errors.New("snapshot end marker not reached")
	}
	return d.r.ExpectEnd()
}

// ReadAll decodes a complete stream. Bytes after the end marker fail with
// codec.ErrTrailingBytes.
func ReadAll(r io.Reader, opts ...params.DecodeOptionFunc) ([]Entry, error) {
	return readAll(NewDecoder(r, opts...))
}

// DecodeAll decodes a complete in-memory stream
func DecodeAll(data []byte, opts ...params.DecodeOptionFunc) ([]Entry, error) {
	return readAll(NewBytesDecoder(data, opts...))
}

func readAll(d *Decoder) ([]Entry, error) {
	var ret []Entry
	for {
		entry, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		ret = append(ret, entry)
	}
	if err := d.ExpectEnd(); err != nil {
		return nil, err
	}
	return ret, nil
}

// WriteAll writes entries followed by the end marker
func WriteAll(w io.Writer, entries []Entry) error {
	enc := NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return enc.Close()
}
