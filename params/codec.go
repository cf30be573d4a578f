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

package params

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/chaincore/codec"
)

type decodeOptions struct {
	evm bool
}

// DecodeOptionFunc enables optional capabilities during decoding
type DecodeOptionFunc func(*decodeOptions)

// WithEvm allows the EVM parameter reference (tag 30) to decode. Without it
// the tag is rejected with ErrInvalidTag.
func WithEvm() DecodeOptionFunc {
	return func(o *decodeOptions) {
		o.evm = true
	}
}

// WithEvmEnabled is WithEvm driven by a runtime flag
func WithEvmEnabled(enabled bool) DecodeOptionFunc {
	return func(o *decodeOptions) {
		o.evm = enabled
	}
}

func newDecodeOptions(opts []DecodeOptionFunc) decodeOptions {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WriteConfigParam writes the TagLen header followed by the payload. A
// payload of 64 bytes or more fails with ErrPayloadTooLarge.
func WriteConfigParam(w *codec.Writer, p ConfigParam) error {
	payload := p.payload()
	tl, ok := NewTagLen(p.Tag(), len(payload))
	if !ok {
		return fmt.Errorf(
			"%w: %s payload is %d bytes",
			ErrPayloadTooLarge,
			p.Tag(),
			len(payload),
		)
	}
	if err := w.PutU16(uint16(tl)); err != nil {
		return err
	}
	return w.PutBytes(payload)
}

// ReadConfigParam reads a single parameter from r
func ReadConfigParam(r *codec.Reader, opts ...DecodeOptionFunc) (ConfigParam, error) {
	return readConfigParam(r, newDecodeOptions(opts))
}

func readConfigParam(r *codec.Reader, o decodeOptions) (ConfigParam, error) {
	raw, err := r.GetU16()
	if err != nil {
		return nil, err
	}
	tl := TagLen(raw)
	payload, err := r.GetBytes(tl.Len())
	if err != nil {
		return nil, err
	}
	tag, err := tl.Tag()
	if err != nil {
		return nil, err
	}
	info, _ := lookupTag(tag)
	if info.gated && !o.evm {
		return nil, fmt.Errorf("%w: %s is not enabled", ErrInvalidTag, tag)
	}
	p, err := info.decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", tag, err)
	}
	return p, nil
}

// EncodeConfigParam returns the wire bytes of a single parameter
func EncodeConfigParam(p ConfigParam) ([]byte, error) {
	return codec.EncodeToBytes(func(w *codec.Writer) error {
		return WriteConfigParam(w, p)
	})
}

// DecodeConfigParam decodes exactly one parameter from data
func DecodeConfigParam(data []byte, opts ...DecodeOptionFunc) (ConfigParam, error) {
	r := codec.NewBytesReader(data)
	p, err := ReadConfigParam(r, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.ExpectEnd(); err != nil {
		return nil, err
	}
	return p, nil
}

// ConfigParams is an ordered list of parameters. Order is preserved on both
// encode and decode.
type ConfigParams []ConfigParam

// Len returns the number of parameters
func (c ConfigParams) Len() int {
	return len(c)
}

// Tags returns the tag of each parameter in order
func (c ConfigParams) Tags() []Tag {
	ret := make([]Tag, len(c))
	for i, p := range c {
		ret[i] = p.Tag()
	}
	return ret
}

// Find returns the first parameter with the given tag
func (c ConfigParams) Find(tag Tag) (ConfigParam, bool) {
	for _, p := range c {
		if p.Tag() == tag {
			return p, true
		}
	}
	return nil, false
}

// Write encodes a u16 count followed by each parameter
func (c ConfigParams) Write(w *codec.Writer) error {
	if len(c) > 0xffff {
		return fmt.Errorf("too many config params: %d", len(c))
	}
	if err := w.PutU16(uint16(len(c))); err != nil {
		return err
	}
	for i, p := range c {
		if err := WriteConfigParam(w, p); err != nil {
			return fmt.Errorf("config param %d: %w", i, err)
		}
	}
	return nil
}

// Bytes returns the encoded list
func (c ConfigParams) Bytes() ([]byte, error) {
	return codec.EncodeToBytes(c.Write)
}

// ReadConfigParams reads a u16 count and exactly that many parameters,
// stopping at the first failure
func ReadConfigParams(r *codec.Reader, opts ...DecodeOptionFunc) (ConfigParams, error) {
	o := newDecodeOptions(opts)
	count, err := r.GetU16()
	if err != nil {
		return nil, err
	}
	ret := make(ConfigParams, 0, count)
	for i := range int(count) {
		p, err := readConfigParam(r, o)
		if err != nil {
			return nil, fmt.Errorf("config param %d: %w", i, err)
		}
		ret = append(ret, p)
	}
	return ret, nil
}

// DecodeConfigParams decodes a list that must span all of data
func DecodeConfigParams(data []byte, opts ...DecodeOptionFunc) (ConfigParams, error) {
	r := codec.NewBytesReader(data)
	ret, err := ReadConfigParams(r, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.ExpectEnd(); err != nil {
		return nil, err
	}
	return ret, nil
}

// IsDecodeError reports whether err is one of the parameter decode kinds
func IsDecodeError(err error) bool {
	var unknown *UnknownStringError
	return errors.Is(err, ErrInvalidTag) ||
		errors.Is(err, ErrSizeInvalid) ||
		errors.Is(err, ErrBoolInvalid) ||
		errors.Is(err, ErrStructureInvalid) ||
		errors.As(err, &unknown)
}
