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

package codec_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderWriterRoundTrip(t *testing.T) {
	data, err := codec.EncodeToBytes(func(w *codec.Writer) error {
		if err := w.PutU8(0xab); err != nil {
			return err
		}
		if err := w.PutU16(0x0102); err != nil {
			return err
		}
		if err := w.PutU32(0x03040506); err != nil {
			return err
		}
		if err := w.PutU64(0x0708090a0b0c0d0e); err != nil {
			return err
		}
		if err := w.PutU128(codec.Uint128{Hi: 1, Lo: 2}); err != nil {
			return err
		}
		if err := w.PutBool(true); err != nil {
			return err
		}
		return w.PutBytes([]byte("tail"))
	})
	require.NoError(t, err)
	require.Len(t, data, 1+2+4+8+16+1+4)
	// Big-endian layout
	assert.Equal(t, []byte{0xab, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, data[:7])

	r := codec.NewBytesReader(data)
	u8, err := r.GetU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xab), u8)
	u16, err := r.GetU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), u16)
	u32, err := r.GetU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x03040506), u32)
	u64, err := r.GetU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0708090a0b0c0d0e), u64)
	u128, err := r.GetU128()
	require.NoError(t, err)
	assert.Equal(t, codec.Uint128{Hi: 1, Lo: 2}, u128)
	b, err := r.GetBool()
	require.NoError(t, err)
	assert.True(t, b)
	tail, err := r.GetBytes(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("tail"), tail)
	require.NoError(t, r.ExpectEnd())
	assert.Equal(t, int64(len(data)), r.Pos())
}

func TestReaderShortRead(t *testing.T) {
	r := codec.NewBytesReader([]byte{0x01, 0x02, 0x03})
	_, err := r.GetU32()
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrUnexpectedEnd))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestReaderShortReadUnbounded(t *testing.T) {
	r := codec.NewReader(bytes.NewBuffer([]byte{0x01, 0x02}))
	_, err := r.GetBytes(3)
	require.ErrorIs(t, err, codec.ErrUnexpectedEnd)
	assert.Equal(t, int64(2), r.Pos())
}

func TestReaderLargeRunUnbounded(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5a}, 200*1024)
	r := codec.NewReader(bytes.NewReader(payload))
	got, err := r.GetBytes(len(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	require.NoError(t, r.ExpectEnd())
}

func TestReaderExpectEnd(t *testing.T) {
	r := codec.NewBytesReader([]byte{0x01, 0x02})
	_, err := r.GetU8()
	require.NoError(t, err)
	require.ErrorIs(t, r.ExpectEnd(), codec.ErrTrailingBytes)

	ur := codec.NewReader(bytes.NewReader([]byte{0x01, 0x02}))
	_, err = ur.GetU8()
	require.NoError(t, err)
	require.ErrorIs(t, ur.ExpectEnd(), codec.ErrTrailingBytes)
}

func TestReaderBoolInvalid(t *testing.T) {
	r := codec.NewBytesReader([]byte{0x02})
	_, err := r.GetBool()
	require.ErrorIs(t, err, codec.ErrStructureInvalid)
}

func TestReaderNegativeLength(t *testing.T) {
	r := codec.NewBytesReader(nil)
	_, err := r.GetBytes(-1)
	require.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterPropagatesErrors(t *testing.T) {
	w := codec.NewWriter(failingWriter{})
	err := w.PutU32(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
