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

package evm_test

import (
	"testing"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/params"
	"github.com/blinklabs-io/chaincore/params/evm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleParams() evm.Params {
	p := evm.Istanbul()
	p.Environment.ChainID[31] = 42
	p.Environment.Origin[0] = 0xaa
	p.Environment.BlockHashes = []evm.Hash{{1}, {2}, {3}}
	p.Environment.BlockGasLimit[30] = 0x01
	return p
}

func TestRoundTrip(t *testing.T) {
	for _, p := range []evm.Params{evm.Istanbul(), sampleParams(), {}} {
		data, err := p.Encode()
		require.NoError(t, err)
		assert.Equal(t, evm.Version, data[0])
		decoded, err := evm.Decode(data)
		require.NoError(t, err)
		assert.True(t, p.Equal(decoded))
	}
}

func TestUnlimitedContractSize(t *testing.T) {
	p := evm.Istanbul()
	p.Features.CreateContractLimit = nil
	data, err := p.Encode()
	require.NoError(t, err)
	decoded, err := evm.Decode(data)
	require.NoError(t, err)
	assert.Nil(t, decoded.Features.CreateContractLimit)
	assert.Equal(t, p, decoded)
}

func TestReferenceIsATagLenParam(t *testing.T) {
	p := sampleParams()
	ref, err := p.Reference()
	require.NoError(t, err)
	assert.True(t, p.Matches(ref))
	assert.False(t, evm.Istanbul().Matches(ref))

	data, err := params.EncodeConfigParam(ref)
	require.NoError(t, err)
	decoded, err := params.DecodeConfigParam(data, params.WithEvm())
	require.NoError(t, err)
	assert.Equal(t, ref, decoded)
}

func TestDecodeErrors(t *testing.T) {
	data, err := evm.Istanbul().Encode()
	require.NoError(t, err)

	bad := append([]byte{}, data...)
	bad[0] = 9
	_, err = evm.Decode(bad)
	require.ErrorIs(t, err, codec.ErrStructureInvalid)

	_, err = evm.Decode(data[:len(data)-1])
	require.ErrorIs(t, err, codec.ErrUnexpectedEnd)

	_, err = evm.Decode(append(append([]byte{}, data...), 0))
	require.ErrorIs(t, err, codec.ErrTrailingBytes)
}
