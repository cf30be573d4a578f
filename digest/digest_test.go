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

package digest_test

import (
	"testing"

	"github.com/blinklabs-io/chaincore/digest"
	"github.com/stretchr/testify/require"
)

func TestSumEmpty(t *testing.T) {
	// Blake2b-256 of the empty input
	expected, err := digest.FromHex(
		"0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
	)
	require.NoError(t, err)
	require.Equal(t, expected, digest.Sum(nil))
	require.Equal(t, expected, digest.Sum([]byte{}))
}

func TestSumDistinct(t *testing.T) {
	require.NotEqual(t, digest.Sum([]byte("a")), digest.Sum([]byte("b")))
}

func TestFromBytesLength(t *testing.T) {
	_, err := digest.FromBytes(make([]byte, 31))
	require.Error(t, err)
	h, err := digest.FromBytes(make([]byte, 32))
	require.NoError(t, err)
	require.True(t, h.IsZero())
}

func TestTextRoundTrip(t *testing.T) {
	h := digest.Sum([]byte("chaincore"))
	text, err := h.MarshalText()
	require.NoError(t, err)
	var out digest.Hash
	require.NoError(t, out.UnmarshalText(text))
	require.Equal(t, h, out)
	require.Equal(t, string(text), h.String())
}
