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

package keys_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/blinklabs-io/chaincore/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(seedByte byte) ed25519.PrivateKey {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = seedByte
	}
	return ed25519.NewKeyFromSeed(seed)
}

func TestSignVerify(t *testing.T) {
	priv := testKey(0x01)
	pk := keys.PublicKeyOf(priv)
	msg := []byte("binding data")
	sig := keys.Sign(priv, msg)

	assert.Equal(t, keys.VerificationSuccess, keys.Verify(pk, msg, sig))
	assert.True(t, keys.Verify(pk, msg, sig).Ok())
	assert.Equal(t, keys.VerificationFailed, keys.Verify(pk, []byte("other"), sig))

	otherPk := keys.PublicKeyOf(testKey(0x02))
	assert.Equal(t, keys.VerificationFailed, keys.Verify(otherPk, msg, sig))
}

func TestFromBytesLengths(t *testing.T) {
	_, err := keys.PublicKeyFromBytes(make([]byte, 31))
	require.Error(t, err)
	_, err = keys.SignatureFromBytes(make([]byte, 63))
	require.Error(t, err)
	_, err = keys.SignatureFromBytes(make([]byte, 64))
	require.NoError(t, err)
}

func TestVerificationString(t *testing.T) {
	assert.Equal(t, "success", keys.VerificationSuccess.String())
	assert.Equal(t, "failed", keys.VerificationFailed.String())
}
