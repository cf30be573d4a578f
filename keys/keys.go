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

// Package keys holds the public key and signature types used by leader
// proofs and certificate authentication, along with ed25519 verification.
package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

const (
	PublicKeySize = ed25519.PublicKeySize
	SignatureSize = ed25519.SignatureSize
)

// PublicKey is an ed25519 public key
type PublicKey [PublicKeySize]byte

// Signature is an ed25519 signature
type Signature [SignatureSize]byte

// Verification is the outcome of a signature check
type Verification uint8

const (
	VerificationFailed Verification = iota
	VerificationSuccess
)

func (v Verification) String() string {
	if v == VerificationSuccess {
		return "success"
	}
	return "failed"
}

// Ok reports whether the verification succeeded
func (v Verification) Ok() bool {
	return v == VerificationSuccess
}

// PublicKeyFromBytes copies a 32-byte slice into a PublicKey
func PublicKeyFromBytes(data []byte) (PublicKey, error) {
	var pk PublicKey
	if len(data) != PublicKeySize {
		return pk, fmt.Errorf(
			"invalid public key length: expected %d, got %d",
			PublicKeySize,
			len(data),
		)
	}
	copy(pk[:], data)
	return pk, nil
}

// SignatureFromBytes copies a 64-byte slice into a Signature
func SignatureFromBytes(data []byte) (Signature, error) {
	var sig Signature
	if len(data) != SignatureSize {
		return sig, fmt.Errorf(
			"invalid signature length: expected %d, got %d",
			SignatureSize,
			len(data),
		)
	}
	copy(sig[:], data)
	return sig, nil
}

func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

// Verify checks sig over msg against pk. It never panics on malformed keys.
func Verify(pk PublicKey, msg []byte, sig Signature) Verification {
	if ed25519.Verify(ed25519.PublicKey(pk[:]), msg, sig[:]) {
		return VerificationSuccess
	}
	return VerificationFailed
}

// Sign produces an ed25519 signature over msg. Used by block and
// certificate builders.
func Sign(key ed25519.PrivateKey, msg []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(key, msg))
	return sig
}

// PublicKeyOf returns the public half of key
func PublicKeyOf(key ed25519.PrivateKey) PublicKey {
	var pk PublicKey
	copy(pk[:], key.Public().(ed25519.PublicKey))
	return pk
}
