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

// Package certificate implements the certificates carried by fragments and
// the split between their signed content and their authentication data.
package certificate

import (
	"encoding/hex"
)

// Payload separates what a certificate contributes to the signed data from
// the authentication layered on top of it. A is the authentication type.
type Payload[A any] interface {
	HasData() bool
	HasAuth() bool
	// PayloadData is the canonical encoding of the certificate fields
	PayloadData() []byte
	// PayloadAuthData is the canonical encoding of auth. It is empty when
	// HasAuth is false.
	PayloadAuthData(auth A) []byte
}

// NoAuth is the authentication type of certificates that carry none
type NoAuth struct{}

// Bytes returns the data of p followed by the encoding of auth
func Bytes[A any](p Payload[A], auth A) []byte {
	data := p.PayloadData()
	authData := p.PayloadAuthData(auth)
	ret := make([]byte, 0, len(data)+len(authData))
	ret = append(ret, data...)
	return append(ret, authData...)
}

// VotePlanId identifies a vote plan
type VotePlanId [32]byte

func (v VotePlanId) String() string {
	return hex.EncodeToString(v[:])
}
