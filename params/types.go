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
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/chaincore/value"
)

// Milli is a fixed-point number with three decimal places, stored as its
// value multiplied by 1000
type Milli uint64

const (
	MilliZero Milli = 0
	MilliOne  Milli = 1000
)

func MilliFromMillis(millis uint64) Milli {
	return Milli(millis)
}

func (m Milli) Millis() uint64 {
	return uint64(m)
}

func (m Milli) String() string {
	return fmt.Sprintf("%d.%03d", uint64(m)/1000, uint64(m)%1000)
}

// ConsensusType selects the block production algorithm
type ConsensusType uint16

const (
	ConsensusBft          ConsensusType = 1
	ConsensusGenesisPraos ConsensusType = 2
)

func (c ConsensusType) String() string {
	switch c {
	case ConsensusBft:
		return "bft"
	case ConsensusGenesisPraos:
		return "genesis_praos"
	default:
		return fmt.Sprintf("consensus(%d)", uint16(c))
	}
}

// LinearFee is the fee schedule constant + coefficient * size + certificate
type LinearFee struct {
	Constant    uint64
	Coefficient uint64
	Certificate uint64
}

// PerCertificateFees overrides the certificate fee for specific
// certificate kinds. Zero means unset.
type PerCertificateFees struct {
	PoolRegistration     uint64
	StakeDelegation      uint64
	OwnerStakeDelegation uint64
}

// PerVoteCertificateFees overrides the certificate fee for vote
// certificates. Zero means unset.
type PerVoteCertificateFees struct {
	VotePlan uint64
	VoteCast uint64
}

// TaxType is the treasury cut taken from rewards: a fixed amount, then a
// ratio of the remainder, optionally capped
type TaxType struct {
	Fixed value.Value
	Ratio value.Ratio
	// MaxLimit caps the ratio part; zero means no limit
	MaxLimit uint64
}

// RewardKind selects how the reward constant decays across epochs
type RewardKind uint8

const (
	RewardLinear  RewardKind = 1
	RewardHalving RewardKind = 2
)

func (k RewardKind) String() string {
	switch k {
	case RewardLinear:
		return "linear"
	case RewardHalving:
		return "halving"
	default:
		return fmt.Sprintf("reward-kind(%d)", uint8(k))
	}
}

// CommitteeId identifies a voting committee member
type CommitteeId [32]byte

func (c CommitteeId) String() string {
	return hex.EncodeToString(c[:])
}

// CommitteeIdFromBytes fails with an UnknownStringError unless data is
// exactly 32 bytes
func CommitteeIdFromBytes(data []byte) (CommitteeId, error) {
	var id CommitteeId
	if len(data) != len(id) {
		return id, &UnknownStringError{
			Value: fmt.Sprintf(
				"invalid committee id size: expected %d, got %d",
				len(id),
				len(data),
			),
		}
	}
	copy(id[:], data)
	return id, nil
}
