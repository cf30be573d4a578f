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
	"encoding/binary"

	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/keys"
	"github.com/blinklabs-io/chaincore/value"
)

// ConfigParam is one protocol parameter. The set of implementations is
// closed: every variant is declared in this package.
type ConfigParam interface {
	Tag() Tag
	payload() []byte
}

// Discrimination selects the address namespace of the chain
type Discrimination uint8

const (
	DiscriminationProduction Discrimination = 1
	DiscriminationTest       Discrimination = 2
)

func (Discrimination) Tag() Tag { return TagDiscrimination }

func (d Discrimination) payload() []byte { return []byte{uint8(d)} }

func (d Discrimination) String() string {
	switch d {
	case DiscriminationProduction:
		return "production"
	case DiscriminationTest:
		return "test"
	default:
		return "unknown"
	}
}

// Block0Date is the genesis time in seconds since the unix epoch
type Block0Date uint64

func (Block0Date) Tag() Tag { return TagBlock0Date }

func (d Block0Date) payload() []byte { return u64Payload(uint64(d)) }

// ConsensusVersion selects the consensus algorithm
type ConsensusVersion ConsensusType

func (ConsensusVersion) Tag() Tag { return TagConsensusVersion }

func (c ConsensusVersion) payload() []byte {
	return binary.BigEndian.AppendUint16(nil, uint16(c))
}

type SlotsPerEpoch uint32

func (SlotsPerEpoch) Tag() Tag { return TagSlotsPerEpoch }

func (s SlotsPerEpoch) payload() []byte { return u32Payload(uint32(s)) }

// SlotDuration is the slot length in seconds
type SlotDuration uint8

func (SlotDuration) Tag() Tag { return TagSlotDuration }

func (s SlotDuration) payload() []byte { return []byte{uint8(s)} }

type EpochStabilityDepth uint32

func (EpochStabilityDepth) Tag() Tag { return TagEpochStabilityDepth }

func (e EpochStabilityDepth) payload() []byte { return u32Payload(uint32(e)) }

// ActiveSlotsCoeff is the genesis praos f parameter
type ActiveSlotsCoeff Milli

func (ActiveSlotsCoeff) Tag() Tag { return TagConsensusGenesisPraosActiveSlotsCoeff }

func (a ActiveSlotsCoeff) payload() []byte { return u64Payload(uint64(a)) }

type BlockContentMaxSize uint32

func (BlockContentMaxSize) Tag() Tag { return TagBlockContentMaxSize }

func (b BlockContentMaxSize) payload() []byte { return u32Payload(uint32(b)) }

type AddBftLeader keys.PublicKey

func (AddBftLeader) Tag() Tag { return TagAddBftLeader }

func (a AddBftLeader) payload() []byte { return append([]byte(nil), a[:]...) }

type RemoveBftLeader keys.PublicKey

func (RemoveBftLeader) Tag() Tag { return TagRemoveBftLeader }

func (r RemoveBftLeader) payload() []byte { return append([]byte(nil), r[:]...) }

func (LinearFee) Tag() Tag { return TagLinearFee }

func (l LinearFee) payload() []byte {
	ret := u64Payload(l.Constant)
	ret = binary.BigEndian.AppendUint64(ret, l.Coefficient)
	return binary.BigEndian.AppendUint64(ret, l.Certificate)
}

type ProposalExpiration uint32

func (ProposalExpiration) Tag() Tag { return TagProposalExpiration }

func (p ProposalExpiration) payload() []byte { return u32Payload(uint32(p)) }

type KesUpdateSpeed uint32

func (KesUpdateSpeed) Tag() Tag { return TagKesUpdateSpeed }

func (k KesUpdateSpeed) payload() []byte { return u32Payload(uint32(k)) }

// TreasuryAdd is the initial treasury amount
type TreasuryAdd value.Value

func (TreasuryAdd) Tag() Tag { return TagTreasuryAdd }

func (t TreasuryAdd) payload() []byte { return u64Payload(uint64(t)) }

type TreasuryParams TaxType

func (TreasuryParams) Tag() Tag { return TagTreasuryParams }

func (t TreasuryParams) payload() []byte {
	ret := u64Payload(uint64(t.Fixed))
	ret = binary.BigEndian.AppendUint64(ret, t.Ratio.Numerator)
	ret = binary.BigEndian.AppendUint64(ret, t.Ratio.Denominator)
	return binary.BigEndian.AppendUint64(ret, t.MaxLimit)
}

// RewardPot is the initial reward pot amount
type RewardPot value.Value

func (RewardPot) Tag() Tag { return TagRewardPot }

func (r RewardPot) payload() []byte { return u64Payload(uint64(r)) }

// RewardParams describes the per-epoch reward curve
type RewardParams struct {
	Kind       RewardKind
	Constant   uint64
	Ratio      value.Ratio
	EpochStart uint32
	EpochRate  uint32
}

func (RewardParams) Tag() Tag { return TagRewardParams }

func (r RewardParams) payload() []byte {
	ret := []byte{uint8(r.Kind)}
	ret = binary.BigEndian.AppendUint64(ret, r.Constant)
	ret = binary.BigEndian.AppendUint64(ret, r.Ratio.Numerator)
	ret = binary.BigEndian.AppendUint64(ret, r.Ratio.Denominator)
	ret = binary.BigEndian.AppendUint32(ret, r.EpochStart)
	return binary.BigEndian.AppendUint32(ret, r.EpochRate)
}

func (PerCertificateFees) Tag() Tag { return TagPerCertificateFees }

func (p PerCertificateFees) payload() []byte {
	ret := u64Payload(p.PoolRegistration)
	ret = binary.BigEndian.AppendUint64(ret, p.StakeDelegation)
	return binary.BigEndian.AppendUint64(ret, p.OwnerStakeDelegation)
}

type FeesInTreasury bool

func (FeesInTreasury) Tag() Tag { return TagFeesInTreasury }

func (f FeesInTreasury) payload() []byte {
	if f {
		return []byte{1}
	}
	return []byte{0}
}

type RewardLimitNone struct{}

func (RewardLimitNone) Tag() Tag { return TagRewardLimitNone }

func (RewardLimitNone) payload() []byte { return nil }

type RewardLimitByAbsoluteStake value.Ratio

func (RewardLimitByAbsoluteStake) Tag() Tag { return TagRewardLimitByAbsoluteStake }

func (r RewardLimitByAbsoluteStake) payload() []byte {
	ret := u64Payload(r.Numerator)
	return binary.BigEndian.AppendUint64(ret, r.Denominator)
}

// PoolRewardParticipationCapping bounds the number of pools sharing
// rewards. Both bounds are nonzero.
type PoolRewardParticipationCapping struct {
	Min uint32
	Max uint32
}

func (PoolRewardParticipationCapping) Tag() Tag { return TagPoolRewardParticipationCapping }

func (p PoolRewardParticipationCapping) payload() []byte {
	ret := u32Payload(p.Min)
	return binary.BigEndian.AppendUint32(ret, p.Max)
}

type AddCommitteeId CommitteeId

func (AddCommitteeId) Tag() Tag { return TagAddCommitteeId }

func (a AddCommitteeId) payload() []byte { return append([]byte(nil), a[:]...) }

type RemoveCommitteeId CommitteeId

func (RemoveCommitteeId) Tag() Tag { return TagRemoveCommitteeId }

func (r RemoveCommitteeId) payload() []byte { return append([]byte(nil), r[:]...) }

func (PerVoteCertificateFees) Tag() Tag { return TagPerVoteCertificateFees }

func (p PerVoteCertificateFees) payload() []byte {
	ret := u64Payload(p.VotePlan)
	return binary.BigEndian.AppendUint64(ret, p.VoteCast)
}

type TransactionMaxExpiryEpochs uint8

func (TransactionMaxExpiryEpochs) Tag() Tag { return TagTransactionMaxExpiryEpochs }

func (t TransactionMaxExpiryEpochs) payload() []byte { return []byte{uint8(t)} }

// EvmParamsVersion is the only supported version of the EVM parameter block
const EvmParamsVersion uint8 = 1

// EvmParams references a separately encoded EVM parameter block by digest
type EvmParams struct {
	Version uint8
	Digest  digest.Hash
}

func (EvmParams) Tag() Tag { return TagEvmParams }

func (e EvmParams) payload() []byte {
	ret := make([]byte, 0, 1+digest.Size)
	ret = append(ret, e.Version)
	return append(ret, e.Digest[:]...)
}

func u64Payload(v uint64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), v)
}

func u32Payload(v uint32) []byte {
	return binary.BigEndian.AppendUint32(make([]byte, 0, 4), v)
}
