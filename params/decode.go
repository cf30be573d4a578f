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
	"fmt"

	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/value"
)

func fixedU8(tag Tag, payload []byte) (uint8, error) {
	if len(payload) != 1 {
		return 0, sizeInvalid(tag, 1, len(payload))
	}
	return payload[0], nil
}

func fixedU32(tag Tag, payload []byte) (uint32, error) {
	if len(payload) != 4 {
		return 0, sizeInvalid(tag, 4, len(payload))
	}
	return binary.BigEndian.Uint32(payload), nil
}

func fixedU64(tag Tag, payload []byte) (uint64, error) {
	if len(payload) != 8 {
		return 0, sizeInvalid(tag, 8, len(payload))
	}
	return binary.BigEndian.Uint64(payload), nil
}

func fixed32(tag Tag, payload []byte) ([32]byte, error) {
	var ret [32]byte
	if len(payload) != len(ret) {
		return ret, sizeInvalid(tag, len(ret), len(payload))
	}
	copy(ret[:], payload)
	return ret, nil
}

func readNonZeroU64(r *codec.Reader, field string) (uint64, error) {
	v, err := r.GetU64()
	if err != nil {
		return 0, payloadErr(err)
	}
	if v == 0 {
		return 0, structureInvalid("%s must be nonzero", field)
	}
	return v, nil
}

func readNonZeroU32(r *codec.Reader, field string) (uint32, error) {
	v, err := r.GetU32()
	if err != nil {
		return 0, payloadErr(err)
	}
	if v == 0 {
		return 0, structureInvalid("%s must be nonzero", field)
	}
	return v, nil
}

func readRatio(r *codec.Reader) (value.Ratio, error) {
	num, err := r.GetU64()
	if err != nil {
		return value.Ratio{}, payloadErr(err)
	}
	denom, err := readNonZeroU64(r, "ratio denominator")
	if err != nil {
		return value.Ratio{}, err
	}
	return value.Ratio{Numerator: num, Denominator: denom}, nil
}

func expectEnd(r *codec.Reader) error {
	if err := r.ExpectEnd(); err != nil {
		return payloadErr(err)
	}
	return nil
}

func decodeDiscrimination(payload []byte) (ConfigParam, error) {
	b, err := fixedU8(TagDiscrimination, payload)
	if err != nil {
		return nil, err
	}
	switch d := Discrimination(b); d {
	case DiscriminationProduction, DiscriminationTest:
		return d, nil
	default:
		return nil, structureInvalid("unknown discrimination %d", b)
	}
}

func decodeBlock0Date(payload []byte) (ConfigParam, error) {
	v, err := fixedU64(TagBlock0Date, payload)
	if err != nil {
		return nil, err
	}
	return Block0Date(v), nil
}

func decodeConsensusVersion(payload []byte) (ConfigParam, error) {
	if len(payload) != 2 {
		return nil, sizeInvalid(TagConsensusVersion, 2, len(payload))
	}
	switch c := ConsensusType(binary.BigEndian.Uint16(payload)); c {
	case ConsensusBft, ConsensusGenesisPraos:
		return ConsensusVersion(c), nil
	default:
		return nil, structureInvalid("unknown consensus type %d", uint16(c))
	}
}

func decodeSlotsPerEpoch(payload []byte) (ConfigParam, error) {
	v, err := fixedU32(TagSlotsPerEpoch, payload)
	if err != nil {
		return nil, err
	}
	return SlotsPerEpoch(v), nil
}

func decodeSlotDuration(payload []byte) (ConfigParam, error) {
	v, err := fixedU8(TagSlotDuration, payload)
	if err != nil {
		return nil, err
	}
	return SlotDuration(v), nil
}

func decodeEpochStabilityDepth(payload []byte) (ConfigParam, error) {
	v, err := fixedU32(TagEpochStabilityDepth, payload)
	if err != nil {
		return nil, err
	}
	return EpochStabilityDepth(v), nil
}

func decodeActiveSlotsCoeff(payload []byte) (ConfigParam, error) {
	v, err := fixedU64(TagConsensusGenesisPraosActiveSlotsCoeff, payload)
	if err != nil {
		return nil, err
	}
	return ActiveSlotsCoeff(MilliFromMillis(v)), nil
}

func decodeBlockContentMaxSize(payload []byte) (ConfigParam, error) {
	v, err := fixedU32(TagBlockContentMaxSize, payload)
	if err != nil {
		return nil, err
	}
	return BlockContentMaxSize(v), nil
}

func decodeAddBftLeader(payload []byte) (ConfigParam, error) {
	v, err := fixed32(TagAddBftLeader, payload)
	if err != nil {
		return nil, err
	}
	return AddBftLeader(v), nil
}

func decodeRemoveBftLeader(payload []byte) (ConfigParam, error) {
	v, err := fixed32(TagRemoveBftLeader, payload)
	if err != nil {
		return nil, err
	}
	return RemoveBftLeader(v), nil
}

func decodeLinearFee(payload []byte) (ConfigParam, error) {
	if len(payload) != 24 {
		return nil, sizeInvalid(TagLinearFee, 24, len(payload))
	}
	return LinearFee{
		Constant:    binary.BigEndian.Uint64(payload[0:8]),
		Coefficient: binary.BigEndian.Uint64(payload[8:16]),
		Certificate: binary.BigEndian.Uint64(payload[16:24]),
	}, nil
}

func decodeProposalExpiration(payload []byte) (ConfigParam, error) {
	v, err := fixedU32(TagProposalExpiration, payload)
	if err != nil {
		return nil, err
	}
	return ProposalExpiration(v), nil
}

func decodeKesUpdateSpeed(payload []byte) (ConfigParam, error) {
	v, err := fixedU32(TagKesUpdateSpeed, payload)
	if err != nil {
		return nil, err
	}
	return KesUpdateSpeed(v), nil
}

func decodeTreasuryAdd(payload []byte) (ConfigParam, error) {
	v, err := fixedU64(TagTreasuryAdd, payload)
	if err != nil {
		return nil, err
	}
	return TreasuryAdd(v), nil
}

func decodeTreasuryParams(payload []byte) (ConfigParam, error) {
	r := codec.NewBytesReader(payload)
	fixed, err := r.GetU64()
	if err != nil {
		return nil, payloadErr(err)
	}
	ratio, err := readRatio(r)
	if err != nil {
		return nil, err
	}
	limit, err := r.GetU64()
	if err != nil {
		return nil, payloadErr(err)
	}
	if err := expectEnd(r); err != nil {
		return nil, err
	}
	return TreasuryParams{
		Fixed:    value.Value(fixed),
		Ratio:    ratio,
		MaxLimit: limit,
	}, nil
}

func decodeRewardPot(payload []byte) (ConfigParam, error) {
	v, err := fixedU64(TagRewardPot, payload)
	if err != nil {
		return nil, err
	}
	return RewardPot(v), nil
}

func decodeRewardParams(payload []byte) (ConfigParam, error) {
	r := codec.NewBytesReader(payload)
	kind, err := r.GetU8()
	if err != nil {
		return nil, payloadErr(err)
	}
	switch RewardKind(kind) {
	case RewardLinear, RewardHalving:
	default:
		return nil, fmt.Errorf("%w: unknown reward kind %d", ErrInvalidTag, kind)
	}
	constant, err := r.GetU64()
	if err != nil {
		return nil, payloadErr(err)
	}
	ratio, err := readRatio(r)
	if err != nil {
		return nil, err
	}
	epochStart, err := r.GetU32()
	if err != nil {
		return nil, payloadErr(err)
	}
	epochRate, err := readNonZeroU32(r, "epoch rate")
	if err != nil {
		return nil, err
	}
	if err := expectEnd(r); err != nil {
		return nil, err
	}
	return RewardParams{
		Kind:       RewardKind(kind),
		Constant:   constant,
		Ratio:      ratio,
		EpochStart: epochStart,
		EpochRate:  epochRate,
	}, nil
}

func decodePerCertificateFees(payload []byte) (ConfigParam, error) {
	if len(payload) != 24 {
		return nil, sizeInvalid(TagPerCertificateFees, 24, len(payload))
	}
	return PerCertificateFees{
		PoolRegistration:     binary.BigEndian.Uint64(payload[0:8]),
		StakeDelegation:      binary.BigEndian.Uint64(payload[8:16]),
		OwnerStakeDelegation: binary.BigEndian.Uint64(payload[16:24]),
	}, nil
}

func decodeFeesInTreasury(payload []byte) (ConfigParam, error) {
	b, err := fixedU8(TagFeesInTreasury, payload)
	if err != nil {
		return nil, err
	}
	switch b {
	case 0:
		return FeesInTreasury(false), nil
	case 1:
		return FeesInTreasury(true), nil
	default:
		return nil, fmt.Errorf("%w: byte %d", ErrBoolInvalid, b)
	}
}

func decodeRewardLimitNone(payload []byte) (ConfigParam, error) {
	if len(payload) != 0 {
		return nil, sizeInvalid(TagRewardLimitNone, 0, len(payload))
	}
	return RewardLimitNone{}, nil
}

func decodeRewardLimitByAbsoluteStake(payload []byte) (ConfigParam, error) {
	r := codec.NewBytesReader(payload)
	ratio, err := readRatio(r)
	if err != nil {
		return nil, err
	}
	if err := expectEnd(r); err != nil {
		return nil, err
	}
	return RewardLimitByAbsoluteStake(ratio), nil
}

func decodePoolRewardParticipationCapping(payload []byte) (ConfigParam, error) {
	r := codec.NewBytesReader(payload)
	minPools, err := readNonZeroU32(r, "participation minimum")
	if err != nil {
		return nil, err
	}
	maxPools, err := readNonZeroU32(r, "participation maximum")
	if err != nil {
		return nil, err
	}
	if err := expectEnd(r); err != nil {
		return nil, err
	}
	return PoolRewardParticipationCapping{Min: minPools, Max: maxPools}, nil
}

func decodeAddCommitteeId(payload []byte) (ConfigParam, error) {
	id, err := CommitteeIdFromBytes(payload)
	if err != nil {
		return nil, err
	}
	return AddCommitteeId(id), nil
}

func decodeRemoveCommitteeId(payload []byte) (ConfigParam, error) {
	id, err := CommitteeIdFromBytes(payload)
	if err != nil {
		return nil, err
	}
	return RemoveCommitteeId(id), nil
}

func decodePerVoteCertificateFees(payload []byte) (ConfigParam, error) {
	if len(payload) != 16 {
		return nil, sizeInvalid(TagPerVoteCertificateFees, 16, len(payload))
	}
	return PerVoteCertificateFees{
		VotePlan: binary.BigEndian.Uint64(payload[0:8]),
		VoteCast: binary.BigEndian.Uint64(payload[8:16]),
	}, nil
}

func decodeTransactionMaxExpiryEpochs(payload []byte) (ConfigParam, error) {
	v, err := fixedU8(TagTransactionMaxExpiryEpochs, payload)
	if err != nil {
		return nil, err
	}
	return TransactionMaxExpiryEpochs(v), nil
}

func decodeEvmParams(payload []byte) (ConfigParam, error) {
	if len(payload) != 1+digest.Size {
		return nil, sizeInvalid(TagEvmParams, 1+digest.Size, len(payload))
	}
	if payload[0] != EvmParamsVersion {
		return nil, structureInvalid("unknown evm params version %d", payload[0])
	}
	ret := EvmParams{Version: payload[0]}
	copy(ret.Digest[:], payload[1:])
	return ret, nil
}
