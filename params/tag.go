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
	"fmt"
	"strconv"
)

// Tag identifies a config parameter on the wire. Tags are never reused and
// must stay below 1024.
type Tag uint16

const (
	TagDiscrimination                        Tag = 1
	TagBlock0Date                            Tag = 2
	TagConsensusVersion                      Tag = 3
	TagSlotsPerEpoch                         Tag = 4
	TagSlotDuration                          Tag = 5
	TagEpochStabilityDepth                   Tag = 6
	TagConsensusGenesisPraosActiveSlotsCoeff Tag = 8
	TagBlockContentMaxSize                   Tag = 9
	TagAddBftLeader                          Tag = 11
	TagRemoveBftLeader                       Tag = 12
	TagLinearFee                             Tag = 14
	TagProposalExpiration                    Tag = 15
	TagKesUpdateSpeed                        Tag = 16
	TagTreasuryAdd                           Tag = 17
	TagTreasuryParams                        Tag = 18
	TagRewardPot                             Tag = 19
	TagRewardParams                          Tag = 20
	TagPerCertificateFees                    Tag = 21
	TagFeesInTreasury                        Tag = 22
	TagRewardLimitNone                       Tag = 23
	TagRewardLimitByAbsoluteStake            Tag = 24
	TagPoolRewardParticipationCapping        Tag = 25
	TagAddCommitteeId                        Tag = 26
	TagRemoveCommitteeId                     Tag = 27
	TagPerVoteCertificateFees                Tag = 28
	TagTransactionMaxExpiryEpochs            Tag = 29
	TagEvmParams                             Tag = 30
)

// MaxTag is the exclusive upper bound on tag values imposed by TagLen
const MaxTag = 1 << 10

type payloadDecoder func(payload []byte) (ConfigParam, error)

type tagInfo struct {
	tag    Tag
	name   string
	decode payloadDecoder
	// gated tags only decode when the matching capability is enabled
	gated bool
}

// tagTable is the single mapping between tags, names and decoders
var tagTable = [...]tagInfo{
	{tag: TagDiscrimination, name: "discrimination", decode: decodeDiscrimination},
	{tag: TagBlock0Date, name: "block0-date", decode: decodeBlock0Date},
	{tag: TagConsensusVersion, name: "block0-consensus", decode: decodeConsensusVersion},
	{tag: TagSlotsPerEpoch, name: "slots-per-epoch", decode: decodeSlotsPerEpoch},
	{tag: TagSlotDuration, name: "slot-duration", decode: decodeSlotDuration},
	{tag: TagEpochStabilityDepth, name: "epoch-stability-depth", decode: decodeEpochStabilityDepth},
	{tag: TagConsensusGenesisPraosActiveSlotsCoeff, name: "genesis-praos-param-f", decode: decodeActiveSlotsCoeff},
	{tag: TagBlockContentMaxSize, name: "block-content-max-size", decode: decodeBlockContentMaxSize},
	{tag: TagAddBftLeader, name: "add-bft-leader", decode: decodeAddBftLeader},
	{tag: TagRemoveBftLeader, name: "remove-bft-leader", decode: decodeRemoveBftLeader},
	{tag: TagLinearFee, name: "linear-fee", decode: decodeLinearFee},
	{tag: TagProposalExpiration, name: "proposal-expiration", decode: decodeProposalExpiration},
	{tag: TagKesUpdateSpeed, name: "kes-update-speed", decode: decodeKesUpdateSpeed},
	{tag: TagTreasuryAdd, name: "treasury", decode: decodeTreasuryAdd},
	{tag: TagTreasuryParams, name: "treasury-params", decode: decodeTreasuryParams},
	{tag: TagRewardPot, name: "reward-pot", decode: decodeRewardPot},
	{tag: TagRewardParams, name: "reward-params", decode: decodeRewardParams},
	{tag: TagPerCertificateFees, name: "per-certificate-fees", decode: decodePerCertificateFees},
	{tag: TagFeesInTreasury, name: "fees-in-treasury", decode: decodeFeesInTreasury},
	{tag: TagRewardLimitNone, name: "reward-limit-none", decode: decodeRewardLimitNone},
	{tag: TagRewardLimitByAbsoluteStake, name: "reward-limit-by-absolute-stake", decode: decodeRewardLimitByAbsoluteStake},
	{tag: TagPoolRewardParticipationCapping, name: "pool-reward-participation-capping", decode: decodePoolRewardParticipationCapping},
	{tag: TagAddCommitteeId, name: "add-committee-id", decode: decodeAddCommitteeId},
	{tag: TagRemoveCommitteeId, name: "remove-committee-id", decode: decodeRemoveCommitteeId},
	{tag: TagPerVoteCertificateFees, name: "per-vote-certificate-fees", decode: decodePerVoteCertificateFees},
	{tag: TagTransactionMaxExpiryEpochs, name: "transaction-maximum-expiry-epochs", decode: decodeTransactionMaxExpiryEpochs},
	{tag: TagEvmParams, name: "evm-config-params", decode: decodeEvmParams, gated: true},
}

func lookupTag(tag Tag) (tagInfo, bool) {
	for _, info := range tagTable {
		if info.tag == tag {
			return info, true
		}
	}
	return tagInfo{}, false
}

// AllTags returns every known tag in table order
func AllTags() []Tag {
	ret := make([]Tag, 0, len(tagTable))
	for _, info := range tagTable {
		ret = append(ret, info.tag)
	}
	return ret
}

// TagFromUint16 converts a numeric tag, failing with ErrInvalidTag for any
// value outside the known set
func TagFromUint16(v uint16) (Tag, error) {
	if info, ok := lookupTag(Tag(v)); ok {
		return info.tag, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidTag, v)
}

// ParseTag looks up a tag by its name
func ParseTag(name string) (Tag, error) {
	for _, info := range tagTable {
		if info.name == name {
			return info.tag, nil
		}
	}
	return 0, &UnknownStringError{Value: name}
}

func (t Tag) String() string {
	if info, ok := lookupTag(t); ok {
		return info.name
	}
	return "unknown-tag-" + strconv.FormatUint(uint64(t), 10)
}

// maxPayloadLen is the exclusive bound on a single payload length
const maxPayloadLen = 64

// TagLen packs a tag and a payload length as tag<<6 | len
type TagLen uint16

// NewTagLen packs tag and length. It returns false when length does not fit
// in 6 bits.
func NewTagLen(tag Tag, length int) (TagLen, bool) {
	if length < 0 || length >= maxPayloadLen || tag >= MaxTag {
		return 0, false
	}
	return TagLen(uint16(tag)<<6 | uint16(length)), true
}

// Tag returns the tag bits, validated against the tag table
func (tl TagLen) Tag() (Tag, error) {
	return TagFromUint16(uint16(tl) >> 6)
}

// Len returns the payload length bits
func (tl TagLen) Len() int {
	return int(tl & 0x3f)
}
