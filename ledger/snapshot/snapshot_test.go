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

package snapshot_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/blinklabs-io/chaincore/block"
	"github.com/blinklabs-io/chaincore/codec"
	"github.com/blinklabs-io/chaincore/digest"
	"github.com/blinklabs-io/chaincore/keys"
	"github.com/blinklabs-io/chaincore/ledger"
	"github.com/blinklabs-io/chaincore/ledger/snapshot"
	"github.com/blinklabs-io/chaincore/params"
	"github.com/blinklabs-io/chaincore/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGlobals() snapshot.Globals {
	return snapshot.Globals{
		Date:        block.Date{Epoch: 12, Slot: 345},
		ChainLength: 6789,
		Static: snapshot.StaticParams{
			Block0Hash:      digest.Sum([]byte("block0")),
			Block0StartTime: 1_600_000_000,
			Discrimination:  params.DiscriminationTest,
			KesUpdateSpeed:  43200,
		},
		Era: snapshot.TimeEra{EpochStart: 0, SlotStart: 0, SlotsPerEpoch: 43200},
	}
}

func hashOf(s string) digest.Hash {
	return digest.Sum([]byte(s))
}

func sampleLedger(t *testing.T) *snapshot.Ledger {
	t.Helper()
	l := snapshot.NewLedger(testGlobals())
	require.NoError(t, l.Pots.AppendFees(10))
	require.NoError(t, l.Pots.TreasuryAdd(20))
	require.NoError(t, l.Pots.RewardsAdd(30))

	l.Utxos[snapshot.UtxoPointer{FragmentID: hashOf("tx2"), OutputIndex: 1}] = snapshot.Output{
		Address: []byte{0x83, 1, 2, 3},
		Value:   500,
	}
	l.Utxos[snapshot.UtxoPointer{FragmentID: hashOf("tx1"), OutputIndex: 0}] = snapshot.Output{
		Address: []byte{0x03, 9},
		Value:   1,
	}
	l.OldUtxos[snapshot.UtxoPointer{FragmentID: hashOf("legacy")}] = snapshot.Output{
		Address: []byte("Ae2tdPwUPEZ"),
		Value:   42,
	}

	ratio, err := snapshot.NewRatio(3, []snapshot.PoolShare{
		{Pool: hashOf("pool-a"), Share: 1},
		{Pool: hashOf("pool-b"), Share: 2},
	})
	require.NoError(t, err)
	l.Accounts[keys.PublicKey{1}] = snapshot.AccountState{
		Counter:     3,
		Delegation:  snapshot.DelegateFull(hashOf("pool-a")),
		Value:       1000,
		LastRewards: snapshot.LastRewards{Epoch: 11, Reward: 7},
	}
	l.Accounts[keys.PublicKey{2}] = snapshot.AccountState{
		Delegation: snapshot.DelegateRatio(ratio),
		Value:      2000,
	}
	l.Accounts[keys.PublicKey{3}] = snapshot.AccountState{
		Delegation: snapshot.NotDelegated(),
	}

	l.ConfigParams = params.ConfigParams{
		params.SlotsPerEpoch(43200),
		params.DiscriminationTest,
		params.LinearFee{Constant: 2, Coefficient: 1, Certificate: 4},
	}
	l.UpdateProposals[hashOf("proposal")] = snapshot.ProposalState{
		Proposal: snapshot.Proposal{
			Changes:  params.ConfigParams{params.SlotDuration(10)},
			Proposer: keys.PublicKey{9},
		},
		Date:   block.Date{Epoch: 12, Slot: 1},
		Voters: []keys.PublicKey{{9}, {8}},
	}
	l.MultisigAccounts[hashOf("multisig")] = snapshot.AccountState{Value: 77}
	l.MultisigDeclarations[hashOf("multisig")] = snapshot.Declaration{
		Threshold: 2,
		Owners: []snapshot.DeclElement{
			snapshot.OwnerElement(hashOf("owner-1")),
			snapshot.SubElement(snapshot.Declaration{
				Threshold: 1,
				Owners: []snapshot.DeclElement{
					snapshot.OwnerElement(hashOf("owner-2")),
				},
			}),
		},
	}
	l.StakePools[hashOf("pool-a")] = snapshot.PoolState{
		LastRewards: snapshot.PoolLastRewards{
			Epoch:           11,
			ValueTaxed:      5,
			ValueForStakers: 95,
		},
		Registration: []byte{0xde, 0xad, 0xbe, 0xef},
	}
	l.LeaderParticipation[hashOf("pool-a")] = 12
	l.LeaderParticipation[hashOf("pool-b")] = 3
	return l
}

func TestLedgerRoundTrip(t *testing.T) {
	l := sampleLedger(t)
	data, err := l.Bytes()
	require.NoError(t, err)
	assert.Equal(t, byte(snapshot.CodeEnd), data[len(data)-1])

	loaded, err := snapshot.LoadBytes(data)
	require.NoError(t, err)
	assert.Equal(t, l, loaded)

	again, err := loaded.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, again)

	streamed, err := snapshot.Load(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, l, streamed)
}

func TestEmptyLedgerDefaults(t *testing.T) {
	l := snapshot.NewLedger(snapshot.Globals{})
	assert.Equal(t, params.DiscriminationProduction, l.Globals.Static.Discrimination)
	data, err := l.Bytes()
	require.NoError(t, err)
	loaded, err := snapshot.LoadBytes(data)
	require.NoError(t, err)
	assert.Equal(t, l, loaded)
}

func TestEntriesOrder(t *testing.T) {
	l := sampleLedger(t)
	entries := l.Entries()
	var codes []snapshot.Code
	for _, e := range entries {
		codes = append(codes, e.Code())
	}
	assert.Equal(t, []snapshot.Code{
		snapshot.CodeGlobals,
		snapshot.CodePot, snapshot.CodePot, snapshot.CodePot,
		snapshot.CodeUtxo, snapshot.CodeUtxo,
		snapshot.CodeOldUtxo,
		snapshot.CodeAccount, snapshot.CodeAccount, snapshot.CodeAccount,
		snapshot.CodeConfigParam, snapshot.CodeConfigParam, snapshot.CodeConfigParam,
		snapshot.CodeUpdateProposal,
		snapshot.CodeMultisigAccount,
		snapshot.CodeMultisigDeclaration,
		snapshot.CodeStakePool,
		snapshot.CodeLeaderParticipation, snapshot.CodeLeaderParticipation,
	}, codes)

	pots := []ledger.EntryType{}
	for _, e := range entries[1:4] {
		pots = append(pots, e.(snapshot.Pot).Type)
	}
	assert.Equal(t, []ledger.EntryType{ledger.EntryFees, ledger.EntryTreasury, ledger.EntryRewards}, pots)

	// keyed collections come out sorted
	first := entries[7].(snapshot.Account)
	assert.Equal(t, keys.PublicKey{1}, first.ID)
	assert.Equal(t, params.SlotsPerEpoch(43200), entries[10].(snapshot.ConfigParam).Param)
	assert.Equal(t, entries, l.Entries())
}

func TestGlobalsEncoding(t *testing.T) {
	var buf bytes.Buffer
	enc := snapshot.NewEncoder(&buf)
	require.NoError(t, enc.Encode(testGlobals()))
	require.NoError(t, enc.Close())
	assert.Equal(t, 1, enc.Count())
	// code + date + chain length + static params + time era + end marker
	assert.Equal(t, 1+8+4+(32+8+1+4)+(4+8+4)+1, buf.Len())
	assert.Equal(t, int64(buf.Len()), enc.Written())
	data := buf.Bytes()
	assert.Equal(t, byte(snapshot.CodeGlobals), data[0])
	// test discrimination is written as 1
	assert.Equal(t, byte(1), data[1+8+4+32+8])

	require.ErrorIs(t, enc.Encode(testGlobals()), snapshot.ErrEncoderClosed)
	require.ErrorIs(t, enc.Close(), snapshot.ErrEncoderClosed)
}

func TestPotEntryEncoding(t *testing.T) {
	var buf bytes.Buffer
	entry := snapshot.Pot{Entry: ledger.Entry{Type: ledger.EntryTreasury, Value: value.Value(0x0a0b)}}
	require.NoError(t, snapshot.WriteAll(&buf, []snapshot.Entry{entry}))
	assert.Equal(t, []byte{1, 1, 0, 0, 0, 0, 0, 0, 0x0a, 0x0b, 11}, buf.Bytes())
}

func TestDecoderLazy(t *testing.T) {
	data, err := sampleLedger(t).Bytes()
	require.NoError(t, err)
	d := snapshot.NewDecoder(bytes.NewReader(data))

	e, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, testGlobals(), e)
	assert.Equal(t, 1, d.Count())
	require.Error(t, d.ExpectEnd())

	for {
		_, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, 19, d.Count())
	assert.Equal(t, int64(len(data)), d.Pos())
	_, err = d.Next()
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, d.ExpectEnd())
}

func TestStreamErrors(t *testing.T) {
	data, err := sampleLedger(t).Bytes()
	require.NoError(t, err)

	// missing end marker
	_, err = snapshot.DecodeAll(data[:len(data)-1])
	require.ErrorIs(t, err, codec.ErrUnexpectedEnd)
	_, err = snapshot.ReadAll(bytes.NewReader(data[:len(data)-1]))
	require.ErrorIs(t, err, codec.ErrUnexpectedEnd)

	// entry cut in the middle
	_, err = snapshot.DecodeAll(data[:20])
	require.ErrorIs(t, err, codec.ErrUnexpectedEnd)

	// unknown code
	_, err = snapshot.DecodeAll([]byte{12})
	require.ErrorIs(t, err, codec.ErrStructureInvalid)

	// bytes after the end marker
	_, err = snapshot.DecodeAll(append(data, 0))
	require.ErrorIs(t, err, codec.ErrTrailingBytes)
	_, err = snapshot.LoadBytes(append(data, 0))
	require.ErrorIs(t, err, codec.ErrTrailingBytes)

	entries, err := snapshot.DecodeAll([]byte{11})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadGlobals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, snapshot.WriteAll(&buf, []snapshot.Entry{
		snapshot.Pot{Entry: ledger.Entry{Type: ledger.EntryFees, Value: 1}},
	}))
	_, err := snapshot.LoadBytes(buf.Bytes())
	require.ErrorIs(t, err, codec.ErrInvalidData)

	buf.Reset()
	require.NoError(t, snapshot.WriteAll(&buf, []snapshot.Entry{
		testGlobals(),
		snapshot.Pot{Entry: ledger.Entry{Type: ledger.EntryFees, Value: 1}},
		testGlobals(),
	}))
	_, err = snapshot.LoadBytes(buf.Bytes())
	require.ErrorIs(t, err, codec.ErrInvalidData)

	// globals need not come first
	buf.Reset()
	require.NoError(t, snapshot.WriteAll(&buf, []snapshot.Entry{
		snapshot.Pot{Entry: ledger.Entry{Type: ledger.EntryRewards, Value: 5}},
		testGlobals(),
	}))
	l, err := snapshot.LoadBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, testGlobals(), l.Globals)
	assert.Equal(t, value.Value(5), l.Pots.RewardsValue())
}

func TestLoadDuplicateKey(t *testing.T) {
	account := snapshot.Account{ID: keys.PublicKey{1}}
	var buf bytes.Buffer
	require.NoError(t, snapshot.WriteAll(&buf, []snapshot.Entry{
		testGlobals(),
		account,
		account,
	}))
	_, err := snapshot.LoadBytes(buf.Bytes())
	require.ErrorIs(t, err, codec.ErrInvalidData)
}

func TestNewRatio(t *testing.T) {
	pool := hashOf("pool")
	share := func(s uint8) snapshot.PoolShare {
		return snapshot.PoolShare{Pool: pool, Share: s}
	}
	testDefs := []struct {
		name  string
		parts uint8
		pools []snapshot.PoolShare
		valid bool
	}{
		{name: "single", parts: 1, pools: []snapshot.PoolShare{share(1)}, valid: true},
		{name: "split", parts: 5, pools: []snapshot.PoolShare{share(2), share(3)}, valid: true},
		{name: "zero parts", parts: 0, pools: []snapshot.PoolShare{share(1)}},
		{name: "no pools", parts: 1},
		{name: "zero share", parts: 1, pools: []snapshot.PoolShare{share(1), share(0)}},
		{name: "sum mismatch", parts: 4, pools: []snapshot.PoolShare{share(1), share(2)}},
		{
			name:  "too many pools",
			parts: 9,
			pools: []snapshot.PoolShare{
				share(1), share(1), share(1), share(1), share(1),
				share(1), share(1), share(1), share(1),
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := snapshot.NewRatio(testDef.parts, testDef.pools)
			if testDef.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, codec.ErrInvalidData)
		})
	}
}

// accountEntry builds a raw account entry with a custom delegation body
func accountEntry(t *testing.T, delegation func(w *codec.Writer) error) []byte {
	t.Helper()
	data, err := codec.EncodeToBytes(func(w *codec.Writer) error {
		if err := w.PutU8(uint8(snapshot.CodeAccount)); err != nil {
			return err
		}
		if err := w.PutBytes(make([]byte, 32)); err != nil {
			return err
		}
		if err := w.PutU32(0); err != nil {
			return err
		}
		if err := delegation(w); err != nil {
			return err
		}
		if err := w.PutU64(0); err != nil {
			return err
		}
		if err := w.PutU32(0); err != nil {
			return err
		}
		if err := w.PutU64(0); err != nil {
			return err
		}
		return w.PutU8(uint8(snapshot.CodeEnd))
	})
	require.NoError(t, err)
	return data
}

func TestDelegationDecodeErrors(t *testing.T) {
	pool := hashOf("pool")

	_, err := snapshot.DecodeAll(accountEntry(t, func(w *codec.Writer) error {
		return w.PutU8(3)
	}))
	require.ErrorIs(t, err, codec.ErrStructureInvalid)

	// ratio over an empty pool list: the zero account value is read as
	// the pool count
	_, err = snapshot.DecodeAll(accountEntry(t, func(w *codec.Writer) error {
		if err := w.PutU8(2); err != nil {
			return err
		}
		return w.PutU8(2)
	}))
	require.ErrorIs(t, err, codec.ErrInvalidData)

	// shares summing past parts
	_, err = snapshot.DecodeAll(accountEntry(t, func(w *codec.Writer) error {
		if err := w.PutU8(2); err != nil {
			return err
		}
		if err := w.PutU8(2); err != nil {
			return err
		}
		if err := w.PutU64(1); err != nil {
			return err
		}
		if err := w.PutU8(3); err != nil {
			return err
		}
		if err := w.PutU64(32); err != nil {
			return err
		}
		return w.PutBytes(pool[:])
	}))
	require.ErrorIs(t, err, codec.ErrInvalidData)

	// pool digest of the wrong size
	_, err = snapshot.DecodeAll(accountEntry(t, func(w *codec.Writer) error {
		if err := w.PutU8(1); err != nil {
			return err
		}
		if err := w.PutU64(28); err != nil {
			return err
		}
		return w.PutBytes(make([]byte, 28))
	}))
	require.ErrorIs(t, err, codec.ErrInvalidData)

	ok, err := snapshot.DecodeAll(accountEntry(t, func(w *codec.Writer) error {
		if err := w.PutU8(1); err != nil {
			return err
		}
		if err := w.PutU64(32); err != nil {
			return err
		}
		return w.PutBytes(pool[:])
	}))
	require.NoError(t, err)
	require.Len(t, ok, 1)
	assert.Equal(t, snapshot.DelegateFull(pool), ok[0].(snapshot.Account).State.Delegation)
}

func TestDeclarationDecodeErrors(t *testing.T) {
	data, err := codec.EncodeToBytes(func(w *codec.Writer) error {
		if err := w.PutU8(uint8(snapshot.CodeMultisigDeclaration)); err != nil {
			return err
		}
		if err := w.PutBytes(make([]byte, 32)); err != nil {
			return err
		}
		if err := w.PutU8(1); err != nil {
			return err
		}
		if err := w.PutU64(1); err != nil {
			return err
		}
		// element tag 2 is not defined
		if err := w.PutU8(2); err != nil {
			return err
		}
		return w.PutU8(uint8(snapshot.CodeEnd))
	})
	require.NoError(t, err)
	_, err = snapshot.DecodeAll(data)
	require.ErrorIs(t, err, codec.ErrStructureInvalid)
}

func TestConfigParamEntryGating(t *testing.T) {
	evm := params.EvmParams{Version: params.EvmParamsVersion, Digest: hashOf("evm")}
	var buf bytes.Buffer
	require.NoError(t, snapshot.WriteAll(&buf, []snapshot.Entry{
		snapshot.ConfigParam{Param: evm},
	}))

	_, err := snapshot.DecodeAll(buf.Bytes())
	require.ErrorIs(t, err, params.ErrInvalidTag)

	entries, err := snapshot.DecodeAll(buf.Bytes(), params.WithEvm())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, evm, entries[0].(snapshot.ConfigParam).Param)
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "globals", snapshot.CodeGlobals.String())
	assert.Equal(t, "end", snapshot.CodeEnd.String())
	assert.Equal(t, "code(12)", snapshot.Code(12).String())
}
