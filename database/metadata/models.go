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

package metadata

import "time"

// MigrateModels lists the tables created when a store is opened
var MigrateModels = []any{
	&CommitTimestamp{},
	&Block{},
	&Snapshot{},
}

// CommitTimestamp tracks the time of the last coordinated commit
type CommitTimestamp struct {
	ID        uint `gorm:"primarykey"`
	Timestamp int64
}

func (CommitTimestamp) TableName() string {
	return "commit_timestamp"
}

// Block indexes a stored block by its header hash
type Block struct {
	ID            uint   `gorm:"primarykey"`
	Hash          []byte `gorm:"uniqueIndex;size:32"`
	Parent        []byte `gorm:"index;size:32"`
	Epoch         uint32
	Slot          uint32
	ChainLength   uint32 `gorm:"index"`
	ContentSize   uint32
	FragmentCount uint32
	Version       uint16
}

func (Block) TableName() string {
	return "block"
}

// Snapshot indexes a stored ledger snapshot by the hash of its encoding
type Snapshot struct {
	ID             uint   `gorm:"primarykey"`
	Digest         []byte `gorm:"uniqueIndex;size:32"`
	Epoch          uint32
	Slot           uint32
	ChainLength    uint32 `gorm:"index"`
	EntryCount     uint64
	RawSize        uint64
	CompressedSize uint64
	CreatedAt      time.Time
}

func (Snapshot) TableName() string {
	return "snapshot"
}
