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

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddSnapshot records a snapshot. Adding a known digest again is a no-op.
func (s *Store) AddSnapshot(snap Snapshot, txn *gorm.DB) error {
	result := s.resolveDB(txn).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "digest"}},
		DoNothing: true,
	}).Create(&snap)
	return result.Error
}

func (s *Store) GetSnapshot(digest []byte, txn *gorm.DB) (Snapshot, error) {
	var ret Snapshot
	result := s.resolveDB(txn).Where("digest = ?", digest).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, ErrNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// ListSnapshots returns every indexed snapshot ordered by chain position
func (s *Store) ListSnapshots(txn *gorm.DB) ([]Snapshot, error) {
	var ret []Snapshot
	result := s.resolveDB(txn).
		Order("chain_length ASC").
		Order("id ASC").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
