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

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("metadata record not found")

// AddBlock records a block. Adding a known hash again is a no-op.
func (s *Store) AddBlock(b Block, txn *gorm.DB) error {
	result := s.resolveDB(txn).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash"}},
		DoNothing: true,
	}).Create(&b)
	return result.Error
}

// GetBlock looks a block up by header hash
func (s *Store) GetBlock(hash []byte, txn *gorm.DB) (Block, error) {
	var ret Block
	result := s.resolveDB(txn).Where("hash = ?", hash).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, ErrNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// Tip returns the block with the greatest chain length. Ties go to the
// block recorded first.
func (s *Store) Tip(txn *gorm.DB) (Block, error) {
	var ret Block
	result := s.resolveDB(txn).
		Order("chain_length DESC").
		Order("id ASC").
		First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ret, ErrNotFound
		}
		return ret, result.Error
	}
	return ret, nil
}

// BlockCount returns the number of indexed blocks
func (s *Store) BlockCount(txn *gorm.DB) (int64, error) {
	var count int64
	result := s.resolveDB(txn).Model(&Block{}).Count(&count)
	return count, result.Error
}
