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

package database

import (
	"container/list"
	"sync"

	"github.com/blinklabs-io/chaincore/block"
	"github.com/blinklabs-io/chaincore/fragment"
)

// DefaultBlockCacheEntries is the number of decoded blocks kept in memory
const DefaultBlockCacheEntries = 64

// cachedBlock is a decoded block with its fragments indexed by id
type cachedBlock struct {
	block     block.Block
	fragments map[fragment.ID]int
}

func newCachedBlock(b block.Block) *cachedBlock {
	contents := b.Contents()
	ret := &cachedBlock{
		block:     b,
		fragments: make(map[fragment.ID]int, len(contents)),
	}
	for i, raw := range contents {
		// The first occurrence wins for repeated fragments
		if _, ok := ret.fragments[raw.ID()]; !ok {
			ret.fragments[raw.ID()] = i
		}
	}
	return ret
}

// fragment returns the raw fragment with the given id
func (cb *cachedBlock) fragment(id fragment.ID) (fragment.Raw, bool) {
	idx, ok := cb.fragments[id]
	if !ok {
		return nil, false
	}
	return cb.block.Contents()[idx], true
}

type blockCacheEntry struct {
	id    block.HeaderID
	block *cachedBlock
}

// blockCache is a thread-safe LRU of decoded blocks. A capacity of zero
// disables it.
type blockCache struct {
	mu         sync.Mutex
	maxEntries int
	cache      map[block.HeaderID]*list.Element
	lruList    *list.List
}

func newBlockCache(maxEntries int) *blockCache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &blockCache{
		maxEntries: maxEntries,
		cache:      make(map[block.HeaderID]*list.Element),
		lruList:    list.New(),
	}
}

func (c *blockCache) get(id block.HeaderID) (*cachedBlock, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.cache[id]
	if !ok {
		return nil, false
	}
	c.lruList.MoveToFront(elem)
	return elem.Value.(*blockCacheEntry).block, true
}

func (c *blockCache) put(b *cachedBlock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxEntries == 0 {
		return
	}
	id := b.block.ID()
	if elem, ok := c.cache[id]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value.(*blockCacheEntry).block = b
		return
	}
	c.cache[id] = c.lruList.PushFront(&blockCacheEntry{id: id, block: b})
	for c.lruList.Len() > c.maxEntries {
		oldest := c.lruList.Back()
		delete(c.cache, oldest.Value.(*blockCacheEntry).id)
		c.lruList.Remove(oldest)
	}
}

func (c *blockCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lruList.Len()
}
