// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dateformat

import (
	"container/list"
	"sync"
)

// DefaultCacheSize is the number of compiled patterns a [Formatter]
// created by [Default] keeps.
const DefaultCacheSize = 64

// Cache is a fixed-capacity least-recently-used map from strftime
// pattern to compiled Go layout.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	pattern string
	layout  string
}

// NewCache returns a cache holding at most capacity layouts. A
// capacity below 1 is treated as 1.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the layout cached for pattern and marks it as recently
// used.
func (c *Cache) Get(pattern string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	element, ok := c.entries[pattern]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(element)
	return element.Value.(*cacheEntry).layout, true
}

// Put stores layout for pattern, evicting the least recently used
// entry when the cache is full.
func (c *Cache) Put(pattern, layout string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if element, ok := c.entries[pattern]; ok {
		element.Value.(*cacheEntry).layout = layout
		c.order.MoveToFront(element)
		return
	}
	c.entries[pattern] = c.order.PushFront(&cacheEntry{pattern: pattern, layout: layout})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).pattern)
	}
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
