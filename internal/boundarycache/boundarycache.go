// Copyright 2025 The multiparts Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package boundarycache memoizes the result of parsing a Content-Type
// header's boundary parameter, keyed by a hash of the raw header value.
// Servers that see the same handful of Content-Type strings on every
// request (most do — clients rarely vary their multipart boundary
// generation scheme) avoid re-running the parameter scanner on each call.
package boundarycache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Cache maps a Content-Type header's xxhash digest to a previously
// computed value of type T. It is safe for concurrent use.
type Cache[T any] struct {
	mu    sync.RWMutex
	items map[uint64]T
}

// New creates an empty Cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{items: make(map[uint64]T)}
}

// Get looks up the value for contentType, if one has been stored.
func (c *Cache[T]) Get(contentType string) (T, bool) {
	key := xxhash.Sum64String(contentType)
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// Set stores v under the hash of contentType.
func (c *Cache[T]) Set(contentType string, v T) {
	key := xxhash.Sum64String(contentType)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = v
}

// Len reports the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
