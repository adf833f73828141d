// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache holds the read-through caches in front of the block and
// storage stores.
package cache

import (
	"github.com/pkg/errors"

	lru "github.com/hashicorp/golang-lru"
)

// LRU is a typed, bounded cache of values loaded from a store.
type LRU[K comparable, V any] struct {
	c *lru.Cache
}

// NewLRU creates a cache of at most size entries.
func NewLRU[K comparable, V any](size int) (*LRU[K, V], error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "new lru")
	}
	return &LRU[K, V]{c: c}, nil
}

// Get returns the cached value of key.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.c.Get(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Add caches value under key, replacing an older one.
func (l *LRU[K, V]) Add(key K, value V) {
	l.c.Add(key, value)
}

// GetOrLoad returns the cached value of key, calling load on a miss. Failed
// loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	l.c.Add(key, v)
	return v, nil
}
