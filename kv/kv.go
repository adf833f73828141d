// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv declares the key-value store the chain and the contract state
// are persisted in.
package kv

// Getter reads values by key.
type Getter interface {
	// Get fails for a missing key with an error recognized by IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter writes values by key.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes until Write applies them all at once.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Store is a persistent or in-memory key-value store.
type Store interface {
	Getter
	Putter

	Bulk() Bulk
	Close() error
}
