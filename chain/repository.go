// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain keeps the committed blocks of the node.
package chain

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/cache"
	"github.com/stakevault/stakevault/kv"
)

const blockPrefix = byte('b')

var bestBlockKey = []byte("best-block")

func blockKey(number uint32) []byte {
	var key [5]byte
	key[0] = blockPrefix
	binary.BigEndian.PutUint32(key[1:], number)
	return key[:]
}

// Repository stores blocks by number and tracks the best one.
//
// It's thread-safe.
type Repository struct {
	store   kv.Store
	genesis *Block
	best    atomic.Pointer[Block]
	cache   *cache.LRU[uint32, *Block]

	tickLock sync.Mutex
	tick     chan struct{}
}

// NewRepository opens the repository in store. The genesis block is written
// when store is empty, and must match the stored one otherwise.
func NewRepository(store kv.Store, genesis *Block) (*Repository, error) {
	if genesis.Number != 0 {
		return nil, errors.New("genesis number != 0")
	}
	c, err := cache.NewLRU[uint32, *Block](512)
	if err != nil {
		return nil, err
	}
	repo := &Repository{
		store:   store,
		genesis: genesis,
		cache:   c,
		tick:    make(chan struct{}),
	}

	stored, err := repo.GetBlock(0)
	switch {
	case err == nil:
		if stored.ID() != genesis.ID() {
			return nil, errors.New("genesis mismatch")
		}
		data, err := store.Get(bestBlockKey)
		if err != nil {
			return nil, errors.Wrap(err, "get best block")
		}
		best, err := repo.GetBlock(binary.BigEndian.Uint32(data))
		if err != nil {
			return nil, err
		}
		repo.best.Store(best)
	case repo.IsNotFound(err):
		bulk := store.Bulk()
		if err := WriteBlock(bulk, genesis); err != nil {
			return nil, err
		}
		if err := bulk.Write(); err != nil {
			return nil, err
		}
		repo.best.Store(genesis)
	default:
		return nil, err
	}
	return repo, nil
}

// GenesisBlock returns the genesis block.
func (r *Repository) GenesisBlock() *Block {
	return r.genesis
}

// BestBlock returns the latest committed block.
func (r *Repository) BestBlock() *Block {
	return r.best.Load()
}

// IsNotFound returns whether err is a not found error.
func (r *Repository) IsNotFound(err error) bool {
	return r.store.IsNotFound(errors.Cause(err))
}

// GetBlock returns the block of number.
func (r *Repository) GetBlock(number uint32) (*Block, error) {
	return r.cache.GetOrLoad(number, func() (*Block, error) {
		data, err := r.store.Get(blockKey(number))
		if err != nil {
			return nil, err
		}
		var b Block
		if err := rlp.DecodeBytes(data, &b); err != nil {
			return nil, errors.Wrap(err, "decode block")
		}
		return &b, nil
	})
}

// WriteBlock puts b into w as the best block.
func WriteBlock(w kv.Putter, b *Block) error {
	data, err := rlp.EncodeToBytes(b)
	if err != nil {
		return err
	}
	if err := w.Put(blockKey(b.Number), data); err != nil {
		return err
	}
	var number [4]byte
	binary.BigEndian.PutUint32(number[:], b.Number)
	return w.Put(bestBlockKey, number[:])
}

// SetBest marks b, already written with WriteBlock, as the best block and
// wakes the tickers.
func (r *Repository) SetBest(b *Block) error {
	best := r.BestBlock()
	if b.Number != best.Number+1 || b.ParentID != best.ID() {
		return errors.Errorf("block #%d does not extend best #%d", b.Number, best.Number)
	}
	r.cache.Add(b.Number, b)
	r.best.Store(b)

	r.tickLock.Lock()
	close(r.tick)
	r.tick = make(chan struct{})
	r.tickLock.Unlock()
	return nil
}

// NewTicker returns a channel closed when the next best block is set.
func (r *Repository) NewTicker() <-chan struct{} {
	r.tickLock.Lock()
	defer r.tickLock.Unlock()
	return r.tick
}

// Initialized reports whether store already holds a chain.
func Initialized(store kv.Getter) (bool, error) {
	return store.Has(bestBlockKey)
}
