// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/cache"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/vault"
)

const storagePrefix = byte('s')

// Stater is the state creator. It owns the read cache of committed storage slots.
type Stater struct {
	store kv.Store
	cache *cache.LRU[storageKey, rlp.RawValue]
}

// NewStater create a new stater.
func NewStater(store kv.Store) *Stater {
	c, _ := cache.NewLRU[storageKey, rlp.RawValue](16384)
	return &Stater{store: store, cache: c}
}

// NewMem creates a state backed by an in-memory store.
func NewMem() *State {
	db, err := lvldb.NewMem()
	if err != nil {
		panic(err)
	}
	return NewStater(db).NewState()
}

// NewState create a new state object over the committed storage.
func (s *Stater) NewState() *State {
	return newState(s)
}

func storeKey(key storageKey) []byte {
	buf := make([]byte, 0, 1+vault.AddressLength+32)
	buf = append(buf, storagePrefix)
	buf = append(buf, key.addr[:]...)
	return append(buf, key.key[:]...)
}

func (s *Stater) load(key storageKey) (rlp.RawValue, error) {
	return s.cache.GetOrLoad(key, func() (rlp.RawValue, error) {
		raw, err := s.store.Get(storeKey(key))
		if err != nil {
			if s.store.IsNotFound(err) {
				return nil, nil
			}
			return nil, errors.Wrap(err, "load storage")
		}
		return raw, nil
	})
}

// Store returns the underlying kv store.
func (s *Stater) Store() kv.Store {
	return s.store
}

func (s *Stater) commit(changes map[storageKey]rlp.RawValue, extras []func(kv.Putter) error) error {
	bulk := s.store.Bulk()
	for _, extra := range extras {
		if err := extra(bulk); err != nil {
			return err
		}
	}
	for key, value := range changes {
		var err error
		if len(value) == 0 {
			err = bulk.Delete(storeKey(key))
		} else {
			err = bulk.Put(storeKey(key), value)
		}
		if err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write storage")
	}
	for key, value := range changes {
		s.cache.Add(key, value)
	}
	return nil
}
