// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/vault"
)

// Stage abstracts the pending changes of a state.
type Stage struct {
	stater  *Stater
	changes map[storageKey]rlp.RawValue
}

func newStage(stater *Stater, changes map[storageKey]rlp.RawValue) *Stage {
	return &Stage{stater: stater, changes: changes}
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes a digest of the changes, ordered by store key.
func (s *Stage) Hash() vault.Bytes32 {
	keys := make([][]byte, 0, len(s.changes))
	values := make(map[string]rlp.RawValue, len(s.changes))
	for k, v := range s.changes {
		sk := storeKey(k)
		keys = append(keys, sk)
		values[string(sk)] = v
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

	return vault.Blake2bFn(func(w io.Writer) {
		for _, k := range keys {
			w.Write(k)
			w.Write(values[string(k)])
		}
	})
}

// Commit writes all changes into the underlying store atomically. Extra
// writes, such as the block the changes belong to, go into the same batch.
func (s *Stage) Commit(extras ...func(kv.Putter) error) error {
	if len(s.changes) == 0 && len(extras) == 0 {
		return nil
	}
	if err := s.stater.commit(s.changes, extras); err != nil {
		return &Error{err}
	}
	return nil
}
