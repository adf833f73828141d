// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/state"
)

// InitChain opens the chain in store. An empty store gets the genesis state,
// block and events; a populated one must have been built from the same genesis.
func InitChain(gene *genesis.Genesis, store kv.Store, logDB *logdb.LogDB) (*chain.Repository, *state.Stater, error) {
	stater := state.NewStater(store)

	initialized, err := chain.Initialized(store)
	if err != nil {
		return nil, nil, err
	}
	if !initialized {
		blk, stage, events, err := gene.Build(stater)
		if err != nil {
			return nil, nil, errors.Wrap(err, "build genesis")
		}
		if err := stage.Commit(func(w kv.Putter) error { return chain.WriteBlock(w, blk) }); err != nil {
			return nil, nil, errors.Wrap(err, "commit genesis")
		}
		if logDB != nil {
			if err := logDB.NewBatch(blk.Number, blk.Time).Insert(events...).Commit(); err != nil {
				return nil, nil, errors.Wrap(err, "write genesis events")
			}
		}
		logger.Info("genesis initialized", "id", blk.ID(), "events", len(events))
	}

	repo, err := chain.NewRepository(store, gene.Block())
	if err != nil {
		return nil, nil, err
	}
	return repo, stater, nil
}
