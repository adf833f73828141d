// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial state: tokens, credential registries,
// staking pools and vesting programs.
package genesis

import (
	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

// Genesis to build genesis block.
type Genesis struct {
	builder *Builder
	block   *chain.Block
	name    string
}

// Build build the genesis block.
func (g *Genesis) Build(stater *state.Stater) (*chain.Block, *state.Stage, []*vault.Event, error) {
	return g.builder.Build(stater)
}

// ID returns genesis block ID.
func (g *Genesis) ID() vault.Bytes32 {
	return g.block.ID()
}

// Block returns the genesis block.
func (g *Genesis) Block() *chain.Block {
	return g.block
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

func newGenesis(builder *Builder, name string) (*Genesis, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	blk, _, _, err := builder.Build(state.NewStater(db))
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, blk, name}, nil
}
