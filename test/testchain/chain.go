// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain is a synchronous chain over the devnet genesis. Every
// submitted operation is packed into its own block before Submit returns.
package testchain

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/cmd/stakevault/solo"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/state"
)

// DefaultBlockInterval is the number of seconds between two minted blocks.
const DefaultBlockInterval = 10

// Chain represents the blockchain structure.
type Chain struct {
	lock     sync.RWMutex
	genesis  *genesis.Genesis
	repo     *chain.Repository
	stater   *state.Stater
	logDB    *logdb.LogDB
	interval uint64
}

// NewDefault creates a chain over the devnet genesis with in-memory stores.
func NewDefault() (*Chain, error) {
	return NewIntegrationTestChain(genesis.NewDevnet())
}

// NewIntegrationTestChain creates a chain over gene with in-memory stores.
func NewIntegrationTestChain(gene *genesis.Genesis) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		return nil, err
	}
	repo, stater, err := solo.InitChain(gene, db, logDB)
	if err != nil {
		return nil, err
	}
	return &Chain{
		genesis:  gene,
		repo:     repo,
		stater:   stater,
		logDB:    logDB,
		interval: DefaultBlockInterval,
	}, nil
}

func (c *Chain) Repo() *chain.Repository   { return c.repo }
func (c *Chain) Stater() *state.Stater     { return c.stater }
func (c *Chain) LogDB() *logdb.LogDB       { return c.logDB }
func (c *Chain) Genesis() *genesis.Genesis { return c.genesis }

// Close releases the stores.
func (c *Chain) Close() error {
	return errors.Wrap(c.logDB.Close(), "close log db")
}

// MintBlock packs ops in a block one interval after the best block.
func (c *Chain) MintBlock(ops ...runtime.Operation) ([]error, error) {
	return c.MintBlockAt(c.repo.BestBlock().Time+c.interval, ops...)
}

// MintBlockAt packs ops in a block with the given time, which must be after
// the best block. It returns the outcome of every op.
func (c *Chain) MintBlockAt(time uint64, ops ...runtime.Operation) ([]error, error) {
	_, outcomes, err := c.mint(time, ops)
	return outcomes, err
}

func (c *Chain) mint(time uint64, ops []runtime.Operation) (*runtime.Runtime, []error, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	parent := c.repo.BestBlock()
	if time <= parent.Time {
		return nil, nil, errors.Errorf("block time %d not after best block time %d", time, parent.Time)
	}
	rt := runtime.New(c.stater.NewState(), runtime.BlockContext{Number: parent.Number + 1, Time: time})
	outcomes := make([]error, len(ops))
	for i, op := range ops {
		outcomes[i] = rt.Atomic(op)
	}

	stage := rt.State().Stage()
	blk := &chain.Block{
		Number:     rt.BlockNumber(),
		Time:       rt.BlockTime(),
		ParentID:   parent.ID(),
		StagedHash: stage.Hash(),
		EventCount: uint32(len(rt.Events())),
	}
	if err := stage.Commit(func(w kv.Putter) error { return chain.WriteBlock(w, blk) }); err != nil {
		return nil, nil, err
	}
	if err := c.logDB.NewBatch(blk.Number, blk.Time).Insert(rt.Events()...).Commit(); err != nil {
		return nil, nil, err
	}
	if err := c.repo.SetBest(blk); err != nil {
		return nil, nil, err
	}
	return rt, outcomes, nil
}

// Advance mints an empty block seconds after the best block.
func (c *Chain) Advance(seconds uint64) error {
	if seconds == 0 {
		seconds = 1
	}
	_, err := c.MintBlockAt(c.repo.BestBlock().Time + seconds)
	return err
}

// Submit packs op alone in the next block.
func (c *Chain) Submit(_ context.Context, op runtime.Operation) (*runtime.Receipt, error) {
	rt, outcomes, err := c.mint(c.repo.BestBlock().Time+c.interval, []runtime.Operation{op})
	if err != nil {
		return nil, err
	}
	if outcomes[0] != nil {
		return nil, outcomes[0]
	}
	return &runtime.Receipt{
		BlockNumber: rt.BlockNumber(),
		BlockTime:   rt.BlockTime(),
		Events:      rt.Events(),
	}, nil
}

// Call runs op on the best state and discards its changes.
func (c *Chain) Call(op runtime.Operation) error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	best := c.repo.BestBlock()
	rt := runtime.New(c.stater.NewState(), runtime.BlockContext{Number: best.Number, Time: best.Time})
	return rt.Call(op)
}
