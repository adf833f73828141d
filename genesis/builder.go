// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp  uint64
	stateProcs []runtime.Operation
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc runtime.Operation) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs the state processes on an empty state. It returns the genesis
// block with its uncommitted state changes and the events they emitted.
func (b *Builder) Build(stater *state.Stater) (*chain.Block, *state.Stage, []*vault.Event, error) {
	rt := runtime.New(stater.NewState(), runtime.BlockContext{Number: 0, Time: b.timestamp})
	for i, proc := range b.stateProcs {
		if err := rt.Atomic(proc); err != nil {
			return nil, nil, nil, errors.Wrapf(err, "state process %d", i)
		}
	}
	stage := rt.State().Stage()
	blk := &chain.Block{
		Number:     0,
		Time:       b.timestamp,
		StagedHash: stage.Hash(),
		EventCount: uint32(len(rt.Events())),
	}
	return blk, stage, rt.Events(), nil
}
