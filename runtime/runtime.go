// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes contract operations against a block's state. Each
// operation is atomic: on failure its state changes and events are dropped.
package runtime

import (
	"github.com/stakevault/stakevault/builtin"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

var logger = log.WithContext("pkg", "runtime")

// BlockContext is the canonical clock operations run at.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// Operation is a unit of work run by the runtime at the block time now.
type Operation func(env *builtin.Env, now uint64) error

// Receipt is the outcome of an operation included in a block.
type Receipt struct {
	BlockNumber uint32
	BlockTime   uint64
	Events      []*vault.Event
}

// Runtime is to support operation execution within a block.
type Runtime struct {
	state  *state.State
	block  BlockContext
	env    *builtin.Env
	events []*vault.Event
}

// New create a Runtime object.
func New(state *state.State, block BlockContext) *Runtime {
	rt := &Runtime{
		state: state,
		block: block,
	}
	rt.env = builtin.New(state, rt.emit)
	return rt
}

func (rt *Runtime) State() *state.State    { return rt.state }
func (rt *Runtime) BlockNumber() uint32    { return rt.block.Number }
func (rt *Runtime) BlockTime() uint64      { return rt.block.Time }
func (rt *Runtime) Events() []*vault.Event { return rt.events }
func (rt *Runtime) Block() BlockContext    { return rt.block }
func (rt *Runtime) Env() *builtin.Env      { return rt.env }
func (rt *Runtime) emit(ev *vault.Event)   { rt.events = append(rt.events, ev) }

// Atomic runs op. If op fails, every state change and event it made is reverted.
func (rt *Runtime) Atomic(op Operation) error {
	revision := rt.state.NewCheckpoint()
	mark := len(rt.events)
	if err := op(rt.env, rt.block.Time); err != nil {
		rt.state.RevertTo(revision)
		rt.events = rt.events[:mark]
		logger.Debug("operation reverted", "block", rt.block.Number, "error", err)
		return err
	}
	return nil
}

// Call runs op and always reverts it. It serves read-only queries.
func (rt *Runtime) Call(op Operation) error {
	revision := rt.state.NewCheckpoint()
	mark := len(rt.events)
	defer func() {
		rt.state.RevertTo(revision)
		rt.events = rt.events[:mark]
	}()
	return op(rt.env, rt.block.Time)
}
