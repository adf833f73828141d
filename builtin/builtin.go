// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the built-in contracts deployed in a state: tokens,
// credential registries, staking pools and vesting programs.
package builtin

import (
	"github.com/stakevault/stakevault/builtin/pool"
	"github.com/stakevault/stakevault/builtin/registry"
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/builtin/vesting"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

// Env gives access to the contracts of a state. Events emitted by any
// contract are passed to the emitter.
type Env struct {
	state   *state.State
	emitter solidity.EmitFunc
}

// New create a new instance.
func New(state *state.State, emitter solidity.EmitFunc) *Env {
	return &Env{state: state, emitter: emitter}
}

func (e *Env) State() *state.State { return e.state }

// Directory returns the directory of deployed contracts.
func (e *Env) Directory() *Directory {
	return newDirectory(e.state)
}

func (e *Env) Token(addr vault.Address) *token.Token {
	return token.New(addr, e.state, e.emitter)
}

func (e *Env) Registry(addr vault.Address) *registry.Registry {
	return registry.New(addr, e.state, e.emitter)
}

func (e *Env) Pool(addr vault.Address) *pool.Pool {
	return pool.New(addr, e.state, e.emitter, poolResolver{e})
}

func (e *Env) Vesting(addr vault.Address) *vesting.Vesting {
	return vesting.New(addr, e.state, e.emitter, e.vestingToken)
}

// existingToken returns the token at addr, failing if no token is deployed there.
func (e *Env) existingToken(addr vault.Address) (*token.Token, error) {
	kind, err := e.Directory().KindOf(addr)
	if err != nil {
		return nil, err
	}
	if kind != KindToken {
		return nil, reverts.ErrInvalidToken
	}
	return e.Token(addr), nil
}

func (e *Env) vestingToken(addr vault.Address) (vesting.TokenService, error) {
	return e.existingToken(addr)
}

type poolResolver struct {
	env *Env
}

func (r poolResolver) Token(addr vault.Address) (pool.TokenService, error) {
	return r.env.existingToken(addr)
}

func (r poolResolver) Registry(addr vault.Address) (pool.RegistryService, error) {
	kind, err := r.env.Directory().KindOf(addr)
	if err != nil {
		return nil, err
	}
	if kind != KindRegistry {
		return nil, reverts.ErrInvalidConfig
	}
	return r.env.Registry(addr), nil
}
