// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

// EmitFunc receives events emitted by a contract.
type EmitFunc func(ev *vault.Event)

// Context binds a built-in contract address to the state it operates on.
type Context struct {
	address vault.Address
	state   *state.State
	emitter EmitFunc
}

func NewContext(address vault.Address, state *state.State, emitter EmitFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		emitter: emitter,
	}
}

func (c *Context) Address() vault.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Emit records an event of the bound contract. detail is a list of key/value pairs.
func (c *Context) Emit(name string, account vault.Address, amount *big.Int, detail ...string) {
	if c.emitter == nil {
		return
	}
	ev := &vault.Event{
		Address: c.address,
		Name:    name,
		Account: account,
	}
	if amount != nil {
		ev.Amount = new(big.Int).Set(amount)
	}
	if len(detail) > 0 {
		ev.Detail = make(map[string]string, len(detail)/2)
		for i := 0; i+1 < len(detail); i += 2 {
			ev.Detail[detail[i]] = detail[i+1]
		}
	}
	c.emitter(ev)
}
