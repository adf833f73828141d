// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/vault"
)

// ConfigVariable is a uint64 parameter with a compiled-in default that can be
// overridden by writing the named slot of a contract.
type ConfigVariable struct {
	slot         vault.Bytes32
	name         string
	defaultValue uint64
}

func NewConfigVariable(name string, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{
		slot:         vault.BytesToBytes32([]byte(name)),
		name:         name,
		defaultValue: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() vault.Bytes32 {
	return c.slot
}

func (c *ConfigVariable) Default() uint64 {
	return c.defaultValue
}

// Get returns the overridden value stored in ctx, falling back to the default.
func (c *ConfigVariable) Get(ctx *Context) uint64 {
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		log.Warn("failed to read config value", "slot", c.name, "error", err)
		return c.defaultValue
	}
	num := new(big.Int).SetBytes(storage.Bytes())
	if num.Sign() == 0 || !num.IsUint64() {
		return c.defaultValue
	}
	return num.Uint64()
}

// Override writes the value for ctx. Zero restores the default.
func (c *ConfigVariable) Override(ctx *Context, value uint64) {
	ctx.state.SetStorage(ctx.address, c.slot, vault.BytesToBytes32(new(big.Int).SetUint64(value).Bytes()))
	log.Debug("override config value", "slot", c.name, "value", value)
}
