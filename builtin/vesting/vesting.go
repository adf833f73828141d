// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vesting implements vesting programs: batches of cliff then linear
// release grants of a single token, with an optional initial unlock paid out
// when the grant is created.
package vesting

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/admin"
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/builtin/vesting/grant"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

var (
	logger = log.WithContext("pkg", "vesting")

	slotConfig       = vault.BytesToBytes32([]byte("config"))
	slotTotalVested  = vault.BytesToBytes32([]byte("total-vested"))
	slotTotalClaimed = vault.BytesToBytes32([]byte("total-claimed"))
)

// TokenService moves balances of the vested token.
type TokenService interface {
	BalanceOf(addr vault.Address) (*big.Int, error)
	Transfer(from, to vault.Address, amount *big.Int) error
	TransferFrom(spender, from, to vault.Address, amount *big.Int) error
}

// TokenResolver finds the token contract at addr.
type TokenResolver func(addr vault.Address) (TokenService, error)

// Config of a vesting program.
type Config struct {
	Token vault.Address
	// MultiGrant allows several grants per beneficiary, told apart by nonce.
	MultiGrant bool
}

// Vesting implements the vesting program contract.
type Vesting struct {
	sctx   *solidity.Context
	tokens TokenResolver

	config       *solidity.Raw[*Config]
	totalVested  *solidity.Uint256
	totalClaimed *solidity.Uint256

	adminService *admin.Service
	grantService *grant.Service
}

// New create a new instance.
func New(addr vault.Address, state *state.State, emitter solidity.EmitFunc, tokens TokenResolver) *Vesting {
	sctx := solidity.NewContext(addr, state, emitter)
	return &Vesting{
		sctx:   sctx,
		tokens: tokens,

		config:       solidity.NewRaw[*Config](sctx, slotConfig),
		totalVested:  solidity.NewUint256(sctx, slotTotalVested),
		totalClaimed: solidity.NewUint256(sctx, slotTotalClaimed),

		adminService: admin.New(sctx),
		grantService: grant.New(sctx),
	}
}

func (v *Vesting) Address() vault.Address {
	return v.sctx.Address()
}

// Initialize deploys the program with its admin and token.
func (v *Vesting) Initialize(adminAddr, token vault.Address, multiGrant bool) error {
	logger.Debug("initializing vesting", "vesting", v.Address(), "admin", adminAddr, "token", token)

	empty, err := v.config.IsEmpty()
	if err != nil {
		return err
	}
	if !empty {
		return errors.Wrap(reverts.ErrInvalidConfig, "vesting already initialized")
	}
	if token.IsZero() {
		return errors.Wrap(reverts.ErrInvalidConfig, "zero token")
	}
	if err := v.adminService.Init(adminAddr); err != nil {
		return err
	}
	if err := v.config.Set(&Config{Token: token, MultiGrant: multiGrant}); err != nil {
		return err
	}

	logger.Info("initialized vesting", "vesting", v.Address(), "multiGrant", multiGrant)
	return nil
}

// Authorize issues an admin capability for this program to caller.
func (v *Vesting) Authorize(caller vault.Address) (*admin.Capability, error) {
	return v.adminService.Authorize(caller)
}

// TransferAdmin hands the admin role over to next.
func (v *Vesting) TransferAdmin(c *admin.Capability, next vault.Address) error {
	return v.adminService.Transfer(c, next)
}

//
// Getters - no state change
//

// Config returns the program config.
func (v *Vesting) Config() (*Config, error) {
	return v.config.Get()
}

// Admin returns the program admin.
func (v *Vesting) Admin() (vault.Address, error) {
	return v.adminService.Get()
}

// Grant returns the grant of beneficiary at nonce. Single grant programs only use nonce 0.
func (v *Vesting) Grant(beneficiary vault.Address, nonce uint64) (*grant.Grant, error) {
	return v.grantService.Get(beneficiary, nonce)
}

// GrantCount returns the number of grants of beneficiary.
func (v *Vesting) GrantCount(beneficiary vault.Address) (uint64, error) {
	return v.grantService.Count(beneficiary)
}

// ClaimableOf returns the claimable amount of a single grant.
func (v *Vesting) ClaimableOf(beneficiary vault.Address, nonce uint64, now uint64) (*big.Int, error) {
	g, err := v.grantService.Get(beneficiary, nonce)
	if err != nil {
		return nil, err
	}
	return g.Claimable(now)
}

// Claimable returns the claimable amount across all grants of beneficiary.
func (v *Vesting) Claimable(beneficiary vault.Address, now uint64) (*big.Int, error) {
	total := new(big.Int)
	err := v.eachGrant(beneficiary, func(_ uint64, g *grant.Grant) error {
		claimable, err := g.Claimable(now)
		if err != nil {
			return err
		}
		total.Add(total, claimable)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}

// TotalVested returns the sum of all grant totals.
func (v *Vesting) TotalVested() (*big.Int, error) {
	return v.totalVested.Get()
}

// TotalClaimed returns the amount paid out so far, initial unlocks included.
func (v *Vesting) TotalClaimed() (*big.Int, error) {
	return v.totalClaimed.Get()
}

func (v *Vesting) eachGrant(beneficiary vault.Address, fn func(nonce uint64, g *grant.Grant) error) error {
	count, err := v.grantService.Count(beneficiary)
	if err != nil {
		return err
	}
	for nonce := range count {
		g, err := v.grantService.Get(beneficiary, nonce)
		if err != nil {
			return err
		}
		if err := fn(nonce, g); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vesting) token() (TokenService, *Config, error) {
	cfg, err := v.config.Get()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Token.IsZero() {
		return nil, nil, reverts.ErrInvalidToken
	}
	tk, err := v.tokens(cfg.Token)
	if err != nil {
		return nil, nil, err
	}
	return tk, cfg, nil
}
