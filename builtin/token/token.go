// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible token service used by pools and
// vesting programs for every balance movement.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

var (
	logger = log.WithContext("pkg", "token")

	slotMetadata    = vault.BytesToBytes32([]byte("metadata"))
	slotTotalSupply = vault.BytesToBytes32([]byte("total-supply"))
	slotBalances    = vault.BytesToBytes32([]byte("balances"))
	slotAllowances  = vault.BytesToBytes32([]byte("allowances"))
)

// Metadata describes the token.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Token implements a storage backed fungible token.
type Token struct {
	sctx        *solidity.Context
	metadata    *solidity.Raw[*Metadata]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[vault.Address, *big.Int]
	allowances  *solidity.Mapping[vault.Bytes32, *big.Int]
}

// New create a new instance.
func New(addr vault.Address, state *state.State, emitter solidity.EmitFunc) *Token {
	sctx := solidity.NewContext(addr, state, emitter)
	return &Token{
		sctx:        sctx,
		metadata:    solidity.NewRaw[*Metadata](sctx, slotMetadata),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[vault.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[vault.Bytes32, *big.Int](sctx, slotAllowances),
	}
}

func allowanceKey(owner, spender vault.Address) vault.Bytes32 {
	return vault.Blake2b(owner.Bytes(), spender.Bytes())
}

func (t *Token) Address() vault.Address {
	return t.sctx.Address()
}

// Initialize stores the token metadata. A token can only be initialized once.
func (t *Token) Initialize(name, symbol string, decimals uint8) error {
	empty, err := t.metadata.IsEmpty()
	if err != nil {
		return err
	}
	if !empty {
		return reverts.ErrInvalidConfig
	}
	return t.metadata.Set(&Metadata{Name: name, Symbol: symbol, Decimals: decimals})
}

// Exists reports whether the token has been initialized.
func (t *Token) Exists() (bool, error) {
	empty, err := t.metadata.IsEmpty()
	return !empty, err
}

func (t *Token) Metadata() (*Metadata, error) {
	return t.metadata.Get()
}

func (t *Token) Name() (string, error) {
	md, err := t.metadata.Get()
	if err != nil {
		return "", err
	}
	return md.Name, nil
}

func (t *Token) Symbol() (string, error) {
	md, err := t.metadata.Get()
	if err != nil {
		return "", err
	}
	return md.Symbol, nil
}

func (t *Token) Decimals() (uint8, error) {
	md, err := t.metadata.Get()
	if err != nil {
		return 0, err
	}
	return md.Decimals, nil
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr vault.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (t *Token) Allowance(owner, spender vault.Address) (*big.Int, error) {
	allowance, err := t.allowances.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return allowance, nil
}

// Mint credits amount to addr. Only used when building genesis.
func (t *Token) Mint(to vault.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrArithmeticOverflow
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	t.sctx.Emit("Minted", to, amount)
	return nil
}

// Approve sets the amount spender may move out of owner's balance.
func (t *Token) Approve(owner, spender vault.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrArithmeticOverflow
	}
	if err := t.allowances.Set(allowanceKey(owner, spender), amount); err != nil {
		return err
	}
	t.sctx.Emit("Approval", owner, amount, "spender", spender.String())
	return nil
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to vault.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrArithmeticOverflow
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		logger.Debug("transfer rejected", "token", t.Address(), "from", from, "balance", fromBal, "amount", amount)
		return reverts.ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	if err := t.balances.Set(to, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	t.sctx.Emit("Transfer", from, amount, "to", to.String())
	return nil
}

// TransferFrom moves amount from one account to another using the allowance
// granted by from to spender.
func (t *Token) TransferFrom(spender, from, to vault.Address, amount *big.Int) error {
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		logger.Debug("transfer from rejected", "token", t.Address(), "spender", spender, "allowance", allowance, "amount", amount)
		return reverts.ErrInsufficientAllowance
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	return t.allowances.Set(allowanceKey(from, spender), allowance.Sub(allowance, amount))
}
