// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

var (
	alice = vault.BytesToAddress([]byte("alice"))
	bob   = vault.BytesToAddress([]byte("bob"))
	pool  = vault.BytesToAddress([]byte("pool"))
)

func newToken(t *testing.T) *Token {
	tk := New(vault.BytesToAddress([]byte("token")), state.NewMem(), nil)
	require.NoError(t, tk.Initialize("Vault Token", "VLT", 18))
	return tk
}

func TestMetadata(t *testing.T) {
	tk := newToken(t)
	assert.ErrorIs(t, tk.Initialize("x", "y", 1), reverts.ErrInvalidConfig)

	name, err := tk.Name()
	require.NoError(t, err)
	assert.Equal(t, "Vault Token", name)
	symbol, _ := tk.Symbol()
	assert.Equal(t, "VLT", symbol)
	decimals, _ := tk.Decimals()
	assert.Equal(t, uint8(18), decimals)

	exists, err := New(vault.Address{9}, state.NewMem(), nil).Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTransfer(t *testing.T) {
	tk := newToken(t)
	require.NoError(t, tk.Mint(alice, big.NewInt(100)))

	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), supply)

	require.NoError(t, tk.Transfer(alice, bob, big.NewInt(30)))
	assert.ErrorIs(t, tk.Transfer(alice, bob, big.NewInt(71)), reverts.ErrInsufficientBalance)

	bal, _ := tk.BalanceOf(alice)
	assert.Equal(t, big.NewInt(70), bal)
	bal, _ = tk.BalanceOf(bob)
	assert.Equal(t, big.NewInt(30), bal)

	// self transfer keeps the balance
	require.NoError(t, tk.Transfer(bob, bob, big.NewInt(30)))
	bal, _ = tk.BalanceOf(bob)
	assert.Equal(t, big.NewInt(30), bal)
}

func TestTransferFrom(t *testing.T) {
	tk := newToken(t)
	require.NoError(t, tk.Mint(alice, big.NewInt(100)))

	assert.ErrorIs(t, tk.TransferFrom(pool, alice, pool, big.NewInt(1)), reverts.ErrInsufficientAllowance)

	require.NoError(t, tk.Approve(alice, pool, big.NewInt(50)))
	require.NoError(t, tk.TransferFrom(pool, alice, pool, big.NewInt(20)))

	allowance, err := tk.Allowance(alice, pool)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), allowance)

	bal, _ := tk.BalanceOf(pool)
	assert.Equal(t, big.NewInt(20), bal)
}
