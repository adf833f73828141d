// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
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

func newRegistry(t *testing.T) *Registry {
	r := New(vault.BytesToAddress([]byte("registry")), state.NewMem(), nil)
	require.NoError(t, r.Mint(alice, 1, 3))
	require.NoError(t, r.Mint(alice, 2, 5))
	return r
}

func TestMint(t *testing.T) {
	r := newRegistry(t)

	assert.ErrorIs(t, r.Mint(bob, 1, 3), reverts.ErrInvalidToken)
	assert.ErrorIs(t, r.Mint(vault.Address{}, 9, 3), reverts.ErrInvalidBeneficiary)

	owner, err := r.OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	bal, err := r.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), bal)

	typ, err := r.TypeOf(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), typ)

	ok, err := r.IsOfType(1, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = r.IsOfType(1, 5)
	assert.False(t, ok)
	ok, _ = r.IsOfType(42, 0)
	assert.False(t, ok)

	_, err = r.OwnerOf(42)
	assert.ErrorIs(t, err, reverts.ErrInvalidToken)

	supply, err := r.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), supply)
}

func TestTransfer(t *testing.T) {
	r := newRegistry(t)

	assert.ErrorIs(t, r.Transfer(bob, alice, 1), reverts.ErrUnauthorized)
	require.NoError(t, r.Transfer(alice, bob, 1))

	owner, _ := r.OwnerOf(1)
	assert.Equal(t, bob, owner)
	bal, _ := r.BalanceOf(alice)
	assert.Equal(t, uint64(1), bal)
	bal, _ = r.BalanceOf(bob)
	assert.Equal(t, uint64(1), bal)
}

func TestLock(t *testing.T) {
	r := newRegistry(t)

	assert.ErrorIs(t, r.Lock(pool, bob, 1), reverts.ErrNotEligible)
	require.NoError(t, r.Lock(pool, alice, 1))
	assert.ErrorIs(t, r.Lock(pool, alice, 1), reverts.ErrCredentialLocked)

	locked, err := r.IsLocked(1)
	require.NoError(t, err)
	assert.True(t, locked)

	assert.ErrorIs(t, r.Transfer(alice, bob, 1), reverts.ErrCredentialLocked)
	assert.ErrorIs(t, r.Unlock(bob, 1), reverts.ErrUnauthorized)

	require.NoError(t, r.Unlock(pool, 1))
	locked, _ = r.IsLocked(1)
	assert.False(t, locked)
	require.NoError(t, r.Transfer(alice, bob, 1))
}
