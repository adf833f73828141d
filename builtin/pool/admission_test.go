// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin/pool/admission"
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

func TestGatedPool(t *testing.T) {
	cfg := defaultConfig()
	cfg.Mode = uint8(admission.ModeGated)
	cfg.EligibleTypes = []uint64{3, 2}
	env := newTestEnv(t, cfg)

	require.NoError(t, env.registry.Mint(alice, 1, 2))
	require.NoError(t, env.registry.Mint(alice, 2, 9))

	c, err := env.pool.Authorize(owner)
	require.NoError(t, err)
	require.NoError(t, env.pool.SetTierLimit(c, 2, big.NewInt(500)))

	assert.ErrorIs(t, env.pool.Deposit(bob, big.NewInt(100), ptr(1), T0), reverts.ErrNotEligible)
	assert.ErrorIs(t, env.pool.Deposit(alice, big.NewInt(100), nil, T0), reverts.ErrNotEligible)
	assert.ErrorIs(t, env.pool.Deposit(alice, big.NewInt(100), ptr(2), T0), reverts.ErrNotEligible)
	assert.ErrorIs(t, env.pool.Deposit(alice, big.NewInt(501), ptr(1), T0), reverts.ErrCapExceeded)

	require.NoError(t, env.pool.Deposit(alice, big.NewInt(100), ptr(1), T0))
	locked, err := env.registry.IsLocked(1)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.ErrorIs(t, env.registry.Transfer(alice, bob, 1), reverts.ErrCredentialLocked)

	// later deposits reuse the bound credential
	assert.ErrorIs(t, env.pool.Deposit(alice, big.NewInt(401), nil, T0+1), reverts.ErrCapExceeded)
	require.NoError(t, env.pool.Deposit(alice, big.NewInt(400), nil, T0+1))

	tier, err := env.pool.TierStaked(2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), tier)

	pos, err := env.pool.Position(alice)
	require.NoError(t, err)
	require.NotNil(t, pos.Credential)
	assert.Equal(t, uint64(1), pos.Credential.TokenID)
	assert.Equal(t, uint64(2), pos.Credential.TypeID)

	_, err = env.unstake(alice, 200, T0+2)
	require.NoError(t, err)
	locked, err = env.registry.IsLocked(1)
	require.NoError(t, err)
	assert.True(t, locked)

	_, err = env.unstake(alice, 300, T0+3)
	require.NoError(t, err)
	locked, err = env.registry.IsLocked(1)
	require.NoError(t, err)
	assert.False(t, locked)

	tier, err = env.pool.TierStaked(2)
	require.NoError(t, err)
	assert.Equal(t, 0, tier.Sign())
	pos, err = env.pool.Position(alice)
	require.NoError(t, err)
	assert.Nil(t, pos.Credential)

	require.NoError(t, env.registry.Transfer(alice, bob, 1))
	require.NoError(t, env.pool.Deposit(bob, big.NewInt(10), ptr(1), T0+4))
}

func TestTierLimitAboveAccountCap(t *testing.T) {
	cfg := defaultConfig()
	cfg.Mode = uint8(admission.ModeGated)
	cfg.EligibleTypes = []uint64{2}
	cfg.MaxPerAccount = big.NewInt(100)
	env := newTestEnv(t, cfg)
	require.NoError(t, env.registry.Mint(alice, 1, 2))

	c, err := env.pool.Authorize(owner)
	require.NoError(t, err)
	require.NoError(t, env.pool.SetTierLimit(c, 2, big.NewInt(500)))

	assert.ErrorIs(t, env.pool.Deposit(alice, big.NewInt(101), ptr(1), T0), reverts.ErrCapExceeded)
	require.NoError(t, env.pool.Deposit(alice, big.NewInt(100), ptr(1), T0))
	assert.ErrorIs(t, env.pool.Deposit(alice, big.NewInt(1), nil, T0), reverts.ErrCapExceeded)

	tier, err := env.pool.TierStaked(2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), tier)
}

func TestBonusPool(t *testing.T) {
	cfg := defaultConfig()
	cfg.Mode = uint8(admission.ModeBonus)
	cfg.EligibleTypes = []uint64{9}
	cfg.BonusBasisPoints = 15000
	cfg.MaxPerAccount = big.NewInt(100)
	env := newTestEnv(t, cfg)

	require.NoError(t, env.registry.Mint(alice, 7, 9))
	require.NoError(t, env.registry.Mint(bob, 8, 4))

	assert.ErrorIs(t, env.pool.Deposit(bob, big.NewInt(101), nil, T0), reverts.ErrCapExceeded)
	// a credential of the wrong type is ignored, not rejected
	assert.ErrorIs(t, env.pool.Deposit(bob, big.NewInt(101), ptr(8), T0), reverts.ErrCapExceeded)
	require.NoError(t, env.pool.Deposit(bob, big.NewInt(100), ptr(8), T0))

	require.NoError(t, env.pool.Deposit(alice, big.NewInt(150), ptr(7), T0))
	assert.ErrorIs(t, env.pool.Deposit(alice, big.NewInt(1), nil, T0), reverts.ErrCapExceeded)

	locked, err := env.registry.IsLocked(7)
	require.NoError(t, err)
	assert.True(t, locked)
	locked, err = env.registry.IsLocked(8)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestInitializeValidatesConfig(t *testing.T) {
	st := state.NewMem()
	p := New(poolAddr, st, nil, testResolver{st})

	cfg := defaultConfig()
	cfg.Mode = uint8(admission.ModeBonus)
	cfg.BonusBasisPoints = 9999
	assert.ErrorIs(t, p.Initialize(owner, cfg, T0), reverts.ErrInvalidConfig)

	cfg = defaultConfig()
	cfg.Mode = uint8(admission.ModeGated)
	cfg.Registry = vault.Address{}
	assert.ErrorIs(t, p.Initialize(owner, cfg, T0), reverts.ErrInvalidConfig)

	require.NoError(t, p.Initialize(owner, defaultConfig(), T0))
	assert.ErrorIs(t, p.Initialize(owner, defaultConfig(), T0), reverts.ErrInvalidConfig)
}
