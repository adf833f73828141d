// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin/pool/cooldown"
	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/fixedpoint"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

// accumulated rate-seconds of a 100% apy over elapsed seconds
func fullRate(t *testing.T, elapsed uint64) *big.Int {
	rs, err := fixedpoint.RateSeconds(vault.RateScale(), elapsed)
	require.NoError(t, err)
	return rs
}

func TestPendingIsReadOnly(t *testing.T) {
	p := newPosition()
	require.NoError(t, p.AddPrincipal(big.NewInt(10000)))

	year := vault.SecondsPerYear()
	pending, err := p.Pending(fullRate(t, year))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10000), pending)
	assert.Equal(t, 0, p.AccruedUnclaimed.Sign())
}

func TestRebaselineIdempotent(t *testing.T) {
	p := newPosition()
	require.NoError(t, p.AddPrincipal(big.NewInt(10000)))

	acc := fullRate(t, vault.SecondsPerYear()/2)
	require.NoError(t, p.Rebaseline(acc, 100))
	assert.Equal(t, big.NewInt(5000), p.AccruedUnclaimed)

	require.NoError(t, p.Rebaseline(acc, 100))
	assert.Equal(t, big.NewInt(5000), p.AccruedUnclaimed)
	assert.Equal(t, uint64(100), p.LastAccrualTime)
}

func TestDepositDoesNotResetClock(t *testing.T) {
	year := vault.SecondsPerYear()
	p := newPosition()
	require.NoError(t, p.AddPrincipal(big.NewInt(10000)))

	// half a year, then top up with the same amount
	require.NoError(t, p.Rebaseline(fullRate(t, year/2), year/2))
	require.NoError(t, p.AddPrincipal(big.NewInt(10000)))

	pending, err := p.Pending(fullRate(t, year))
	require.NoError(t, err)
	// 5000 for the first half on 10000, 10000 for the second half on 20000
	assert.Equal(t, big.NewInt(15000), pending)
}

func TestSubPrincipal(t *testing.T) {
	p := newPosition()
	require.NoError(t, p.AddPrincipal(big.NewInt(10)))
	assert.Error(t, p.SubPrincipal(big.NewInt(11)))
	require.NoError(t, p.SubPrincipal(big.NewInt(10)))
	assert.Equal(t, 0, p.Principal.Sign())
}

func TestTakeReward(t *testing.T) {
	p := newPosition()
	p.AccruedUnclaimed = big.NewInt(7)
	assert.Equal(t, big.NewInt(7), p.TakeReward())
	assert.Equal(t, 0, p.AccruedUnclaimed.Sign())
}

func TestService(t *testing.T) {
	svc := New(solidity.NewContext(vault.Address{1}, state.NewMem(), nil))
	account := vault.Address{2}

	p, err := svc.Get(account)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, cooldown.Idle{}, p.Unstake)
	assert.Nil(t, p.Credential)

	p.Principal = big.NewInt(500)
	p.LastAccrualTime = 77
	p.Unstake = cooldown.Requested{At: 70}
	p.Credential = &Credential{TokenID: 9, TypeID: 2, Tiered: true}
	require.NoError(t, svc.Set(account, p))

	got, err := svc.Get(account)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), got.Principal)
	assert.Equal(t, uint64(77), got.LastAccrualTime)
	assert.Equal(t, cooldown.Requested{At: 70}, got.Unstake)
	assert.Equal(t, cooldown.Idle{}, got.Claim)
	assert.Equal(t, &Credential{TokenID: 9, TypeID: 2, Tiered: true}, got.Credential)
	assert.False(t, got.IsEmpty())
}
