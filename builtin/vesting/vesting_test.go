// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

const (
	T0  = uint64(1_700_000_000)
	day = uint64(24 * 3600)
)

var (
	vestingAddr = vault.BytesToAddress([]byte("vesting"))
	tokenAddr   = vault.BytesToAddress([]byte("token"))

	owner = vault.BytesToAddress([]byte("owner"))
	alice = vault.BytesToAddress([]byte("alice"))
	bob   = vault.BytesToAddress([]byte("bob"))
)

type testEnv struct {
	t       *testing.T
	vesting *Vesting
	token   *token.Token
	events  []*vault.Event
}

func newTestEnv(t *testing.T, multiGrant bool) *testEnv {
	st := state.NewMem()
	env := &testEnv{t: t, token: token.New(tokenAddr, st, nil)}
	resolve := func(addr vault.Address) (TokenService, error) {
		return token.New(addr, st, nil), nil
	}
	env.vesting = New(vestingAddr, st, func(ev *vault.Event) { env.events = append(env.events, ev) }, resolve)

	require.NoError(t, env.token.Initialize("Vested", "VST", 18))
	require.NoError(t, env.token.Mint(owner, big.NewInt(1_000_000)))
	require.NoError(t, env.token.Approve(owner, vestingAddr, big.NewInt(1_000_000)))
	require.NoError(t, env.vesting.Initialize(owner, tokenAddr, multiGrant))
	return env
}

func (e *testEnv) initiate(beneficiaries []vault.Address, amounts []int64, unlock Unlock, total int64, cliff, linear, now uint64) ([]uint64, error) {
	c, err := e.vesting.Authorize(owner)
	require.NoError(e.t, err)
	bigs := make([]*big.Int, len(amounts))
	for i, a := range amounts {
		bigs[i] = big.NewInt(a)
	}
	return e.vesting.InitiateVests(c, beneficiaries, bigs, unlock, big.NewInt(total), cliff, linear, now)
}

func (e *testEnv) balance(account vault.Address) *big.Int {
	b, err := e.token.BalanceOf(account)
	require.NoError(e.t, err)
	return b
}

func (e *testEnv) claimable(account vault.Address, now uint64) *big.Int {
	c, err := e.vesting.Claimable(account, now)
	require.NoError(e.t, err)
	return c
}

func amounts(a ...int64) []*big.Int {
	out := make([]*big.Int, len(a))
	for i, v := range a {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestCliffThenLinear(t *testing.T) {
	env := newTestEnv(t, false)

	nonces, err := env.initiate([]vault.Address{alice}, []int64{1000}, Unlock{Amounts: amounts(100)}, 1000, 30*day, 270*day, T0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0}, nonces)
	assert.Equal(t, big.NewInt(100), env.balance(alice))
	assert.Equal(t, big.NewInt(900), env.balance(vestingAddr))

	assert.Equal(t, 0, env.claimable(alice, T0+30*day).Sign())
	assert.Equal(t, big.NewInt(450), env.claimable(alice, T0+30*day+135*day))
	assert.Equal(t, big.NewInt(900), env.claimable(alice, T0+300*day+1))

	_, err = env.vesting.Claim(alice, T0+29*day)
	assert.ErrorIs(t, err, reverts.ErrNothingToClaim)

	amount, err := env.vesting.Claim(alice, T0+165*day)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(450), amount)
	_, err = env.vesting.Claim(alice, T0+165*day)
	assert.ErrorIs(t, err, reverts.ErrNothingToClaim)

	amount, err = env.vesting.Claim(alice, T0+400*day)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(450), amount)

	// everything granted has been paid out exactly once
	assert.Equal(t, big.NewInt(1000), env.balance(alice))
	assert.Equal(t, 0, env.balance(vestingAddr).Sign())
	claimed, err := env.vesting.TotalClaimed()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), claimed)
	vested, err := env.vesting.TotalVested()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), vested)

	_, err = env.vesting.Claim(alice, T0+500*day)
	assert.ErrorIs(t, err, reverts.ErrNothingToClaim)
}

func TestClaimableMonotonic(t *testing.T) {
	env := newTestEnv(t, false)
	_, err := env.initiate([]vault.Address{alice}, []int64{777777}, Unlock{BasisPoints: 1500}, 777777, 10*day, 50*day, T0)
	require.NoError(t, err)

	prev := new(big.Int)
	for now := T0; now <= T0+70*day; now += 7919 {
		c := env.claimable(alice, now)
		assert.True(t, c.Cmp(prev) >= 0, "claimable decreased at %d", now)
		prev = c
	}
	// 15% was paid out on creation
	assert.Equal(t, big.NewInt(777777-116666), env.claimable(alice, T0+60*day))
}

func TestInitiateVestsValidation(t *testing.T) {
	env := newTestEnv(t, false)
	two := []vault.Address{alice, bob}

	tests := []struct {
		name          string
		beneficiaries []vault.Address
		amounts       []int64
		unlock        Unlock
		total         int64
		want          error
	}{
		{"length", two, []int64{1}, Unlock{}, 1, reverts.ErrLengthMismatch},
		{"unlock length", two, []int64{1, 2}, Unlock{Amounts: amounts(1)}, 3, reverts.ErrLengthMismatch},
		{"total", two, []int64{1, 2}, Unlock{}, 4, reverts.ErrTotalMismatch},
		{"zero beneficiary", []vault.Address{{}}, []int64{1}, Unlock{}, 1, reverts.ErrInvalidBeneficiary},
		{"zero amount", two, []int64{1, 0}, Unlock{}, 1, reverts.ErrInvalidBeneficiary},
		{"duplicate", []vault.Address{alice, alice}, []int64{1, 2}, Unlock{}, 3, reverts.ErrInvalidBeneficiary},
		{"unlock above amount", two, []int64{10, 20}, Unlock{Amounts: amounts(11, 0)}, 30, reverts.ErrInvalidInitialUnlock},
		{"unlock above 100%", two, []int64{10, 20}, Unlock{BasisPoints: 10001}, 30, reverts.ErrInvalidInitialUnlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.initiate(tt.beneficiaries, tt.amounts, tt.unlock, tt.total, 0, 100, T0)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, big.NewInt(1_000_000), env.balance(owner))

	_, err := env.initiate([]vault.Address{alice}, []int64{10}, Unlock{}, 10, 0, 100, T0)
	require.NoError(t, err)
	_, err = env.initiate([]vault.Address{alice}, []int64{10}, Unlock{}, 10, 0, 100, T0)
	assert.ErrorIs(t, err, reverts.ErrInvalidBeneficiary)

	_, err = env.vesting.InitiateVests(nil, []vault.Address{bob}, amounts(1), Unlock{}, big.NewInt(1), 0, 0, T0)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	_, err = env.vesting.Authorize(bob)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
}

func TestMultiGrant(t *testing.T) {
	env := newTestEnv(t, true)

	nonces, err := env.initiate([]vault.Address{alice, alice}, []int64{1000, 2000}, Unlock{}, 3000, 0, 100, T0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1}, nonces)
	nonces, err = env.initiate([]vault.Address{alice}, []int64{400}, Unlock{Amounts: amounts(400)}, 400, 0, 100, T0+50)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, nonces)

	count, err := env.vesting.GrantCount(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
	assert.Equal(t, big.NewInt(400), env.balance(alice))

	of, err := env.vesting.ClaimableOf(alice, 1, T0+50)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), of)
	assert.Equal(t, big.NewInt(1500), env.claimable(alice, T0+50))

	amount, err := env.vesting.ClaimNonce(alice, 1, T0+50)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), amount)
	_, err = env.vesting.ClaimNonce(alice, 2, T0+50)
	assert.ErrorIs(t, err, reverts.ErrNothingToClaim)

	amount, err = env.vesting.Claim(alice, T0+100)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2000), amount)
	assert.Equal(t, big.NewInt(3400), env.balance(alice))

	g, err := env.vesting.Grant(alice, 1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2000), g.Claimed)
}

func TestEmergencyWithdraw(t *testing.T) {
	env := newTestEnv(t, false)
	_, err := env.initiate([]vault.Address{alice}, []int64{1000}, Unlock{}, 1000, 0, 100, T0)
	require.NoError(t, err)

	c, err := env.vesting.Authorize(owner)
	require.NoError(t, err)
	require.NoError(t, env.vesting.EmergencyWithdraw(c, bob))
	assert.Equal(t, big.NewInt(1000), env.balance(bob))

	_, err = env.vesting.Claim(alice, T0+100)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t, false)
	_, err := env.initiate([]vault.Address{alice}, []int64{1000}, Unlock{Amounts: amounts(100)}, 1000, 0, 100, T0)
	require.NoError(t, err)
	_, err = env.vesting.Claim(alice, T0+100)
	require.NoError(t, err)

	require.Len(t, env.events, 2)
	assert.Equal(t, "VestingInitiated", env.events[0].Name)
	assert.Equal(t, "100", env.events[0].Detail["initial"])
	assert.Equal(t, "VestClaimed", env.events[1].Name)
	assert.Equal(t, big.NewInt(900), env.events[1].Amount)
}
