// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin/pool/config"
	"github.com/stakevault/stakevault/builtin/registry"
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
	poolAddr     = vault.BytesToAddress([]byte("pool"))
	stakeAddr    = vault.BytesToAddress([]byte("stake-token"))
	rewardAddr   = vault.BytesToAddress([]byte("reward-token"))
	registryAddr = vault.BytesToAddress([]byte("registry"))

	owner = vault.BytesToAddress([]byte("owner"))
	alice = vault.BytesToAddress([]byte("alice"))
	bob   = vault.BytesToAddress([]byte("bob"))

	year = vault.SecondsPerYear()
)

type testResolver struct {
	st *state.State
}

func (r testResolver) Token(addr vault.Address) (TokenService, error) {
	tk := token.New(addr, r.st, nil)
	ok, err := tk.Exists()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrInvalidToken
	}
	return tk, nil
}

func (r testResolver) Registry(addr vault.Address) (RegistryService, error) {
	return registry.New(addr, r.st, nil), nil
}

type testEnv struct {
	t        *testing.T
	st       *state.State
	pool     *Pool
	stake    *token.Token
	reward   *token.Token
	registry *registry.Registry
	events   []*vault.Event
}

func defaultConfig() *config.Config {
	return &config.Config{
		StakeToken:  stakeAddr,
		RewardToken: rewardAddr,
		Registry:    registryAddr,
		RewardRate:  vault.RateScale(),
		StartTime:   T0,
	}
}

// newTestEnv deploys a pool with cfg at T0 - 1000 and funds alice and bob.
func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	st := state.NewMem()
	env := &testEnv{
		t:        t,
		st:       st,
		stake:    token.New(stakeAddr, st, nil),
		reward:   token.New(rewardAddr, st, nil),
		registry: registry.New(registryAddr, st, nil),
	}
	env.pool = New(poolAddr, st, func(ev *vault.Event) { env.events = append(env.events, ev) }, testResolver{st})

	require.NoError(t, env.stake.Initialize("Stake", "STK", 18))
	require.NoError(t, env.reward.Initialize("Reward", "RWD", 18))
	require.NoError(t, env.pool.Initialize(owner, cfg, T0-1000))

	for _, acc := range []vault.Address{alice, bob} {
		require.NoError(t, env.stake.Mint(acc, big.NewInt(1_000_000)))
		require.NoError(t, env.stake.Approve(acc, poolAddr, big.NewInt(1_000_000)))
	}
	require.NoError(t, env.reward.Mint(poolAddr, big.NewInt(1_000_000)))
	return env
}

func (e *testEnv) deposit(account vault.Address, amount int64, now uint64) {
	require.NoError(e.t, e.pool.Deposit(account, big.NewInt(amount), nil, now))
}

func (e *testEnv) pending(account vault.Address, now uint64) *big.Int {
	p, err := e.pool.PendingRewards(account, now)
	require.NoError(e.t, err)
	return p
}

func (e *testEnv) staked(account vault.Address) *big.Int {
	p, err := e.pool.GetStakedAmount(account)
	require.NoError(e.t, err)
	return p
}

func (e *testEnv) balance(tk *token.Token, account vault.Address) *big.Int {
	b, err := tk.BalanceOf(account)
	require.NoError(e.t, err)
	return b
}

func ptr(v uint64) *uint64 { return &v }

// unstake requests and executes an unstake in the same block.
func (e *testEnv) unstake(account vault.Address, amount int64, now uint64) (*big.Int, error) {
	require.NoError(e.t, e.pool.RequestUnstake(account, now))
	return e.pool.Unstake(account, big.NewInt(amount), now)
}

// claim requests and executes a claim in the same block.
func (e *testEnv) claim(account vault.Address, now uint64) (*big.Int, error) {
	require.NoError(e.t, e.pool.RequestClaim(account, now))
	return e.pool.Claim(account, now)
}
