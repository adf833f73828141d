// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin"
	"github.com/stakevault/stakevault/builtin/pool/admission"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func buildCommitted(t *testing.T, gen *genesis.Genesis) (*builtin.Env, []*vault.Event) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater := state.NewStater(db)
	blk, stage, events, err := gen.Build(stater)
	require.NoError(t, err)
	assert.Equal(t, gen.ID(), blk.ID())
	assert.Equal(t, uint32(len(events)), blk.EventCount)
	require.NoError(t, stage.Commit())

	return builtin.New(stater.NewState(), nil), events
}

func TestDevGenesis(t *testing.T) {
	gen := genesis.NewDevnet()
	assert.Equal(t, "devnet", gen.Name())
	assert.Equal(t, gen.ID(), genesis.NewDevnet().ID())

	env, events := buildCommitted(t, gen)
	assert.NotEmpty(t, events)

	pools, err := env.Directory().List(builtin.KindPool)
	require.NoError(t, err)
	assert.Equal(t, []vault.Address{genesis.DevOpenPool, genesis.DevGatedPool, genesis.DevBonusPool}, pools)

	kind, err := env.Directory().KindOf(genesis.DevVesting)
	require.NoError(t, err)
	assert.Equal(t, builtin.KindVesting, kind)

	accs := genesis.DevAccounts()
	bal, err := env.Token(genesis.DevStakeToken).BalanceOf(accs[4].Address)
	require.NoError(t, err)
	assert.Equal(t, ether(1_000_000_000), bal)

	// beneficiaries got their initial unlock at genesis
	bal, err = env.Token(genesis.DevStakeToken).BalanceOf(accs[1].Address)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Add(ether(1_000_000_000), ether(100_000)), bal)

	count, err := env.Vesting(genesis.DevVesting).GrantCount(accs[2].Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	cfg, err := env.Pool(genesis.DevGatedPool).Config()
	require.NoError(t, err)
	assert.Equal(t, uint8(admission.ModeGated), cfg.Mode)
	assert.Equal(t, uint64(24*3600), cfg.CooldownSeconds)

	limit, err := env.Pool(genesis.DevGatedPool).TierLimit(1)
	require.NoError(t, err)
	assert.Equal(t, ether(1_000_000), limit)

	funded, err := env.Token(genesis.DevRewardToken).BalanceOf(genesis.DevOpenPool)
	require.NoError(t, err)
	assert.Equal(t, ether(1_000_000_000), funded)

	owner, err := env.Registry(genesis.DevRegistry).OwnerOf(1)
	require.NoError(t, err)
	assert.Equal(t, accs[0].Address, owner)
}

const yamlGenesis = `
launchTime: 1700000000
tokens:
  - address: "0x0000000000000000000000000000000000001000"
    name: Stake
    symbol: STK
    decimals: 18
    balances:
      - address: "0x00000000000000000000000000000000000000a1"
        amount: "0x3e8"
pools:
  - address: "0x0000000000000000000000000000000000002000"
    admin: "0x00000000000000000000000000000000000000a1"
    stakeToken: "0x0000000000000000000000000000000000001000"
    rewardToken: "0x0000000000000000000000000000000000001000"
    rewardRate: "1000000000000000000"
    cooldownSeconds: 0
    funding: 500
`

func TestLoadCustomGenesis(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlGenesis), 0o600))

	custom, err := genesis.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_700_000_000), custom.LaunchTime)
	require.Len(t, custom.Pools, 1)
	require.NotNil(t, custom.Pools[0].CooldownSeconds)
	assert.Equal(t, uint64(0), *custom.Pools[0].CooldownSeconds)
	assert.Equal(t, big.NewInt(1000), custom.Tokens[0].Balances[0].Amount.Big())

	gen, err := genesis.NewCustomNet(custom)
	require.NoError(t, err)
	assert.Equal(t, "customnet", gen.Name())

	env, _ := buildCommitted(t, gen)
	pool := vault.MustParseAddress("0x0000000000000000000000000000000000002000")
	cfg, err := env.Pool(pool).Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(1_700_000_000), cfg.StartTime)
	assert.Equal(t, uint64(0), cfg.CooldownSeconds)

	bal, err := env.Token(cfg.StakeToken).BalanceOf(pool)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), bal)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"launchTime": 1, "gasLimit": 10}`), 0o600))
	_, err := genesis.Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "genesis.yml")
	require.NoError(t, os.WriteFile(path, []byte("launchTime: 1\nextra: true\n"), 0o600))
	_, err = genesis.Load(path)
	assert.Error(t, err)
}

func TestCustomNetErrors(t *testing.T) {
	_, err := genesis.NewCustomNet(&genesis.CustomGenesis{})
	assert.Error(t, err)

	// unknown admission mode
	_, err = genesis.NewCustomNet(&genesis.CustomGenesis{
		LaunchTime: 1,
		Pools: []genesis.Pool{{
			Address:    vault.BytesToAddress([]byte("pool")),
			Admin:      vault.BytesToAddress([]byte("admin")),
			RewardRate: genesis.NewHexOrDecimal256(1),
			Mode:       "weighted",
		}},
	})
	assert.Error(t, err)

	// same address registered twice
	tk := genesis.Token{Address: vault.BytesToAddress([]byte("token")), Name: "T", Symbol: "T"}
	_, err = genesis.NewCustomNet(&genesis.CustomGenesis{LaunchTime: 1, Tokens: []genesis.Token{tk, tk}})
	assert.Error(t, err)
}

func TestHexOrDecimal256(t *testing.T) {
	var v genesis.HexOrDecimal256
	require.NoError(t, v.UnmarshalJSON([]byte(`"0x10"`)))
	assert.Equal(t, big.NewInt(16), v.Big())

	require.NoError(t, v.UnmarshalJSON([]byte(`42`)))
	assert.Equal(t, big.NewInt(42), v.Big())

	assert.Error(t, v.UnmarshalText([]byte("ten")))

	out, err := genesis.NewHexOrDecimal256(255).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"0xff"`, string(out))
}
