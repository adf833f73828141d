// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/stakevault/stakevault/builtin/pool/admission"
	"github.com/stakevault/stakevault/vault"
)

// DevAccount account for development.
type DevAccount struct {
	Address    vault.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// Contracts deployed by the devnet genesis.
var (
	DevStakeToken  = vault.CreateContractAddress("token", "stake")
	DevRewardToken = vault.CreateContractAddress("token", "reward")
	DevRegistry    = vault.CreateContractAddress("registry", "members")
	DevOpenPool    = vault.CreateContractAddress("pool", "open")
	DevGatedPool   = vault.CreateContractAddress("pool", "gated")
	DevBonusPool   = vault.CreateContractAddress("pool", "bonus")
	DevVesting     = vault.CreateContractAddress("vesting", "team")
)

const (
	devLaunchTime = uint64(1735689600) // 2025-01-01T00:00:00Z
	devDay        = uint64(24 * 3600)
)

// DevAccounts returns pre-alloced accounts for the dev network.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{vault.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

func ether(n int64) *HexOrDecimal256 {
	x := new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
	return (*HexOrDecimal256)(x)
}

// DevGenesis returns the genesis of the dev network. Every dev account holds
// stake tokens, the first half hold a type 1 credential and the rest a type 2.
func DevGenesis() *CustomGenesis {
	accs := DevAccounts()
	executor := accs[0].Address

	stake := Token{Address: DevStakeToken, Name: "Stake", Symbol: "STK", Decimals: 18}
	registry := Registry{Address: DevRegistry}
	for i, a := range accs {
		stake.Balances = append(stake.Balances, Balance{a.Address, ether(1_000_000_000)})
		typeID := uint64(1)
		if i >= len(accs)/2 {
			typeID = 2
		}
		registry.Credentials = append(registry.Credentials, Credential{ID: uint64(i + 1), Type: typeID, Owner: a.Address})
	}

	tenPercent := (*HexOrDecimal256)(new(big.Int).Div(vault.RateScale(), big.NewInt(10)))
	twentyPercent := (*HexOrDecimal256)(new(big.Int).Div(vault.RateScale(), big.NewInt(5)))
	oneDay := devDay

	return &CustomGenesis{
		LaunchTime: devLaunchTime,
		Tokens: []Token{
			stake,
			{Address: DevRewardToken, Name: "Reward", Symbol: "RWD", Decimals: 18},
		},
		Registries: []Registry{registry},
		Pools: []Pool{
			{
				Address:     DevOpenPool,
				Admin:       executor,
				StakeToken:  DevStakeToken,
				RewardToken: DevRewardToken,
				RewardRate:  tenPercent,
				Funding:     ether(1_000_000_000),
			},
			{
				Address:            DevGatedPool,
				Admin:              executor,
				StakeToken:         DevStakeToken,
				RewardToken:        DevRewardToken,
				Registry:           DevRegistry,
				RewardRate:         twentyPercent,
				Duration:           365 * devDay,
				ClampAccrual:       true,
				CooldownSeconds:    &oneDay,
				PayRewardOnUnstake: true,
				Mode:               admission.ModeGated.String(),
				EligibleTypes:      []uint64{1},
				TierLimits:         []TierLimit{{Type: 1, Limit: ether(1_000_000)}},
				Funding:            ether(1_000_000_000),
			},
			{
				Address:          DevBonusPool,
				Admin:            executor,
				StakeToken:       DevStakeToken,
				RewardToken:      DevRewardToken,
				Registry:         DevRegistry,
				RewardRate:       tenPercent,
				MaxPerAccount:    ether(100_000),
				Mode:             admission.ModeBonus.String(),
				EligibleTypes:    []uint64{2},
				BonusBasisPoints: 15_000,
				Funding:          ether(1_000_000_000),
			},
		},
		Vestings: []Vesting{
			{
				Address:    DevVesting,
				Admin:      executor,
				Token:      DevStakeToken,
				MultiGrant: true,
				Batches: []VestingBatch{
					{
						Beneficiaries:     []vault.Address{accs[1].Address, accs[2].Address, accs[3].Address},
						Amounts:           []*HexOrDecimal256{ether(1_000_000), ether(1_000_000), ether(1_000_000)},
						UnlockBasisPoints: 1_000,
						Cliff:             30 * devDay,
						Linear:            365 * devDay,
					},
				},
			},
		},
	}
}

// NewDevnet create genesis for the dev network.
func NewDevnet() *Genesis {
	gen, err := NewCustomNet(DevGenesis())
	if err != nil {
		panic(err)
	}
	gen.name = "devnet"
	return gen
}
