// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stakevault/stakevault/vault"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	LaunchTime uint64        `json:"launchTime" yaml:"launchTime"`
	Config     *vault.Config `json:"config" yaml:"config"`
	Tokens     []Token       `json:"tokens" yaml:"tokens"`
	Registries []Registry    `json:"registries" yaml:"registries"`
	Pools      []Pool        `json:"pools" yaml:"pools"`
	Vestings   []Vesting     `json:"vestings" yaml:"vestings"`
}

// Token is a fungible token deployed at genesis.
type Token struct {
	Address  vault.Address `json:"address" yaml:"address"`
	Name     string        `json:"name" yaml:"name"`
	Symbol   string        `json:"symbol" yaml:"symbol"`
	Decimals uint8         `json:"decimals" yaml:"decimals"`
	Balances []Balance     `json:"balances" yaml:"balances"`
}

// Balance is an initial token balance.
type Balance struct {
	Address vault.Address    `json:"address" yaml:"address"`
	Amount  *HexOrDecimal256 `json:"amount" yaml:"amount"`
}

// Registry is a credential registry deployed at genesis.
type Registry struct {
	Address     vault.Address `json:"address" yaml:"address"`
	Credentials []Credential  `json:"credentials" yaml:"credentials"`
}

// Credential is a credential minted at genesis.
type Credential struct {
	ID    uint64        `json:"id" yaml:"id"`
	Type  uint64        `json:"type" yaml:"type"`
	Owner vault.Address `json:"owner" yaml:"owner"`
}

// Pool is a staking pool deployed at genesis. A zero start time means the launch time.
type Pool struct {
	Address            vault.Address    `json:"address" yaml:"address"`
	Admin              vault.Address    `json:"admin" yaml:"admin"`
	StakeToken         vault.Address    `json:"stakeToken" yaml:"stakeToken"`
	RewardToken        vault.Address    `json:"rewardToken" yaml:"rewardToken"`
	Registry           vault.Address    `json:"registry" yaml:"registry"`
	RewardRate         *HexOrDecimal256 `json:"rewardRate" yaml:"rewardRate"`
	StartTime          uint64           `json:"startTime" yaml:"startTime"`
	Duration           uint64           `json:"duration" yaml:"duration"`
	MaxStaked          *HexOrDecimal256 `json:"maxStaked" yaml:"maxStaked"`
	MaxPerAccount      *HexOrDecimal256 `json:"maxPerAccount" yaml:"maxPerAccount"`
	CooldownSeconds    *uint64          `json:"cooldownSeconds" yaml:"cooldownSeconds"`
	ClampAccrual       bool             `json:"clampAccrual" yaml:"clampAccrual"`
	PayRewardOnUnstake bool             `json:"payRewardOnUnstake" yaml:"payRewardOnUnstake"`
	Mode               string           `json:"mode" yaml:"mode"`
	EligibleTypes      []uint64         `json:"eligibleTypes" yaml:"eligibleTypes"`
	BonusBasisPoints   uint64           `json:"bonusBasisPoints" yaml:"bonusBasisPoints"`
	TierLimits         []TierLimit      `json:"tierLimits" yaml:"tierLimits"`
	Funding            *HexOrDecimal256 `json:"funding" yaml:"funding"`
}

// TierLimit is the per-account limit of holders of a credential type.
type TierLimit struct {
	Type  uint64           `json:"type" yaml:"type"`
	Limit *HexOrDecimal256 `json:"limit" yaml:"limit"`
}

// Vesting is a vesting program deployed at genesis.
type Vesting struct {
	Address    vault.Address  `json:"address" yaml:"address"`
	Admin      vault.Address  `json:"admin" yaml:"admin"`
	Token      vault.Address  `json:"token" yaml:"token"`
	MultiGrant bool           `json:"multiGrant" yaml:"multiGrant"`
	Batches    []VestingBatch `json:"batches" yaml:"batches"`
}

// VestingBatch is a batch of grants. Its total is minted to the program admin
// before the grants are created.
type VestingBatch struct {
	Beneficiaries     []vault.Address    `json:"beneficiaries" yaml:"beneficiaries"`
	Amounts           []*HexOrDecimal256 `json:"amounts" yaml:"amounts"`
	UnlockAmounts     []*HexOrDecimal256 `json:"unlockAmounts" yaml:"unlockAmounts"`
	UnlockBasisPoints uint64             `json:"unlockBasisPoints" yaml:"unlockBasisPoints"`
	Cliff             uint64             `json:"cliff" yaml:"cliff"`
	Linear            uint64             `json:"linear" yaml:"linear"`
}

// Load reads a custom genesis file. Files ending in .json are decoded as
// JSON, anything else as YAML.
func Load(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen CustomGenesis
	if filepath.Ext(path) == ".json" {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&gen); err != nil {
			return nil, errors.Wrap(err, "decode json genesis")
		}
		return &gen, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode yaml genesis")
	}
	return &gen, nil
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 wraps x.
func NewHexOrDecimal256(x int64) *HexOrDecimal256 {
	return (*HexOrDecimal256)(big.NewInt(x))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		if err = (*big.Int)(i).UnmarshalJSON(input); err != nil {
			return err
		}
		return nil
	}
	return i.UnmarshalText([]byte(hex))
}

// UnmarshalText implements encoding.TextUnmarshaler, used by yaml scalars.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	bigint, ok := math.ParseBig256(string(input))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i HexOrDecimal256) MarshalText() ([]byte, error) {
	decimal256 := math.HexOrDecimal256(i)
	return decimal256.MarshalText()
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	text, err := i.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// Big returns the value as a big.Int, nil if i is nil.
func (i *HexOrDecimal256) Big() *big.Int {
	if i == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(i))
}
