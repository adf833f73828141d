// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/pool/admission"
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/vault"
)

var (
	slotConfig     = vault.BytesToBytes32([]byte(("pool-config")))
	slotTierLimits = vault.BytesToBytes32([]byte(("tier-limits")))
)

// Config is the configuration of one pool.
type Config struct {
	StakeToken  vault.Address
	RewardToken vault.Address
	// Registry holds the credentials of gated and bonus pools.
	Registry vault.Address

	// RewardRate is the annual rate scaled by RATE_SCALE.
	RewardRate *big.Int
	StartTime  uint64
	// Duration of the deposit window, 0 for open-ended pools.
	Duration uint64

	MaxStaked     *big.Int
	MaxPerAccount *big.Int

	CooldownSeconds    uint64
	ClampAccrual       bool
	PayRewardOnUnstake bool

	Mode             uint8
	EligibleTypes    []uint64
	BonusBasisPoints uint64

	// TokensFrozen is set by the first deposit, token references are fixed after.
	TokensFrozen bool
}

// Window returns the deposit window.
func (c *Config) Window() admission.Window {
	return admission.Window{Start: c.StartTime, Duration: c.Duration}
}

// AccrualEnd returns the time accrual stops at, if the pool clamps accrual to its window.
func (c *Config) AccrualEnd() (uint64, bool) {
	if !c.ClampAccrual {
		return 0, false
	}
	return c.Window().End()
}

// Validate checks the static consistency of the config.
func (c *Config) Validate() error {
	if c.RewardRate == nil || c.RewardRate.Sign() < 0 {
		return errors.Wrap(reverts.ErrInvalidConfig, "reward rate")
	}
	if c.MaxStaked != nil && c.MaxStaked.Sign() < 0 {
		return errors.Wrap(reverts.ErrInvalidConfig, "max staked")
	}
	if c.MaxPerAccount != nil && c.MaxPerAccount.Sign() < 0 {
		return errors.Wrap(reverts.ErrInvalidConfig, "max per account")
	}
	switch admission.Mode(c.Mode) {
	case admission.ModeOpen:
	case admission.ModeGated:
		if c.Registry.IsZero() {
			return errors.Wrap(reverts.ErrInvalidConfig, "gated pool without registry")
		}
	case admission.ModeBonus:
		if c.Registry.IsZero() {
			return errors.Wrap(reverts.ErrInvalidConfig, "bonus pool without registry")
		}
		if c.BonusBasisPoints < vault.BasisPoints {
			return errors.Wrap(reverts.ErrInvalidConfig, "bonus below 100%")
		}
	default:
		return errors.Wrap(reverts.ErrInvalidConfig, "eligibility mode")
	}
	return nil
}

type typeKey uint64

func (k typeKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

type Service struct {
	config     *solidity.Raw[*Config]
	tierLimits *solidity.Mapping[typeKey, *big.Int]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		config:     solidity.NewRaw[*Config](sctx, slotConfig),
		tierLimits: solidity.NewMapping[typeKey, *big.Int](sctx, slotTierLimits),
	}
}

// IsInitialized reports whether a config was stored.
func (s *Service) IsInitialized() (bool, error) {
	empty, err := s.config.IsEmpty()
	return !empty, err
}

func (s *Service) Get() (*Config, error) {
	cfg, err := s.config.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool config")
	}
	if cfg.RewardRate == nil {
		cfg.RewardRate = new(big.Int)
	}
	return cfg, nil
}

func (s *Service) Set(cfg *Config) error {
	if err := s.config.Set(cfg); err != nil {
		return errors.Wrap(err, "failed to set pool config")
	}
	return nil
}

// TierLimit returns the per-account limit of typeID, zero if none.
func (s *Service) TierLimit(typeID uint64) (*big.Int, error) {
	return s.tierLimits.Get(typeKey(typeID))
}

func (s *Service) SetTierLimit(typeID uint64, limit *big.Int) error {
	return s.tierLimits.Set(typeKey(typeID), limit)
}
