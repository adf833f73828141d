// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool implements the staking pool contract: time windowed deposits
// accruing a fixed-point annual reward, withdrawn through a request then
// execute cooldown.
package pool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/admin"
	"github.com/stakevault/stakevault/builtin/pool/admission"
	"github.com/stakevault/stakevault/builtin/pool/config"
	"github.com/stakevault/stakevault/builtin/pool/globalstats"
	"github.com/stakevault/stakevault/builtin/pool/position"
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

var logger = log.WithContext("pkg", "pool")

// TokenService moves fungible balances on behalf of the pool.
type TokenService interface {
	BalanceOf(addr vault.Address) (*big.Int, error)
	Transfer(from, to vault.Address, amount *big.Int) error
	TransferFrom(spender, from, to vault.Address, amount *big.Int) error
}

// RegistryService checks and locks credentials.
type RegistryService interface {
	admission.Registry
	Lock(locker, holder vault.Address, id uint64) error
	Unlock(locker vault.Address, id uint64) error
}

// Resolver finds the token and registry contracts referenced by a pool config.
type Resolver interface {
	Token(addr vault.Address) (TokenService, error)
	Registry(addr vault.Address) (RegistryService, error)
}

// Pool implements the staking pool contract.
type Pool struct {
	sctx     *solidity.Context
	resolver Resolver

	adminService       *admin.Service
	configService      *config.Service
	positionService    *position.Service
	globalStatsService *globalstats.Service
}

// New create a new instance.
func New(addr vault.Address, state *state.State, emitter solidity.EmitFunc, resolver Resolver) *Pool {
	sctx := solidity.NewContext(addr, state, emitter)
	return &Pool{
		sctx:     sctx,
		resolver: resolver,

		adminService:       admin.New(sctx),
		configService:      config.New(sctx),
		positionService:    position.New(sctx),
		globalStatsService: globalstats.New(sctx),
	}
}

func (p *Pool) Address() vault.Address {
	return p.sctx.Address()
}

// Initialize deploys the pool with its admin and config.
func (p *Pool) Initialize(adminAddr vault.Address, cfg *config.Config, now uint64) error {
	logger.Debug("initializing pool", "pool", p.Address(), "admin", adminAddr)

	initialized, err := p.configService.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return errors.Wrap(reverts.ErrInvalidConfig, "pool already initialized")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.TokensFrozen = false
	if err := p.adminService.Init(adminAddr); err != nil {
		return err
	}
	if err := p.configService.Set(cfg); err != nil {
		return err
	}
	if err := p.globalStatsService.InitAccumulator(now); err != nil {
		return err
	}

	logger.Info("initialized pool", "pool", p.Address(), "start", cfg.StartTime, "duration", cfg.Duration)
	return nil
}

//
// Getters - no state change
//

// Config returns the pool config.
func (p *Pool) Config() (*config.Config, error) {
	return p.configService.Get()
}

// TierLimit returns the per-account limit of a credential type, zero if none.
func (p *Pool) TierLimit(typeID uint64) (*big.Int, error) {
	return p.configService.TierLimit(typeID)
}

// Admin returns the pool admin.
func (p *Pool) Admin() (vault.Address, error) {
	return p.adminService.Get()
}

// Position returns the position of account.
func (p *Pool) Position(account vault.Address) (*position.Position, error) {
	return p.positionService.Get(account)
}

// GetStakedAmount returns the principal of account.
func (p *Pool) GetStakedAmount(account vault.Address) (*big.Int, error) {
	pos, err := p.positionService.Get(account)
	if err != nil {
		return nil, err
	}
	return pos.Principal, nil
}

// PendingRewards returns the reward account could claim at now, without re-baselining.
func (p *Pool) PendingRewards(account vault.Address, now uint64) (*big.Int, error) {
	cfg, err := p.configService.Get()
	if err != nil {
		return nil, err
	}
	pos, err := p.positionService.Get(account)
	if err != nil {
		return nil, err
	}
	acc, err := p.accumulated(cfg, now)
	if err != nil {
		return nil, err
	}
	return pos.Pending(acc)
}

// TotalStaked returns the sum of all principals.
func (p *Pool) TotalStaked() (*big.Int, error) {
	return p.globalStatsService.TotalStaked()
}

// TierStaked returns the principal staked with credentials of typeID.
func (p *Pool) TierStaked(typeID uint64) (*big.Int, error) {
	return p.globalStatsService.TierStaked(typeID)
}

// Stakers returns the number of accounts with principal.
func (p *Pool) Stakers() (uint64, error) {
	return p.globalStatsService.Stakers()
}

// accumulated returns the pool's accumulated rate-seconds at now.
func (p *Pool) accumulated(cfg *config.Config, now uint64) (*big.Int, error) {
	acc, err := p.globalStatsService.Accumulator()
	if err != nil {
		return nil, err
	}
	end, clamped := cfg.AccrualEnd()
	return acc.At(now, cfg.RewardRate, end, clamped)
}

func (p *Pool) checkpoint(cfg *config.Config, now uint64) error {
	end, clamped := cfg.AccrualEnd()
	_, err := p.globalStatsService.Checkpoint(now, cfg.RewardRate, end, clamped)
	return err
}

func (p *Pool) eligibility(cfg *config.Config) (admission.EligibilityProvider, error) {
	switch admission.Mode(cfg.Mode) {
	case admission.ModeGated:
		reg, err := p.resolver.Registry(cfg.Registry)
		if err != nil {
			return nil, err
		}
		return admission.Gated{Registry: reg, Types: cfg.EligibleTypes}, nil
	case admission.ModeBonus:
		reg, err := p.resolver.Registry(cfg.Registry)
		if err != nil {
			return nil, err
		}
		return admission.Bonus{Registry: reg, Types: cfg.EligibleTypes, BasisPoints: cfg.BonusBasisPoints}, nil
	default:
		return admission.Open{}, nil
	}
}

// payReward sends amount of the reward token to account. When the reward and
// stake tokens coincide, staked principal is never used to pay rewards.
func (p *Pool) payReward(cfg *config.Config, to vault.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	rewardToken, err := p.resolver.Token(cfg.RewardToken)
	if err != nil {
		return err
	}
	if cfg.RewardToken == cfg.StakeToken {
		balance, err := rewardToken.BalanceOf(p.Address())
		if err != nil {
			return err
		}
		total, err := p.globalStatsService.TotalStaked()
		if err != nil {
			return err
		}
		if new(big.Int).Sub(balance, total).Cmp(amount) < 0 {
			return reverts.ErrInsufficientBalance
		}
	}
	return rewardToken.Transfer(p.Address(), to, amount)
}
