// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/admin"
	"github.com/stakevault/stakevault/builtin/pool/config"
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/vault"
)

// Authorize issues an admin capability for this pool to caller.
func (p *Pool) Authorize(caller vault.Address) (*admin.Capability, error) {
	return p.adminService.Authorize(caller)
}

// TransferAdmin hands the admin role over to next.
func (p *Pool) TransferAdmin(c *admin.Capability, next vault.Address) error {
	return p.adminService.Transfer(c, next)
}

// updateConfig applies mutate to the config. When reprices is set, the reward
// accumulator is checkpointed first, so the change only applies from now on.
func (p *Pool) updateConfig(c *admin.Capability, now uint64, name, value string, reprices bool, mutate func(cfg *config.Config) error) (err error) {
	logger.Debug("updating config", "pool", p.Address(), "name", name, "value", value)
	defer func() { p.record("set_"+name, err) }()

	if err := p.adminService.Check(c); err != nil {
		logger.Info("update config failed", "pool", p.Address(), "name", name, "error", err)
		return err
	}
	cfg, err := p.configService.Get()
	if err != nil {
		return err
	}
	if reprices {
		if err := p.checkpoint(cfg, now); err != nil {
			return err
		}
	}
	if err := mutate(cfg); err != nil {
		logger.Info("update config failed", "pool", p.Address(), "name", name, "error", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := p.configService.Set(cfg); err != nil {
		return err
	}
	p.sctx.Emit("ConfigChanged", c.Holder(), nil, "name", name, "value", value)

	logger.Info("updated config", "pool", p.Address(), "name", name, "value", value)
	return nil
}

func nonNegative(x *big.Int) error {
	if x == nil || x.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	return nil
}

// SetRewardRate changes the annual reward rate from now on.
func (p *Pool) SetRewardRate(c *admin.Capability, rate *big.Int, now uint64) error {
	if err := nonNegative(rate); err != nil {
		return err
	}
	return p.updateConfig(c, now, "reward_rate", rate.String(), true, func(cfg *config.Config) error {
		cfg.RewardRate = new(big.Int).Set(rate)
		return nil
	})
}

// SetPoolDuration changes the length of the deposit window.
func (p *Pool) SetPoolDuration(c *admin.Capability, duration uint64, now uint64) error {
	return p.updateConfig(c, now, "duration", strconv.FormatUint(duration, 10), true, func(cfg *config.Config) error {
		cfg.Duration = duration
		return nil
	})
}

// SetStartTime moves the start of the deposit window.
func (p *Pool) SetStartTime(c *admin.Capability, start uint64, now uint64) error {
	return p.updateConfig(c, now, "start_time", strconv.FormatUint(start, 10), true, func(cfg *config.Config) error {
		cfg.StartTime = start
		return nil
	})
}

// SetClampAccrual toggles stopping accrual at the end of the window.
func (p *Pool) SetClampAccrual(c *admin.Capability, clamp bool, now uint64) error {
	return p.updateConfig(c, now, "clamp_accrual", strconv.FormatBool(clamp), true, func(cfg *config.Config) error {
		cfg.ClampAccrual = clamp
		return nil
	})
}

// SetMaxStakedAmount changes the global cap. It is enforced on later deposits only.
func (p *Pool) SetMaxStakedAmount(c *admin.Capability, limit *big.Int, now uint64) error {
	if err := nonNegative(limit); err != nil {
		return err
	}
	return p.updateConfig(c, now, "max_staked", limit.String(), false, func(cfg *config.Config) error {
		cfg.MaxStaked = new(big.Int).Set(limit)
		return nil
	})
}

// SetMaxPerAccount changes the per-account cap, zero for unlimited.
func (p *Pool) SetMaxPerAccount(c *admin.Capability, limit *big.Int, now uint64) error {
	if err := nonNegative(limit); err != nil {
		return err
	}
	return p.updateConfig(c, now, "max_per_account", limit.String(), false, func(cfg *config.Config) error {
		cfg.MaxPerAccount = new(big.Int).Set(limit)
		return nil
	})
}

// SetCooldownSeconds changes the delay between request and execute.
func (p *Pool) SetCooldownSeconds(c *admin.Capability, seconds uint64, now uint64) error {
	return p.updateConfig(c, now, "cooldown_seconds", strconv.FormatUint(seconds, 10), false, func(cfg *config.Config) error {
		cfg.CooldownSeconds = seconds
		return nil
	})
}

// SetPayRewardOnUnstake toggles paying the accrued reward together with unstaked principal.
func (p *Pool) SetPayRewardOnUnstake(c *admin.Capability, pay bool, now uint64) error {
	return p.updateConfig(c, now, "pay_reward_on_unstake", strconv.FormatBool(pay), false, func(cfg *config.Config) error {
		cfg.PayRewardOnUnstake = pay
		return nil
	})
}

// SetTierLimit sets the per-account limit of holders of typeID, zero to remove it.
func (p *Pool) SetTierLimit(c *admin.Capability, typeID uint64, limit *big.Int) (err error) {
	logger.Debug("setting tier limit", "pool", p.Address(), "type", typeID, "limit", limit)
	defer func() { p.record("set_tier_limit", err) }()

	if err := p.adminService.Check(c); err != nil {
		return err
	}
	if err := nonNegative(limit); err != nil {
		return err
	}
	if err := p.configService.SetTierLimit(typeID, limit); err != nil {
		return err
	}
	p.sctx.Emit("ConfigChanged", c.Holder(), nil, "name", "tier_limit", "type", strconv.FormatUint(typeID, 10), "value", limit.String())
	return nil
}

func setTokenOnce(field *vault.Address, token vault.Address, frozen bool) error {
	if token.IsZero() {
		return errors.Wrap(reverts.ErrInvalidConfig, "zero token")
	}
	if frozen || !field.IsZero() {
		return errors.Wrap(reverts.ErrInvalidConfig, "token already set")
	}
	*field = token
	return nil
}

// SetStakeToken sets the stake token. It can be set once, before the first deposit.
func (p *Pool) SetStakeToken(c *admin.Capability, token vault.Address, now uint64) error {
	return p.updateConfig(c, now, "stake_token", token.String(), false, func(cfg *config.Config) error {
		return setTokenOnce(&cfg.StakeToken, token, cfg.TokensFrozen)
	})
}

// SetRewardToken sets the reward token. It can be set once, before the first deposit.
func (p *Pool) SetRewardToken(c *admin.Capability, token vault.Address, now uint64) error {
	return p.updateConfig(c, now, "reward_token", token.String(), false, func(cfg *config.Config) error {
		return setTokenOnce(&cfg.RewardToken, token, cfg.TokensFrozen)
	})
}

// EmergencyWithdraw sweeps the pool's full stake and reward token balances to
// to. It bypasses accounting: positions are left as they are and may no longer
// be backed by funds.
func (p *Pool) EmergencyWithdraw(c *admin.Capability, to vault.Address) (err error) {
	logger.Debug("emergency withdraw", "pool", p.Address(), "to", to)
	defer func() { p.record("emergency_withdraw", err) }()

	if err := p.adminService.Check(c); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.ErrInvalidBeneficiary
	}
	cfg, err := p.configService.Get()
	if err != nil {
		return err
	}
	tokens := []vault.Address{cfg.StakeToken}
	if cfg.RewardToken != cfg.StakeToken {
		tokens = append(tokens, cfg.RewardToken)
	}
	for _, addr := range tokens {
		if addr.IsZero() {
			continue
		}
		tk, err := p.resolver.Token(addr)
		if err != nil {
			return err
		}
		balance, err := tk.BalanceOf(p.Address())
		if err != nil {
			return err
		}
		if balance.Sign() == 0 {
			continue
		}
		if err := tk.Transfer(p.Address(), to, balance); err != nil {
			return err
		}
		p.sctx.Emit("EmergencyWithdrawn", to, balance, "token", addr.String())
	}

	logger.Warn("emergency withdraw executed", "pool", p.Address(), "to", to)
	return nil
}
