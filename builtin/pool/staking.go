// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"strconv"

	"github.com/stakevault/stakevault/builtin/pool/admission"
	"github.com/stakevault/stakevault/builtin/pool/cooldown"
	"github.com/stakevault/stakevault/builtin/pool/position"
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/vault"
)

//
// Setters - state change
//

// Deposit stakes amount of the stake token from caller, presenting an optional
// credential. Reward accrued so far is folded in before the principal grows.
func (p *Pool) Deposit(caller vault.Address, amount *big.Int, credential *uint64, now uint64) (err error) {
	logger.Debug("depositing", "pool", p.Address(), "caller", caller, "amount", amount)
	defer func() { p.record("deposit", err) }()

	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount
	}
	cfg, err := p.configService.Get()
	if err != nil {
		return err
	}
	if err := cfg.Window().CheckWindow(now); err != nil {
		logger.Info("deposit failed", "pool", p.Address(), "caller", caller, "error", err)
		return err
	}
	stakeToken, err := p.resolver.Token(cfg.StakeToken)
	if err != nil {
		return err
	}
	pos, err := p.positionService.Get(caller)
	if err != nil {
		return err
	}

	// a credential stays bound to the position until it exits
	grant := &admission.Grant{}
	if pos.Credential != nil {
		id := pos.Credential.TokenID
		grant = &admission.Grant{
			Credential:     &id,
			TypeID:         pos.Credential.TypeID,
			Tiered:         pos.Credential.Tiered,
			CapBasisPoints: pos.Credential.CapBasisPoints,
		}
	} else {
		provider, err := p.eligibility(cfg)
		if err != nil {
			return err
		}
		if grant, err = provider.Evaluate(caller, credential); err != nil {
			logger.Info("deposit failed", "pool", p.Address(), "caller", caller, "error", err)
			return err
		}
	}

	req := &admission.Request{
		Amount:          amount,
		PrincipalBefore: pos.Principal,
		CapBasisPoints:  grant.CapBasisPoints,
	}
	if req.TotalBefore, err = p.globalStatsService.TotalStaked(); err != nil {
		return err
	}
	if grant.Tiered {
		if req.TierLimit, err = p.configService.TierLimit(grant.TypeID); err != nil {
			return err
		}
	}
	caps := admission.Caps{MaxStaked: cfg.MaxStaked, MaxPerAccount: cfg.MaxPerAccount}
	if err := caps.CheckCaps(req); err != nil {
		logger.Info("deposit failed", "pool", p.Address(), "caller", caller, "error", err)
		return err
	}

	acc, err := p.accumulated(cfg, now)
	if err != nil {
		return err
	}
	if err := pos.Rebaseline(acc, now); err != nil {
		return err
	}
	newStaker := pos.Principal.Sign() == 0
	if err := pos.AddPrincipal(amount); err != nil {
		return err
	}

	if grant.Credential != nil && pos.Credential == nil {
		reg, err := p.resolver.Registry(cfg.Registry)
		if err != nil {
			return err
		}
		if err := reg.Lock(p.Address(), caller, *grant.Credential); err != nil {
			return err
		}
		pos.Credential = &position.Credential{
			TokenID:        *grant.Credential,
			TypeID:         grant.TypeID,
			Tiered:         grant.Tiered,
			CapBasisPoints: grant.CapBasisPoints,
		}
	}

	if err := p.globalStatsService.AddStake(amount, grant.TypeID, grant.Tiered, newStaker); err != nil {
		return err
	}
	if !cfg.TokensFrozen {
		cfg.TokensFrozen = true
		if err := p.configService.Set(cfg); err != nil {
			return err
		}
	}

	if err := stakeToken.TransferFrom(p.Address(), caller, p.Address(), amount); err != nil {
		logger.Info("deposit failed", "pool", p.Address(), "caller", caller, "error", err)
		return err
	}
	if err := p.positionService.Set(caller, pos); err != nil {
		return err
	}

	detail := []string{"principal", pos.Principal.String()}
	if pos.Credential != nil {
		detail = append(detail, "tokenId", strconv.FormatUint(pos.Credential.TokenID, 10))
	}
	p.sctx.Emit("Deposited", caller, amount, detail...)
	p.updateGauges()

	logger.Info("deposited", "pool", p.Address(), "caller", caller, "principal", pos.Principal)
	return nil
}

// RequestUnstake starts the unstake cooldown of caller.
func (p *Pool) RequestUnstake(caller vault.Address, now uint64) (err error) {
	logger.Debug("requesting unstake", "pool", p.Address(), "caller", caller)
	defer func() { p.record("request_unstake", err) }()

	pos, err := p.positionService.Get(caller)
	if err != nil {
		return err
	}
	if pos.Principal.Sign() == 0 {
		return reverts.ErrInsufficientPrincipal
	}
	if pos.Unstake, err = cooldown.Request(pos.Unstake, now); err != nil {
		logger.Info("request unstake failed", "pool", p.Address(), "caller", caller, "error", err)
		return err
	}
	if err := p.positionService.Set(caller, pos); err != nil {
		return err
	}
	p.sctx.Emit("UnstakeRequested", caller, nil, "requestedAt", strconv.FormatUint(now, 10))

	logger.Info("requested unstake", "pool", p.Address(), "caller", caller)
	return nil
}

// Unstake withdraws amount of principal once the unstake cooldown has
// elapsed. Pools paying reward on unstake also pay out the accrued reward. It
// returns the reward paid.
func (p *Pool) Unstake(caller vault.Address, amount *big.Int, now uint64) (reward *big.Int, err error) {
	logger.Debug("unstaking", "pool", p.Address(), "caller", caller, "amount", amount)
	defer func() { p.record("unstake", err) }()

	if amount == nil || amount.Sign() <= 0 {
		return nil, reverts.ErrInvalidAmount
	}
	cfg, err := p.configService.Get()
	if err != nil {
		return nil, err
	}
	stakeToken, err := p.resolver.Token(cfg.StakeToken)
	if err != nil {
		return nil, err
	}
	pos, err := p.positionService.Get(caller)
	if err != nil {
		return nil, err
	}
	next, err := cooldown.Execute(pos.Unstake, now, cfg.CooldownSeconds)
	if err != nil {
		logger.Info("unstake failed", "pool", p.Address(), "caller", caller, "error", err)
		return nil, err
	}
	if amount.Cmp(pos.Principal) > 0 {
		logger.Info("unstake failed", "pool", p.Address(), "caller", caller, "error", reverts.ErrInsufficientPrincipal)
		return nil, reverts.ErrInsufficientPrincipal
	}

	acc, err := p.accumulated(cfg, now)
	if err != nil {
		return nil, err
	}
	if err := pos.Rebaseline(acc, now); err != nil {
		return nil, err
	}
	if err := pos.SubPrincipal(amount); err != nil {
		return nil, err
	}
	pos.Unstake = next

	exited := pos.Principal.Sign() == 0
	var typeID uint64
	var tiered bool
	if pos.Credential != nil {
		typeID, tiered = pos.Credential.TypeID, pos.Credential.Tiered
	}
	if err := p.globalStatsService.RemoveStake(amount, typeID, tiered, exited); err != nil {
		return nil, err
	}
	if exited && pos.Credential != nil {
		reg, err := p.resolver.Registry(cfg.Registry)
		if err != nil {
			return nil, err
		}
		if err := reg.Unlock(p.Address(), pos.Credential.TokenID); err != nil {
			return nil, err
		}
		pos.Credential = nil
	}

	if err := stakeToken.Transfer(p.Address(), caller, amount); err != nil {
		return nil, err
	}

	reward = new(big.Int)
	if cfg.PayRewardOnUnstake {
		reward = pos.TakeReward()
		if err := p.payReward(cfg, caller, reward); err != nil {
			logger.Info("unstake failed", "pool", p.Address(), "caller", caller, "error", err)
			return nil, err
		}
	}
	if err := p.positionService.Set(caller, pos); err != nil {
		return nil, err
	}

	p.sctx.Emit("Unstaked", caller, amount, "principal", pos.Principal.String(), "reward", reward.String())
	p.updateGauges()

	logger.Info("unstaked", "pool", p.Address(), "caller", caller, "principal", pos.Principal, "reward", reward)
	return reward, nil
}

// RequestClaim starts the claim cooldown of caller.
func (p *Pool) RequestClaim(caller vault.Address, now uint64) (err error) {
	logger.Debug("requesting claim", "pool", p.Address(), "caller", caller)
	defer func() { p.record("request_claim", err) }()

	pos, err := p.positionService.Get(caller)
	if err != nil {
		return err
	}
	if pos.Claim, err = cooldown.Request(pos.Claim, now); err != nil {
		logger.Info("request claim failed", "pool", p.Address(), "caller", caller, "error", err)
		return err
	}
	if err := p.positionService.Set(caller, pos); err != nil {
		return err
	}
	p.sctx.Emit("ClaimRequested", caller, nil, "requestedAt", strconv.FormatUint(now, 10))

	logger.Info("requested claim", "pool", p.Address(), "caller", caller)
	return nil
}

// Claim pays out the accrued reward of caller once the claim cooldown has elapsed.
func (p *Pool) Claim(caller vault.Address, now uint64) (reward *big.Int, err error) {
	logger.Debug("claiming", "pool", p.Address(), "caller", caller)
	defer func() { p.record("claim", err) }()

	cfg, err := p.configService.Get()
	if err != nil {
		return nil, err
	}
	pos, err := p.positionService.Get(caller)
	if err != nil {
		return nil, err
	}
	next, err := cooldown.Execute(pos.Claim, now, cfg.CooldownSeconds)
	if err != nil {
		logger.Info("claim failed", "pool", p.Address(), "caller", caller, "error", err)
		return nil, err
	}
	acc, err := p.accumulated(cfg, now)
	if err != nil {
		return nil, err
	}
	if err := pos.Rebaseline(acc, now); err != nil {
		return nil, err
	}
	if pos.AccruedUnclaimed.Sign() == 0 {
		logger.Info("claim failed", "pool", p.Address(), "caller", caller, "error", reverts.ErrNothingToClaim)
		return nil, reverts.ErrNothingToClaim
	}
	reward = pos.TakeReward()
	pos.Claim = next

	if err := p.payReward(cfg, caller, reward); err != nil {
		logger.Info("claim failed", "pool", p.Address(), "caller", caller, "error", err)
		return nil, err
	}
	if err := p.positionService.Set(caller, pos); err != nil {
		return nil, err
	}
	p.sctx.Emit("RewardClaimed", caller, reward)

	logger.Info("claimed", "pool", p.Address(), "caller", caller, "reward", reward)
	return reward, nil
}
