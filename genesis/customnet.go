// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin"
	"github.com/stakevault/stakevault/builtin/pool/admission"
	"github.com/stakevault/stakevault/builtin/pool/config"
	"github.com/stakevault/stakevault/builtin/vesting"
	"github.com/stakevault/stakevault/vault"
)

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen == nil {
		return nil, errors.New("custom genesis is nil")
	}
	launchTime := gen.LaunchTime
	if launchTime == 0 {
		return nil, errors.New("launch time must be set")
	}

	builder := new(Builder).Timestamp(launchTime)

	for _, t := range gen.Tokens {
		t := t
		builder.State(func(env *builtin.Env, _ uint64) error {
			if err := env.Directory().Register(t.Address, builtin.KindToken); err != nil {
				return errors.Wrapf(err, "token %v", t.Address)
			}
			tk := env.Token(t.Address)
			if err := tk.Initialize(t.Name, t.Symbol, t.Decimals); err != nil {
				return errors.Wrapf(err, "token %v", t.Address)
			}
			for _, b := range t.Balances {
				if b.Amount == nil {
					return errors.Errorf("token %v: missing amount for %v", t.Address, b.Address)
				}
				if err := tk.Mint(b.Address, b.Amount.Big()); err != nil {
					return errors.Wrapf(err, "token %v: balance of %v", t.Address, b.Address)
				}
			}
			return nil
		})
	}

	for _, r := range gen.Registries {
		r := r
		builder.State(func(env *builtin.Env, _ uint64) error {
			if err := env.Directory().Register(r.Address, builtin.KindRegistry); err != nil {
				return errors.Wrapf(err, "registry %v", r.Address)
			}
			reg := env.Registry(r.Address)
			for _, c := range r.Credentials {
				if err := reg.Mint(c.Owner, c.ID, c.Type); err != nil {
					return errors.Wrapf(err, "registry %v: credential %d", r.Address, c.ID)
				}
			}
			return nil
		})
	}

	for _, p := range gen.Pools {
		p := p
		cfg, err := p.config(launchTime)
		if err != nil {
			return nil, errors.Wrapf(err, "pool %v", p.Address)
		}
		builder.State(func(env *builtin.Env, now uint64) error {
			if err := env.Directory().Register(p.Address, builtin.KindPool); err != nil {
				return errors.Wrapf(err, "pool %v", p.Address)
			}
			pl := env.Pool(p.Address)
			if err := pl.Initialize(p.Admin, cfg, now); err != nil {
				return errors.Wrapf(err, "pool %v", p.Address)
			}
			if len(p.TierLimits) > 0 {
				c, err := pl.Authorize(p.Admin)
				if err != nil {
					return err
				}
				for _, tl := range p.TierLimits {
					if tl.Limit == nil {
						return errors.Errorf("pool %v: missing limit for tier %d", p.Address, tl.Type)
					}
					if err := pl.SetTierLimit(c, tl.Type, tl.Limit.Big()); err != nil {
						return errors.Wrapf(err, "pool %v: tier %d", p.Address, tl.Type)
					}
				}
			}
			if p.Funding != nil {
				if err := env.Token(p.RewardToken).Mint(p.Address, p.Funding.Big()); err != nil {
					return errors.Wrapf(err, "pool %v: funding", p.Address)
				}
			}
			return nil
		})
	}

	for _, v := range gen.Vestings {
		v := v
		builder.State(func(env *builtin.Env, now uint64) error {
			if err := env.Directory().Register(v.Address, builtin.KindVesting); err != nil {
				return errors.Wrapf(err, "vesting %v", v.Address)
			}
			vs := env.Vesting(v.Address)
			if err := vs.Initialize(v.Admin, v.Token, v.MultiGrant); err != nil {
				return errors.Wrapf(err, "vesting %v", v.Address)
			}
			for i, b := range v.Batches {
				if err := b.initiate(env, vs, v, now); err != nil {
					return errors.Wrapf(err, "vesting %v: batch %d", v.Address, i)
				}
			}
			return nil
		})
	}

	return newGenesis(builder, "customnet")
}

func (p *Pool) config(launchTime uint64) (*config.Config, error) {
	mode, ok := admission.ParseMode(p.Mode)
	if !ok {
		return nil, errors.Errorf("unknown mode %q", p.Mode)
	}
	start := p.StartTime
	if start == 0 {
		start = launchTime
	}
	cooldown := vault.DefaultCooldown()
	if p.CooldownSeconds != nil {
		cooldown = *p.CooldownSeconds
	}
	rate := p.RewardRate.Big()
	if rate == nil {
		rate = new(big.Int)
	}
	return &config.Config{
		StakeToken:         p.StakeToken,
		RewardToken:        p.RewardToken,
		Registry:           p.Registry,
		RewardRate:         rate,
		StartTime:          start,
		Duration:           p.Duration,
		MaxStaked:          p.MaxStaked.Big(),
		MaxPerAccount:      p.MaxPerAccount.Big(),
		CooldownSeconds:    cooldown,
		ClampAccrual:       p.ClampAccrual,
		PayRewardOnUnstake: p.PayRewardOnUnstake,
		Mode:               uint8(mode),
		EligibleTypes:      p.EligibleTypes,
		BonusBasisPoints:   p.BonusBasisPoints,
	}, nil
}

func bigs(xs []*HexOrDecimal256) []*big.Int {
	if xs == nil {
		return nil
	}
	out := make([]*big.Int, 0, len(xs))
	for _, x := range xs {
		out = append(out, x.Big())
	}
	return out
}

func (b *VestingBatch) initiate(env *builtin.Env, vs *vesting.Vesting, v Vesting, now uint64) error {
	amounts := bigs(b.Amounts)
	total := new(big.Int)
	for i, a := range amounts {
		if a == nil {
			return errors.Errorf("missing amount %d", i)
		}
		total.Add(total, a)
	}
	tk := env.Token(v.Token)
	if err := tk.Mint(v.Admin, total); err != nil {
		return err
	}
	if err := tk.Approve(v.Admin, v.Address, total); err != nil {
		return err
	}
	c, err := vs.Authorize(v.Admin)
	if err != nil {
		return err
	}
	unlock := vesting.Unlock{Amounts: bigs(b.UnlockAmounts), BasisPoints: b.UnlockBasisPoints}
	_, err = vs.InitiateVests(c, b.Beneficiaries, amounts, unlock, total, b.Cliff, b.Linear, now)
	return err
}
