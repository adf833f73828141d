// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/stakevault/stakevault/builtin/pool/cooldown"
	"github.com/stakevault/stakevault/fixedpoint"
)

// Credential is the registry token an account staked with.
type Credential struct {
	TokenID uint64
	TypeID  uint64
	// Tiered is set when TypeID selects a tier limit.
	Tiered bool
	// CapBasisPoints scales the per-account cap of bonus pools.
	CapBasisPoints uint64
}

// Position is the stake of one account in one pool.
type Position struct {
	Principal        *big.Int
	AccruedUnclaimed *big.Int
	LastAccrualTime  uint64
	// RateSnapshot is the pool's accumulated rate-seconds at LastAccrualTime.
	RateSnapshot *big.Int
	Unstake      cooldown.Phase
	Claim        cooldown.Phase
	Credential   *Credential
}

func newPosition() *Position {
	return &Position{
		Principal:        new(big.Int),
		AccruedUnclaimed: new(big.Int),
		RateSnapshot:     new(big.Int),
		Unstake:          cooldown.Idle{},
		Claim:            cooldown.Idle{},
	}
}

// IsEmpty returns whether the position was never touched.
func (p *Position) IsEmpty() bool {
	return p.Principal.Sign() == 0 && p.AccruedUnclaimed.Sign() == 0 && p.LastAccrualTime == 0
}

// earned returns the reward accrued since the last re-baseline, given the
// pool's accumulated rate-seconds now.
func (p *Position) earned(accumulated *big.Int) (*big.Int, error) {
	if accumulated.Cmp(p.RateSnapshot) <= 0 {
		return new(big.Int), nil
	}
	delta := new(big.Int).Sub(accumulated, p.RateSnapshot)
	return fixedpoint.AccrueRateSeconds(p.Principal, delta)
}

// Pending returns the unclaimed reward including the not yet re-baselined part.
func (p *Position) Pending(accumulated *big.Int) (*big.Int, error) {
	earned, err := p.earned(accumulated)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(p.AccruedUnclaimed, earned)
}

// Rebaseline folds the reward accrued so far into AccruedUnclaimed. It must be
// called before any change of Principal, so later changes never reprice
// elapsed time.
func (p *Position) Rebaseline(accumulated *big.Int, now uint64) error {
	pending, err := p.Pending(accumulated)
	if err != nil {
		return err
	}
	p.AccruedUnclaimed = pending
	if accumulated.Cmp(p.RateSnapshot) > 0 {
		p.RateSnapshot = new(big.Int).Set(accumulated)
	}
	p.LastAccrualTime = now
	return nil
}

// AddPrincipal increases the principal. The position must be re-baselined.
func (p *Position) AddPrincipal(amount *big.Int) error {
	principal, err := fixedpoint.Add(p.Principal, amount)
	if err != nil {
		return err
	}
	p.Principal = principal
	return nil
}

// SubPrincipal decreases the principal. The position must be re-baselined.
func (p *Position) SubPrincipal(amount *big.Int) error {
	principal, err := fixedpoint.Sub(p.Principal, amount)
	if err != nil {
		return err
	}
	p.Principal = principal
	return nil
}

// TakeReward zeroes and returns the unclaimed reward.
func (p *Position) TakeReward() *big.Int {
	reward := p.AccruedUnclaimed
	p.AccruedUnclaimed = new(big.Int)
	return reward
}
