// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/fixedpoint"
	"github.com/stakevault/stakevault/vault"
)

var (
	slotTotalStaked = vault.BytesToBytes32([]byte(("total-staked")))
	slotTierStaked  = vault.BytesToBytes32([]byte(("tier-staked")))
	slotAccumulator = vault.BytesToBytes32([]byte(("rate-accumulator")))
	slotStakers     = vault.BytesToBytes32([]byte(("stakers")))
)

// Accumulator is the integral of the pool's reward rate over time, up to Time.
type Accumulator struct {
	Value *big.Int
	Time  uint64
}

// At returns the accumulated rate-seconds at now, with rate applied since Time
// and growth stopping at end when clamped.
func (a *Accumulator) At(now uint64, rate *big.Int, end uint64, clamped bool) (*big.Int, error) {
	until := now
	if clamped && end < until {
		until = end
	}
	if until <= a.Time {
		return new(big.Int).Set(a.Value), nil
	}
	grown, err := fixedpoint.RateSeconds(rate, until-a.Time)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(a.Value, grown)
}

type tierKey uint64

func (k tierKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// Service manages pool-wide totals.
type Service struct {
	totalStaked *solidity.Uint256
	stakers     *solidity.Uint256
	tierStaked  *solidity.Mapping[tierKey, *big.Int]
	accumulator *solidity.Raw[*Accumulator]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		totalStaked: solidity.NewUint256(sctx, slotTotalStaked),
		stakers:     solidity.NewUint256(sctx, slotStakers),
		tierStaked:  solidity.NewMapping[tierKey, *big.Int](sctx, slotTierStaked),
		accumulator: solidity.NewRaw[*Accumulator](sctx, slotAccumulator),
	}
}

// TotalStaked returns the sum of all principals.
func (s *Service) TotalStaked() (*big.Int, error) {
	return s.totalStaked.Get()
}

// Stakers returns the number of accounts with a non-zero principal.
func (s *Service) Stakers() (uint64, error) {
	n, err := s.stakers.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// TierStaked returns the sum of principals staked with a credential of typeID.
func (s *Service) TierStaked(typeID uint64) (*big.Int, error) {
	return s.tierStaked.Get(tierKey(typeID))
}

// AddStake records a deposit. newStaker is set when the account had no principal.
func (s *Service) AddStake(amount *big.Int, typeID uint64, tiered, newStaker bool) error {
	total, err := s.totalStaked.Get()
	if err != nil {
		return err
	}
	if total, err = fixedpoint.Add(total, amount); err != nil {
		return err
	}
	s.totalStaked.Set(total)
	if newStaker {
		if err := s.stakers.Add(big.NewInt(1)); err != nil {
			return err
		}
	}
	if !tiered {
		return nil
	}
	tier, err := s.tierStaked.Get(tierKey(typeID))
	if err != nil {
		return err
	}
	return s.tierStaked.Set(tierKey(typeID), tier.Add(tier, amount))
}

// RemoveStake records a withdrawal. exited is set when the account's principal reached zero.
func (s *Service) RemoveStake(amount *big.Int, typeID uint64, tiered, exited bool) error {
	if tiered {
		tier, err := s.tierStaked.Get(tierKey(typeID))
		if err != nil {
			return err
		}
		if tier.Cmp(amount) < 0 {
			return errors.Wrap(solidity.ErrUnderflow, "tier staked")
		}
		if err := s.tierStaked.Set(tierKey(typeID), tier.Sub(tier, amount)); err != nil {
			return err
		}
	}
	if err := s.totalStaked.Sub(amount); err != nil {
		return errors.Wrap(err, "total staked")
	}
	if exited {
		if err := s.stakers.Sub(big.NewInt(1)); err != nil {
			return errors.Wrap(err, "stakers")
		}
	}
	return nil
}

// Accumulator returns the stored accumulator checkpoint.
func (s *Service) Accumulator() (*Accumulator, error) {
	acc, err := s.accumulator.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get accumulator")
	}
	if acc.Value == nil {
		acc.Value = new(big.Int)
	}
	return acc, nil
}

// InitAccumulator starts the accumulator at now.
func (s *Service) InitAccumulator(now uint64) error {
	return s.accumulator.Set(&Accumulator{Value: new(big.Int), Time: now})
}

// Checkpoint stores the accumulator value at now. It must be called before any
// change of the reward rate or the accrual window, so the change only applies
// to time after now.
func (s *Service) Checkpoint(now uint64, rate *big.Int, end uint64, clamped bool) (*big.Int, error) {
	acc, err := s.Accumulator()
	if err != nil {
		return nil, err
	}
	value, err := acc.At(now, rate, end, clamped)
	if err != nil {
		return nil, err
	}
	if now < acc.Time {
		now = acc.Time
	}
	if err := s.accumulator.Set(&Accumulator{Value: value, Time: now}); err != nil {
		return nil, err
	}
	return value, nil
}
