// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admission decides whether a deposit may enter a pool: the pool
// window, the global, per-account and tier caps, and the eligibility of the
// depositor's credential.
package admission

import (
	"math/big"

	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/fixedpoint"
	"github.com/stakevault/stakevault/vault"
)

// Window is the deposit window [Start, Start+Duration). A zero Duration never ends.
type Window struct {
	Start    uint64
	Duration uint64
}

// End returns the end of the window and whether it has one.
func (w Window) End() (uint64, bool) {
	if w.Duration == 0 {
		return 0, false
	}
	end := w.Start + w.Duration
	if end < w.Start {
		return 0, false
	}
	return end, true
}

// CheckWindow fails with ErrPoolNotOpen before Start and ErrPoolEnded from the end on.
func (w Window) CheckWindow(now uint64) error {
	if now < w.Start {
		return reverts.ErrPoolNotOpen
	}
	if end, ok := w.End(); ok && now >= end {
		return reverts.ErrPoolEnded
	}
	return nil
}

// Caps limits stake. A nil or zero limit is unlimited.
type Caps struct {
	MaxStaked     *big.Int
	MaxPerAccount *big.Int
}

// Request is a proposed deposit.
type Request struct {
	Amount *big.Int
	// PrincipalBefore is the depositor's principal before the deposit.
	PrincipalBefore *big.Int
	// TotalBefore is the pool's total principal before the deposit.
	TotalBefore *big.Int
	// TierLimit is the per-account limit of the depositor's tier, nil if untiered.
	// It applies together with Caps.MaxPerAccount.
	TierLimit *big.Int
	// CapBasisPoints scales the per-account limit, 0 or BasisPoints leaves it as is.
	CapBasisPoints uint64
}

func unlimited(x *big.Int) bool {
	return x == nil || x.Sign() == 0
}

// CheckCaps fails with ErrCapExceeded if the deposit would take the pool or the
// account above its limit.
func (c Caps) CheckCaps(req *Request) error {
	totalAfter, err := fixedpoint.Add(req.TotalBefore, req.Amount)
	if err != nil {
		return err
	}
	if !unlimited(c.MaxStaked) && totalAfter.Cmp(c.MaxStaked) > 0 {
		return reverts.ErrCapExceeded
	}

	principalAfter, err := fixedpoint.Add(req.PrincipalBefore, req.Amount)
	if err != nil {
		return err
	}
	// the stricter of the account cap and the tier limit binds
	limit := c.MaxPerAccount
	if !unlimited(req.TierLimit) && (unlimited(limit) || req.TierLimit.Cmp(limit) < 0) {
		limit = req.TierLimit
	}
	if unlimited(limit) {
		return nil
	}
	if req.CapBasisPoints != 0 && req.CapBasisPoints != vault.BasisPoints {
		if limit, err = fixedpoint.BasisPoints(limit, req.CapBasisPoints); err != nil {
			return err
		}
	}
	if principalAfter.Cmp(limit) > 0 {
		return reverts.ErrCapExceeded
	}
	return nil
}
