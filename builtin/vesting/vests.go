// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"
	"strconv"

	"github.com/stakevault/stakevault/builtin/admin"
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/builtin/vesting/grant"
	"github.com/stakevault/stakevault/fixedpoint"
	"github.com/stakevault/stakevault/vault"
)

// Unlock describes the initial unlock of a batch, either one amount per grant
// or a share of each grant in basis points.
type Unlock struct {
	Amounts     []*big.Int
	BasisPoints uint64
}

func (u *Unlock) initials(amounts []*big.Int) ([]*big.Int, error) {
	initials := make([]*big.Int, len(amounts))
	if u.Amounts != nil {
		if len(u.Amounts) != len(amounts) {
			return nil, reverts.ErrLengthMismatch
		}
		for i, a := range u.Amounts {
			if a == nil {
				a = new(big.Int)
			}
			if a.Sign() < 0 || a.Cmp(amounts[i]) > 0 {
				return nil, reverts.ErrInvalidInitialUnlock
			}
			initials[i] = new(big.Int).Set(a)
		}
		return initials, nil
	}
	if u.BasisPoints > vault.BasisPoints {
		return nil, reverts.ErrInvalidInitialUnlock
	}
	for i, amount := range amounts {
		initial, err := fixedpoint.BasisPoints(amount, u.BasisPoints)
		if err != nil {
			return nil, err
		}
		initials[i] = initial
	}
	return initials, nil
}

// batch is a validated set of grants.
type batch struct {
	beneficiaries []vault.Address
	amounts       []*big.Int
	initials      []*big.Int
	unlocked      *big.Int
}

func (v *Vesting) validate(cfg *Config, beneficiaries []vault.Address, amounts []*big.Int, unlock Unlock, total *big.Int) (*batch, error) {
	if len(beneficiaries) != len(amounts) {
		return nil, reverts.ErrLengthMismatch
	}
	seen := make(map[vault.Address]struct{}, len(beneficiaries))
	sum := new(big.Int)
	for i, beneficiary := range beneficiaries {
		if beneficiary.IsZero() || amounts[i] == nil || amounts[i].Sign() <= 0 {
			return nil, reverts.ErrInvalidBeneficiary
		}
		if !cfg.MultiGrant {
			if _, ok := seen[beneficiary]; ok {
				return nil, reverts.ErrInvalidBeneficiary
			}
			count, err := v.grantService.Count(beneficiary)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, reverts.ErrInvalidBeneficiary
			}
		}
		seen[beneficiary] = struct{}{}

		var err error
		if sum, err = fixedpoint.Add(sum, amounts[i]); err != nil {
			return nil, err
		}
	}
	if total == nil || sum.Cmp(total) != 0 {
		return nil, reverts.ErrTotalMismatch
	}
	initials, err := unlock.initials(amounts)
	if err != nil {
		return nil, err
	}
	unlocked := new(big.Int)
	for _, initial := range initials {
		unlocked.Add(unlocked, initial)
	}
	return &batch{
		beneficiaries: beneficiaries,
		amounts:       amounts,
		initials:      initials,
		unlocked:      unlocked,
	}, nil
}

//
// Setters - state change
//

// InitiateVests creates one grant per beneficiary starting at now. The total is
// pulled from the capability holder in one transfer and each initial unlock is
// paid out right away. It returns the nonce of every new grant.
func (v *Vesting) InitiateVests(
	c *admin.Capability,
	beneficiaries []vault.Address,
	amounts []*big.Int,
	unlock Unlock,
	total *big.Int,
	cliff, linear uint64,
	now uint64,
) (nonces []uint64, err error) {
	logger.Debug("initiating vests", "vesting", v.Address(), "grants", len(beneficiaries), "total", total)
	defer func() { v.record("initiate_vests", err) }()

	if err := v.adminService.Check(c); err != nil {
		return nil, err
	}
	tk, cfg, err := v.token()
	if err != nil {
		return nil, err
	}
	b, err := v.validate(cfg, beneficiaries, amounts, unlock, total)
	if err != nil {
		logger.Info("initiate vests failed", "vesting", v.Address(), "error", err)
		return nil, err
	}

	if err := tk.TransferFrom(v.Address(), c.Holder(), v.Address(), total); err != nil {
		logger.Info("initiate vests failed", "vesting", v.Address(), "error", err)
		return nil, err
	}

	nonces = make([]uint64, 0, len(b.beneficiaries))
	for i, beneficiary := range b.beneficiaries {
		g := &grant.Grant{
			Total:   new(big.Int).Set(b.amounts[i]),
			Initial: b.initials[i],
			Claimed: new(big.Int).Set(b.initials[i]),
			Start:   now,
			Cliff:   cliff,
			Linear:  linear,
		}
		nonce, err := v.grantService.Add(beneficiary, g)
		if err != nil {
			return nil, err
		}
		if g.Initial.Sign() > 0 {
			if err := tk.Transfer(v.Address(), beneficiary, g.Initial); err != nil {
				return nil, err
			}
		}
		nonces = append(nonces, nonce)

		v.sctx.Emit("VestingInitiated", beneficiary, g.Total,
			"nonce", strconv.FormatUint(nonce, 10),
			"initial", g.Initial.String(),
			"cliff", strconv.FormatUint(cliff, 10),
			"linear", strconv.FormatUint(linear, 10),
		)
	}

	if err := v.totalVested.Add(total); err != nil {
		return nil, err
	}
	if err := v.totalClaimed.Add(b.unlocked); err != nil {
		return nil, err
	}

	logger.Info("initiated vests", "vesting", v.Address(), "grants", len(nonces), "total", total, "unlocked", b.unlocked)
	return nonces, nil
}

// Claim pays out the claimable amount of every grant of beneficiary.
func (v *Vesting) Claim(beneficiary vault.Address, now uint64) (amount *big.Int, err error) {
	logger.Debug("claiming vests", "vesting", v.Address(), "beneficiary", beneficiary)
	defer func() { v.record("claim", err) }()

	tk, _, err := v.token()
	if err != nil {
		return nil, err
	}

	type release struct {
		nonce  uint64
		grant  *grant.Grant
		amount *big.Int
	}
	var releases []release
	amount = new(big.Int)
	err = v.eachGrant(beneficiary, func(nonce uint64, g *grant.Grant) error {
		claimable, err := g.Claimable(now)
		if err != nil {
			return err
		}
		if claimable.Sign() > 0 {
			releases = append(releases, release{nonce, g, claimable})
			amount.Add(amount, claimable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		logger.Info("claim failed", "vesting", v.Address(), "beneficiary", beneficiary, "error", reverts.ErrNothingToClaim)
		return nil, reverts.ErrNothingToClaim
	}

	for _, r := range releases {
		if err := r.grant.Release(r.amount); err != nil {
			return nil, err
		}
		if err := v.grantService.Set(beneficiary, r.nonce, r.grant); err != nil {
			return nil, err
		}
	}
	if err := v.pay(tk, beneficiary, amount); err != nil {
		return nil, err
	}
	v.sctx.Emit("VestClaimed", beneficiary, amount, "grants", strconv.Itoa(len(releases)))

	logger.Info("claimed vests", "vesting", v.Address(), "beneficiary", beneficiary, "amount", amount)
	return amount, nil
}

// ClaimNonce pays out the claimable amount of a single grant.
func (v *Vesting) ClaimNonce(beneficiary vault.Address, nonce uint64, now uint64) (amount *big.Int, err error) {
	logger.Debug("claiming vest", "vesting", v.Address(), "beneficiary", beneficiary, "nonce", nonce)
	defer func() { v.record("claim_nonce", err) }()

	tk, _, err := v.token()
	if err != nil {
		return nil, err
	}
	g, err := v.grantService.Get(beneficiary, nonce)
	if err != nil {
		return nil, err
	}
	if amount, err = g.Claimable(now); err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		logger.Info("claim failed", "vesting", v.Address(), "beneficiary", beneficiary, "nonce", nonce, "error", reverts.ErrNothingToClaim)
		return nil, reverts.ErrNothingToClaim
	}
	if err := g.Release(amount); err != nil {
		return nil, err
	}
	if err := v.grantService.Set(beneficiary, nonce, g); err != nil {
		return nil, err
	}
	if err := v.pay(tk, beneficiary, amount); err != nil {
		return nil, err
	}
	v.sctx.Emit("VestClaimed", beneficiary, amount, "nonce", strconv.FormatUint(nonce, 10))

	logger.Info("claimed vest", "vesting", v.Address(), "beneficiary", beneficiary, "nonce", nonce, "amount", amount)
	return amount, nil
}

func (v *Vesting) pay(tk TokenService, to vault.Address, amount *big.Int) error {
	if err := v.totalClaimed.Add(amount); err != nil {
		return err
	}
	return tk.Transfer(v.Address(), to, amount)
}

// EmergencyWithdraw sweeps the program's full token balance to to. Grants are
// left as they are and may no longer be backed by funds.
func (v *Vesting) EmergencyWithdraw(c *admin.Capability, to vault.Address) (err error) {
	logger.Debug("emergency withdraw", "vesting", v.Address(), "to", to)
	defer func() { v.record("emergency_withdraw", err) }()

	if err := v.adminService.Check(c); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.ErrInvalidBeneficiary
	}
	tk, cfg, err := v.token()
	if err != nil {
		return err
	}
	balance, err := tk.BalanceOf(v.Address())
	if err != nil {
		return err
	}
	if balance.Sign() == 0 {
		return nil
	}
	if err := tk.Transfer(v.Address(), to, balance); err != nil {
		return err
	}
	v.sctx.Emit("EmergencyWithdrawn", to, balance, "token", cfg.Token.String())

	logger.Warn("emergency withdraw executed", "vesting", v.Address(), "to", to)
	return nil
}
