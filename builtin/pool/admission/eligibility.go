// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admission

import (
	"slices"

	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/vault"
)

// Mode selects the eligibility policy of a pool.
type Mode uint8

const (
	// ModeOpen admits everyone.
	ModeOpen Mode = iota
	// ModeGated requires a credential of one of the listed types.
	ModeGated
	// ModeBonus admits everyone and raises the per-account cap of credential holders.
	ModeBonus
)

func (m Mode) String() string {
	switch m {
	case ModeOpen:
		return "open"
	case ModeGated:
		return "gated"
	case ModeBonus:
		return "bonus"
	default:
		return "unknown"
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "open":
		return ModeOpen, true
	case "gated":
		return ModeGated, true
	case "bonus":
		return ModeBonus, true
	}
	return 0, false
}

// Registry is the subset of the ownership registry the policy reads.
type Registry interface {
	OwnerOf(id uint64) (vault.Address, error)
	BalanceOf(owner vault.Address) (uint64, error)
	IsOfType(id uint64, typeID uint64) (bool, error)
	IsLocked(id uint64) (bool, error)
}

// Grant is the outcome of an eligibility check.
type Grant struct {
	// Credential is the token to lock for the position, nil if none is used.
	Credential *uint64
	TypeID     uint64
	// Tiered is set when TypeID selects a tier limit.
	Tiered bool
	// CapBasisPoints scales the per-account cap.
	CapBasisPoints uint64
}

// EligibilityProvider decides whether account may deposit presenting credential.
type EligibilityProvider interface {
	Evaluate(account vault.Address, credential *uint64) (*Grant, error)
}

// Open admits every account.
type Open struct{}

func (Open) Evaluate(vault.Address, *uint64) (*Grant, error) {
	return &Grant{}, nil
}

// Gated admits holders of a credential of one of Types. The matching type is
// the depositor's tier.
type Gated struct {
	Registry Registry
	Types    []uint64
}

func (g Gated) Evaluate(account vault.Address, credential *uint64) (*Grant, error) {
	if g.Registry == nil {
		return nil, reverts.ErrNotEligible
	}
	count, err := g.Registry.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	if count == 0 || credential == nil {
		return nil, reverts.ErrNotEligible
	}
	typeID, ok, err := matchType(g.Registry, account, *credential, g.Types)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrNotEligible
	}
	return &Grant{Credential: credential, TypeID: typeID, Tiered: len(g.Types) > 0}, nil
}

// Bonus admits every account. Presenting a credential of one of Types raises
// the per-account cap to BasisPoints of it; an invalid credential is ignored.
type Bonus struct {
	Registry    Registry
	Types       []uint64
	BasisPoints uint64
}

func (b Bonus) Evaluate(account vault.Address, credential *uint64) (*Grant, error) {
	if credential == nil || b.Registry == nil {
		return &Grant{}, nil
	}
	typeID, ok, err := matchType(b.Registry, account, *credential, b.Types)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Grant{}, nil
	}
	return &Grant{Credential: credential, TypeID: typeID, CapBasisPoints: b.BasisPoints}, nil
}

// matchType checks that account owns an unlocked id of one of types. An empty
// types list accepts any type.
func matchType(r Registry, account vault.Address, id uint64, types []uint64) (uint64, bool, error) {
	owner, err := r.OwnerOf(id)
	if err != nil {
		if reverts.IsRevertErr(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if owner != account {
		return 0, false, nil
	}
	locked, err := r.IsLocked(id)
	if err != nil {
		return 0, false, err
	}
	if locked {
		return 0, false, nil
	}
	if len(types) == 0 {
		return 0, true, nil
	}
	for _, typeID := range slices.Sorted(slices.Values(types)) {
		ok, err := r.IsOfType(id, typeID)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return typeID, true, nil
		}
	}
	return 0, false, nil
}
