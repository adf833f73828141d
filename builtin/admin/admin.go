// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin holds the admin role of a built-in contract. Admin operations
// take a Capability, which can only be obtained by authorizing the caller
// against the stored admin.
package admin

import (
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/vault"
)

var (
	logger = log.WithContext("pkg", "admin")

	slotAdmin = vault.BytesToBytes32([]byte("admin"))
)

// Capability proves that holder was the admin of contract when it was issued.
type Capability struct {
	contract vault.Address
	holder   vault.Address
}

func (c *Capability) Contract() vault.Address {
	return c.contract
}

func (c *Capability) Holder() vault.Address {
	return c.holder
}

type Service struct {
	sctx  *solidity.Context
	admin *solidity.Address
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		sctx:  sctx,
		admin: solidity.NewAddress(sctx, slotAdmin),
	}
}

// Get returns the current admin, zero if unset.
func (s *Service) Get() (vault.Address, error) {
	return s.admin.Get()
}

// Init sets the first admin. It fails if an admin is already set.
func (s *Service) Init(admin vault.Address) error {
	current, err := s.admin.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.ErrUnauthorized
	}
	if admin.IsZero() {
		return reverts.ErrInvalidConfig
	}
	s.admin.Set(&admin)
	return nil
}

// Authorize issues a capability to caller if it is the admin.
func (s *Service) Authorize(caller vault.Address) (*Capability, error) {
	current, err := s.admin.Get()
	if err != nil {
		return nil, err
	}
	if current.IsZero() || current != caller {
		logger.Debug("authorize rejected", "contract", s.sctx.Address(), "caller", caller)
		return nil, reverts.ErrUnauthorized
	}
	return &Capability{contract: s.sctx.Address(), holder: caller}, nil
}

// Check verifies that c was issued for this contract to the current admin.
func (s *Service) Check(c *Capability) error {
	if c == nil || c.contract != s.sctx.Address() {
		return reverts.ErrUnauthorized
	}
	current, err := s.admin.Get()
	if err != nil {
		return err
	}
	if current != c.holder {
		return reverts.ErrUnauthorized
	}
	return nil
}

// Transfer hands the admin role to next. Capabilities of the previous admin stop working.
func (s *Service) Transfer(c *Capability, next vault.Address) error {
	if err := s.Check(c); err != nil {
		return err
	}
	if next.IsZero() {
		return reverts.ErrInvalidConfig
	}
	s.admin.Set(&next)
	s.sctx.Emit("AdminChanged", next, nil, "previous", c.holder.String())
	return nil
}
