// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/pool/cooldown"
	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/vault"
)

var slotPositions = vault.BytesToBytes32([]byte(("positions")))

// body is the storage form of a Position.
type body struct {
	Principal        *big.Int
	AccruedUnclaimed *big.Int
	LastAccrualTime  uint64
	RateSnapshot     *big.Int
	Unstake          cooldown.Stored
	Claim            cooldown.Stored
	Credential       *Credential `rlp:"nil"`
}

type Service struct {
	positions *solidity.Mapping[vault.Address, *body]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		positions: solidity.NewMapping[vault.Address, *body](sctx, slotPositions),
	}
}

// Get returns the position of account, zero valued if it never deposited.
func (s *Service) Get(account vault.Address) (*Position, error) {
	b, err := s.positions.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	p := newPosition()
	if b.Principal != nil {
		p.Principal = b.Principal
	}
	if b.AccruedUnclaimed != nil {
		p.AccruedUnclaimed = b.AccruedUnclaimed
	}
	if b.RateSnapshot != nil {
		p.RateSnapshot = b.RateSnapshot
	}
	if b.Unstake.Phase != nil {
		p.Unstake = b.Unstake.Phase
	}
	if b.Claim.Phase != nil {
		p.Claim = b.Claim.Phase
	}
	p.LastAccrualTime = b.LastAccrualTime
	p.Credential = b.Credential
	return p, nil
}

// Set persists the position of account.
func (s *Service) Set(account vault.Address, p *Position) error {
	b := &body{
		Principal:        p.Principal,
		AccruedUnclaimed: p.AccruedUnclaimed,
		LastAccrualTime:  p.LastAccrualTime,
		RateSnapshot:     p.RateSnapshot,
		Unstake:          cooldown.Stored{Phase: p.Unstake},
		Claim:            cooldown.Stored{Phase: p.Claim},
		Credential:       p.Credential,
	}
	if err := s.positions.Set(account, b); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}
