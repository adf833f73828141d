// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package grant

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/vault"
)

var (
	slotGrants = vault.BytesToBytes32([]byte("grants"))
	slotCounts = vault.BytesToBytes32([]byte("grant-counts"))
)

func grantKey(beneficiary vault.Address, nonce uint64) vault.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], nonce)
	return vault.Blake2b(beneficiary.Bytes(), b[:])
}

// Service stores grants by beneficiary and nonce. Nonces of a beneficiary are
// allocated sequentially from zero.
type Service struct {
	grants *solidity.Mapping[vault.Bytes32, *Grant]
	counts *solidity.Mapping[vault.Address, uint64]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		grants: solidity.NewMapping[vault.Bytes32, *Grant](sctx, slotGrants),
		counts: solidity.NewMapping[vault.Address, uint64](sctx, slotCounts),
	}
}

// Get returns the grant of beneficiary at nonce, empty if there is none.
func (s *Service) Get(beneficiary vault.Address, nonce uint64) (*Grant, error) {
	g, err := s.grants.Get(grantKey(beneficiary, nonce))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get grant")
	}
	return g, nil
}

// Count returns the number of grants beneficiary received.
func (s *Service) Count(beneficiary vault.Address) (uint64, error) {
	count, err := s.counts.Get(beneficiary)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get grant count")
	}
	return count, nil
}

// Add stores g under the next nonce of beneficiary and returns that nonce.
func (s *Service) Add(beneficiary vault.Address, g *Grant) (uint64, error) {
	nonce, err := s.Count(beneficiary)
	if err != nil {
		return 0, err
	}
	if err := s.Set(beneficiary, nonce, g); err != nil {
		return 0, err
	}
	if err := s.counts.Set(beneficiary, nonce+1); err != nil {
		return 0, errors.Wrap(err, "failed to set grant count")
	}
	return nonce, nil
}

// Set updates the grant of beneficiary at nonce.
func (s *Service) Set(beneficiary vault.Address, nonce uint64, g *Grant) error {
	if err := s.grants.Set(grantKey(beneficiary, nonce), g); err != nil {
		return errors.Wrap(err, "failed to set grant")
	}
	return nil
}
