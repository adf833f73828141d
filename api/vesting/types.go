// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/events"
	"github.com/stakevault/stakevault/builtin/vesting"
	"github.com/stakevault/stakevault/builtin/vesting/grant"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/vault"
)

func amount(x *big.Int) *math.HexOrDecimal256 {
	if x == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(x)
}

type Program struct {
	Address      vault.Address         `json:"address"`
	Admin        vault.Address         `json:"admin"`
	Token        vault.Address         `json:"token"`
	MultiGrant   bool                  `json:"multiGrant"`
	TotalVested  *math.HexOrDecimal256 `json:"totalVested"`
	TotalClaimed *math.HexOrDecimal256 `json:"totalClaimed"`
}

type Grant struct {
	Nonce     uint64                `json:"nonce"`
	Total     *math.HexOrDecimal256 `json:"total"`
	Initial   *math.HexOrDecimal256 `json:"initial"`
	Claimed   *math.HexOrDecimal256 `json:"claimed"`
	Vested    *math.HexOrDecimal256 `json:"vested"`
	Claimable *math.HexOrDecimal256 `json:"claimable"`
	Start     uint64                `json:"start"`
	CliffEnd  uint64                `json:"cliffEnd"`
	End       uint64                `json:"end"`
}

func convertGrant(nonce uint64, g *grant.Grant, now uint64) (*Grant, error) {
	vested, err := g.Vested(now)
	if err != nil {
		return nil, err
	}
	claimable, err := g.Claimable(now)
	if err != nil {
		return nil, err
	}
	return &Grant{
		Nonce:     nonce,
		Total:     amount(g.Total),
		Initial:   amount(g.Initial),
		Claimed:   amount(g.Claimed),
		Vested:    amount(vested),
		Claimable: amount(claimable),
		Start:     g.Start,
		CliffEnd:  g.CliffEnd(),
		End:       g.End(),
	}, nil
}

type Beneficiary struct {
	Claimable *math.HexOrDecimal256 `json:"claimable"`
	Grants    []*Grant              `json:"grants"`
	// At is the block time amounts are computed at.
	At uint64 `json:"at"`
}

type ClaimRequest struct {
	Beneficiary vault.Address `json:"beneficiary"`
	// Nonce selects one grant, all grants are claimed when nil.
	Nonce *uint64 `json:"nonce,omitempty"`
}

type InitiateRequest struct {
	Caller            vault.Address           `json:"caller"`
	Beneficiaries     []vault.Address         `json:"beneficiaries"`
	Amounts           []*math.HexOrDecimal256 `json:"amounts"`
	UnlockAmounts     []*math.HexOrDecimal256 `json:"unlockAmounts,omitempty"`
	UnlockBasisPoints uint64                  `json:"unlockBasisPoints"`
	Total             *math.HexOrDecimal256   `json:"total"`
	Cliff             uint64                  `json:"cliff"`
	Linear            uint64                  `json:"linear"`
}

func bigs(name string, xs []*math.HexOrDecimal256) ([]*big.Int, error) {
	if xs == nil {
		return nil, nil
	}
	out := make([]*big.Int, len(xs))
	for i, x := range xs {
		if x == nil {
			return nil, errors.Errorf("%s[%d]: null not allowed", name, i)
		}
		out[i] = new(big.Int).Set((*big.Int)(x))
	}
	return out, nil
}

func (r *InitiateRequest) parse() (amounts []*big.Int, unlock vesting.Unlock, total *big.Int, err error) {
	if r.Total == nil {
		return nil, unlock, nil, errors.New("total: required")
	}
	if amounts, err = bigs("amounts", r.Amounts); err != nil {
		return nil, unlock, nil, err
	}
	if unlock.Amounts, err = bigs("unlockAmounts", r.UnlockAmounts); err != nil {
		return nil, unlock, nil, err
	}
	unlock.BasisPoints = r.UnlockBasisPoints
	return amounts, unlock, new(big.Int).Set((*big.Int)(r.Total)), nil
}

type AdminRequest struct {
	Caller vault.Address `json:"caller"`
	Target vault.Address `json:"target"`
}

type OpResponse struct {
	BlockNumber uint32                `json:"blockNumber"`
	BlockTime   uint64                `json:"blockTime"`
	Amount      *math.HexOrDecimal256 `json:"amount,omitempty"`
	Nonces      []uint64              `json:"nonces,omitempty"`
	Events      []*events.Event       `json:"events"`
}

func convertReceipt(r *runtime.Receipt) *OpResponse {
	return &OpResponse{
		BlockNumber: r.BlockNumber,
		BlockTime:   r.BlockTime,
		Events:      events.ConvertAll(r.Events),
	}
}
