// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package grant

import (
	"math"
	"math/big"

	"github.com/stakevault/stakevault/fixedpoint"
)

// Grant is a cliff then linear release schedule of one beneficiary. The
// initial unlock is paid out when the grant is created and counts as claimed.
type Grant struct {
	Total   *big.Int
	Initial *big.Int
	Claimed *big.Int
	Start   uint64
	Cliff   uint64
	Linear  uint64
}

func (g *Grant) IsEmpty() bool {
	return g.Total == nil || g.Total.Sign() == 0
}

// CliffEnd returns the time linear release starts.
func (g *Grant) CliffEnd() uint64 {
	if g.Start > math.MaxUint64-g.Cliff {
		return math.MaxUint64
	}
	return g.Start + g.Cliff
}

// End returns the time the grant is fully vested.
func (g *Grant) End() uint64 {
	cliffEnd := g.CliffEnd()
	if cliffEnd > math.MaxUint64-g.Linear {
		return math.MaxUint64
	}
	return cliffEnd + g.Linear
}

// Vested returns the amount released by now, the initial unlock included.
func (g *Grant) Vested(now uint64) (*big.Int, error) {
	if g.IsEmpty() {
		return new(big.Int), nil
	}
	initial := g.Initial
	if initial == nil {
		initial = new(big.Int)
	}
	cliffEnd := g.CliffEnd()
	if now < cliffEnd {
		return new(big.Int).Set(initial), nil
	}
	elapsed := now - cliffEnd
	if elapsed >= g.Linear {
		return new(big.Int).Set(g.Total), nil
	}
	locked, err := fixedpoint.Sub(g.Total, initial)
	if err != nil {
		return nil, err
	}
	released, err := fixedpoint.Linear(locked, elapsed, g.Linear)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(initial, released)
}

// Claimable returns the vested amount not claimed yet.
func (g *Grant) Claimable(now uint64) (*big.Int, error) {
	vested, err := g.Vested(now)
	if err != nil {
		return nil, err
	}
	claimed := g.Claimed
	if claimed == nil {
		claimed = new(big.Int)
	}
	if vested.Cmp(claimed) <= 0 {
		return new(big.Int), nil
	}
	return new(big.Int).Sub(vested, claimed), nil
}

// Release marks amount as claimed.
func (g *Grant) Release(amount *big.Int) error {
	claimed := g.Claimed
	if claimed == nil {
		claimed = new(big.Int)
	}
	next, err := fixedpoint.Add(claimed, amount)
	if err != nil {
		return err
	}
	if next.Cmp(g.Total) > 0 {
		return fixedpoint.ErrArithmeticOverflow
	}
	g.Claimed = next
	return nil
}
