// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements the deterministic integer arithmetic behind
// every reward and vesting calculation. Operands are unsigned and at most 256
// bits wide; products are kept at 512 bits until the final floor division, and
// any result that does not fit 256 bits fails with ErrArithmeticOverflow.
package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/vault"
)

var (
	ErrArithmeticOverflow = reverts.ErrArithmeticOverflow

	bigZero = big.NewInt(0)
)

func toUint256(x *big.Int) (*uint256.Int, error) {
	if x == nil {
		return new(uint256.Int), nil
	}
	v, overflow := uint256.FromBig(x)
	if overflow || x.Sign() < 0 {
		return nil, ErrArithmeticOverflow
	}
	return v, nil
}

func operands(xs ...*big.Int) ([]*uint256.Int, error) {
	out := make([]*uint256.Int, len(xs))
	for i, x := range xs {
		v, err := toUint256(x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// MulDiv returns floor(x * y / d). The product is evaluated at full width.
// A zero divisor is reported as ErrArithmeticOverflow.
func MulDiv(x, y, d *big.Int) (*big.Int, error) {
	ops, err := operands(x, y, d)
	if err != nil {
		return nil, err
	}
	z, err := mulDiv(ops[0], ops[1], ops[2])
	if err != nil {
		return nil, err
	}
	return z.ToBig(), nil
}

func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrArithmeticOverflow
	}
	if x.IsZero() || y.IsZero() {
		return new(uint256.Int), nil
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z, nil
}

// ScaledMul returns floor(a * b / scale): the product of two values carrying
// the given fixed-point scale.
func ScaledMul(a, b, scale *big.Int) (*big.Int, error) {
	return MulDiv(a, b, scale)
}

// ScaledDiv returns floor(a * scale / b): the quotient of two values carrying
// the given fixed-point scale.
func ScaledDiv(a, b, scale *big.Int) (*big.Int, error) {
	return MulDiv(a, scale, b)
}

// Add returns a + b, failing when the sum needs more than 256 bits.
func Add(a, b *big.Int) (*big.Int, error) {
	ops, err := operands(a, b)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).AddOverflow(ops[0], ops[1])
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z.ToBig(), nil
}

// Sub returns a - b, failing when b is larger than a.
func Sub(a, b *big.Int) (*big.Int, error) {
	ops, err := operands(a, b)
	if err != nil {
		return nil, err
	}
	z, underflow := new(uint256.Int).SubOverflow(ops[0], ops[1])
	if underflow {
		return nil, ErrArithmeticOverflow
	}
	return z.ToBig(), nil
}

// Accrue returns the reward earned by principal at an annualized rate over
// elapsed seconds:
//
//	floor(principal * rate * elapsed / (RATE_SCALE * SecondsPerYear))
func Accrue(principal, rate *big.Int, elapsed uint64) (*big.Int, error) {
	rs, err := RateSeconds(rate, elapsed)
	if err != nil {
		return nil, err
	}
	return AccrueRateSeconds(principal, rs)
}

// RateSeconds returns rate * elapsed, the integral of a constant rate over time.
func RateSeconds(rate *big.Int, elapsed uint64) (*big.Int, error) {
	ops, err := operands(rate)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).MulOverflow(ops[0], uint256.NewInt(elapsed))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return z.ToBig(), nil
}

// AccrueRateSeconds returns the reward earned by principal over an integral of
// rate over time, as accumulated by RateSeconds:
//
//	floor(principal * rateSeconds / (RATE_SCALE * SecondsPerYear))
func AccrueRateSeconds(principal, rateSeconds *big.Int) (*big.Int, error) {
	if IsZero(principal) || IsZero(rateSeconds) {
		return new(big.Int), nil
	}
	ops, err := operands(principal, rateSeconds, vault.RateScale())
	if err != nil {
		return nil, err
	}
	denom, overflow := new(uint256.Int).MulOverflow(ops[2], uint256.NewInt(vault.SecondsPerYear()))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	z, err := mulDiv(ops[0], ops[1], denom)
	if err != nil {
		return nil, err
	}
	return z.ToBig(), nil
}

// Linear returns floor(amount * elapsed / duration), saturating at amount once
// elapsed reaches duration.
func Linear(amount *big.Int, elapsed, duration uint64) (*big.Int, error) {
	if duration == 0 || elapsed >= duration {
		return new(big.Int).Set(amount), nil
	}
	return MulDiv(amount, new(big.Int).SetUint64(elapsed), new(big.Int).SetUint64(duration))
}

// BasisPoints returns floor(amount * bps / 10000).
func BasisPoints(amount *big.Int, bps uint64) (*big.Int, error) {
	return MulDiv(amount, new(big.Int).SetUint64(bps), big.NewInt(vault.BasisPoints))
}

// IsZero reports whether x is nil or zero.
func IsZero(x *big.Int) bool {
	return x == nil || x.Cmp(bigZero) == 0
}
