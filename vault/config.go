// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import "math/big"

// Config is the configurable parameters of the vault. All parameters have default values and
// will be 'locked' once the runtime starts. For testing purposes the parameters can be updated.

var (
	rateScale              = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil) // 1e18 == 100%
	secondsPerYear  uint64 = 365 * 24 * 3600
	defaultCooldown        = uint64(7 * 24 * 3600) // 7 days
	blockInterval   uint64 = 10                    // 10 seconds

	locked bool
)

// BasisPoints is the denominator of every basis-point value.
const BasisPoints = 10_000

type Config struct {
	RateScale       *big.Int `json:"rateScale" yaml:"rateScale"`             // the fixed-point scale of reward rates
	SecondsPerYear  uint64   `json:"secondsPerYear" yaml:"secondsPerYear"`   // the period an annual rate applies to
	DefaultCooldown uint64   `json:"defaultCooldown" yaml:"defaultCooldown"` // cooldown of pools that don't set one
	BlockInterval   uint64   `json:"blockInterval" yaml:"blockInterval"`     // seconds between two canonical clock ticks
}

// SetConfig sets the config.
// Zero fields keep their default values.
// If the config is locked, will panic.
func SetConfig(cfg Config) {
	if locked {
		panic("config is locked, cannot be set")
	}

	if cfg.RateScale != nil && cfg.RateScale.Sign() > 0 {
		rateScale = new(big.Int).Set(cfg.RateScale)
	}
	if cfg.SecondsPerYear != 0 {
		secondsPerYear = cfg.SecondsPerYear
	}
	if cfg.DefaultCooldown != 0 {
		defaultCooldown = cfg.DefaultCooldown
	}
	if cfg.BlockInterval != 0 {
		blockInterval = cfg.BlockInterval
	}
}

// LockConfig prevents any further change of the config.
func LockConfig() {
	locked = true
}

// GetConfig returns a copy of the current config.
func GetConfig() Config {
	return Config{
		RateScale:       RateScale(),
		SecondsPerYear:  secondsPerYear,
		DefaultCooldown: defaultCooldown,
		BlockInterval:   blockInterval,
	}
}

// RateScale returns the fixed-point scale of annual rates. A rate equal to the scale is 100% per year.
func RateScale() *big.Int {
	return new(big.Int).Set(rateScale)
}

func SecondsPerYear() uint64 {
	return secondsPerYear
}

func DefaultCooldown() uint64 {
	return defaultCooldown
}

func BlockInterval() uint64 {
	return blockInterval
}
