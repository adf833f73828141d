// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/events"
	"github.com/stakevault/stakevault/builtin/pool/admission"
	"github.com/stakevault/stakevault/builtin/pool/config"
	"github.com/stakevault/stakevault/builtin/pool/cooldown"
	"github.com/stakevault/stakevault/builtin/pool/position"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/vault"
)

func amount(x *big.Int) *math.HexOrDecimal256 {
	if x == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(x)
}

type Pool struct {
	Address            vault.Address         `json:"address"`
	Admin              vault.Address         `json:"admin"`
	StakeToken         vault.Address         `json:"stakeToken"`
	RewardToken        vault.Address         `json:"rewardToken"`
	Registry           vault.Address         `json:"registry"`
	RewardRate         *math.HexOrDecimal256 `json:"rewardRate"`
	StartTime          uint64                `json:"startTime"`
	Duration           uint64                `json:"duration"`
	MaxStaked          *math.HexOrDecimal256 `json:"maxStaked"`
	MaxPerAccount      *math.HexOrDecimal256 `json:"maxPerAccount"`
	CooldownSeconds    uint64                `json:"cooldownSeconds"`
	ClampAccrual       bool                  `json:"clampAccrual"`
	PayRewardOnUnstake bool                  `json:"payRewardOnUnstake"`
	Mode               string                `json:"mode"`
	EligibleTypes      []uint64              `json:"eligibleTypes"`
	BonusBasisPoints   uint64                `json:"bonusBasisPoints"`
	TokensFrozen       bool                  `json:"tokensFrozen"`
	TotalStaked        *math.HexOrDecimal256 `json:"totalStaked"`
	Stakers            uint64                `json:"stakers"`
}

func convertPool(addr, admin vault.Address, cfg *config.Config, total *big.Int, stakers uint64) *Pool {
	return &Pool{
		Address:            addr,
		Admin:              admin,
		StakeToken:         cfg.StakeToken,
		RewardToken:        cfg.RewardToken,
		Registry:           cfg.Registry,
		RewardRate:         amount(cfg.RewardRate),
		StartTime:          cfg.StartTime,
		Duration:           cfg.Duration,
		MaxStaked:          amount(cfg.MaxStaked),
		MaxPerAccount:      amount(cfg.MaxPerAccount),
		CooldownSeconds:    cfg.CooldownSeconds,
		ClampAccrual:       cfg.ClampAccrual,
		PayRewardOnUnstake: cfg.PayRewardOnUnstake,
		Mode:               admission.Mode(cfg.Mode).String(),
		EligibleTypes:      cfg.EligibleTypes,
		BonusBasisPoints:   cfg.BonusBasisPoints,
		TokensFrozen:       cfg.TokensFrozen,
		TotalStaked:        amount(total),
		Stakers:            stakers,
	}
}

type Tier struct {
	TypeID uint64                `json:"typeId"`
	Limit  *math.HexOrDecimal256 `json:"limit"`
	Staked *math.HexOrDecimal256 `json:"staked"`
}

// Phase is a cooldown request, nil when idle.
type Phase struct {
	RequestedAt uint64 `json:"requestedAt"`
	ReadyAt     uint64 `json:"readyAt"`
}

func convertPhase(p cooldown.Phase, cooldownSeconds uint64) *Phase {
	req, ok := p.(cooldown.Requested)
	if !ok {
		return nil
	}
	return &Phase{RequestedAt: req.At, ReadyAt: cooldown.ReadyAt(req, cooldownSeconds)}
}

type Credential struct {
	TokenID uint64 `json:"tokenId"`
	TypeID  uint64 `json:"typeId"`
}

type Position struct {
	Principal        *math.HexOrDecimal256 `json:"principal"`
	AccruedUnclaimed *math.HexOrDecimal256 `json:"accruedUnclaimed"`
	PendingRewards   *math.HexOrDecimal256 `json:"pendingRewards"`
	LastAccrualTime  uint64                `json:"lastAccrualTime"`
	UnstakeRequest   *Phase                `json:"unstakeRequest"`
	ClaimRequest     *Phase                `json:"claimRequest"`
	Credential       *Credential           `json:"credential"`
	// At is the block time pending rewards are computed at.
	At uint64 `json:"at"`
}

func convertPosition(pos *position.Position, pending *big.Int, cooldownSeconds, now uint64) *Position {
	out := &Position{
		Principal:        amount(pos.Principal),
		AccruedUnclaimed: amount(pos.AccruedUnclaimed),
		PendingRewards:   amount(pending),
		LastAccrualTime:  pos.LastAccrualTime,
		UnstakeRequest:   convertPhase(pos.Unstake, cooldownSeconds),
		ClaimRequest:     convertPhase(pos.Claim, cooldownSeconds),
		At:               now,
	}
	if pos.Credential != nil {
		out.Credential = &Credential{TokenID: pos.Credential.TokenID, TypeID: pos.Credential.TypeID}
	}
	return out
}

// OpRequest is the body of a pool operation. Each operation reads the fields it
// needs and rejects the request if one is missing.
type OpRequest struct {
	Caller     vault.Address         `json:"caller"`
	Amount     *math.HexOrDecimal256 `json:"amount,omitempty"`
	Credential *uint64               `json:"credential,omitempty"`
	Seconds    *uint64               `json:"seconds,omitempty"`
	Enabled    *bool                 `json:"enabled,omitempty"`
	TypeID     *uint64               `json:"typeId,omitempty"`
	Target     *vault.Address        `json:"target,omitempty"`
}

func (r *OpRequest) amount() (*big.Int, error) {
	if r.Amount == nil {
		return nil, errors.New("amount: required")
	}
	return new(big.Int).Set((*big.Int)(r.Amount)), nil
}

func (r *OpRequest) seconds() (uint64, error) {
	if r.Seconds == nil {
		return 0, errors.New("seconds: required")
	}
	return *r.Seconds, nil
}

func (r *OpRequest) enabled() (bool, error) {
	if r.Enabled == nil {
		return false, errors.New("enabled: required")
	}
	return *r.Enabled, nil
}

func (r *OpRequest) typeID() (uint64, error) {
	if r.TypeID == nil {
		return 0, errors.New("typeId: required")
	}
	return *r.TypeID, nil
}

func (r *OpRequest) target() (vault.Address, error) {
	if r.Target == nil {
		return vault.Address{}, errors.New("target: required")
	}
	return *r.Target, nil
}

type OpResponse struct {
	BlockNumber uint32                `json:"blockNumber"`
	BlockTime   uint64                `json:"blockTime"`
	Reward      *math.HexOrDecimal256 `json:"reward,omitempty"`
	Events      []*events.Event       `json:"events"`
}

func convertReceipt(r *runtime.Receipt, reward *big.Int) *OpResponse {
	return &OpResponse{
		BlockNumber: r.BlockNumber,
		BlockTime:   r.BlockTime,
		Reward:      amount(reward),
		Events:      events.ConvertAll(r.Events),
	}
}
