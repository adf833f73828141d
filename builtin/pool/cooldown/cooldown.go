// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cooldown implements the two-phase request then execute protocol
// guarding unstake and claim. A phase is either Idle or Requested at a block
// time; executing always returns to Idle, and re-requesting while a request is
// pending is rejected so the clock cannot be reset.
package cooldown

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/stakevault/stakevault/builtin/reverts"
)

// Phase is the state of one cooldown protocol instance.
type Phase interface {
	isPhase()
}

// Idle means no request is pending.
type Idle struct{}

// Requested means a request was made at block time At.
type Requested struct {
	At uint64
}

func (Idle) isPhase()      {}
func (Requested) isPhase() {}

// Request moves an idle phase to Requested at now.
func Request(p Phase, now uint64) (Phase, error) {
	if _, ok := p.(Requested); ok {
		return p, reverts.ErrAlreadyRequested
	}
	return Requested{At: now}, nil
}

// Execute validates that the cooldown of p has elapsed at now and returns the
// Idle phase to store together with the guarded action. An idle phase always
// fails, even with a zero cooldown.
func Execute(p Phase, now, cooldownSeconds uint64) (Phase, error) {
	req, ok := p.(Requested)
	if !ok {
		return p, reverts.ErrRequestRequired
	}
	if now < ReadyAt(req, cooldownSeconds) {
		return p, reverts.ErrCooldownNotElapsed
	}
	return Idle{}, nil
}

// ReadyAt returns the first block time at which req may execute.
func ReadyAt(req Requested, cooldownSeconds uint64) uint64 {
	ready := req.At + cooldownSeconds
	if ready < req.At {
		// saturate instead of wrapping, such a request never matures
		return ^uint64(0)
	}
	return ready
}

// IsRequested reports whether p is a pending request, and when it was made.
func IsRequested(p Phase) (uint64, bool) {
	if req, ok := p.(Requested); ok {
		return req.At, true
	}
	return 0, false
}

// Stored is the storage form of a Phase: an empty list is Idle, a single
// element list is Requested at that time.
type Stored struct {
	Phase Phase
}

func (s *Stored) EncodeRLP(w io.Writer) error {
	if at, ok := IsRequested(s.Phase); ok {
		return rlp.Encode(w, []uint64{at})
	}
	return rlp.Encode(w, []uint64{})
}

func (s *Stored) DecodeRLP(stream *rlp.Stream) error {
	var v []uint64
	if err := stream.Decode(&v); err != nil {
		return err
	}
	switch len(v) {
	case 0:
		s.Phase = Idle{}
	case 1:
		s.Phase = Requested{At: v[0]}
	default:
		return rlp.ErrMoreThanOneValue
	}
	return nil
}
