// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
)

// ErrRevert is a rejected precondition of a built-in contract operation. The
// state changes of a reverted operation are always rolled back.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Bytes returns the abi encoded Error(string) revert reason.
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.message)
	msgLen := uint64(len(msgBytes))

	// selector + offset (32 bytes) + length (32 bytes) + data (padded to 32)
	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, selector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// pool window
var (
	ErrPoolNotOpen = New("pool not open")
	ErrPoolEnded   = New("pool ended")
)

// admission
var (
	ErrCapExceeded = New("cap exceeded")
	ErrNotEligible = New("not eligible")
)

// ledger and cooldown
var (
	ErrInsufficientPrincipal = New("insufficient principal")
	ErrRequestRequired       = New("request required")
	ErrAlreadyRequested      = New("already requested")
	ErrCooldownNotElapsed    = New("cooldown not elapsed")
	ErrNothingToClaim        = New("nothing to claim")
)

// vesting batch validation
var (
	ErrLengthMismatch       = New("length mismatch")
	ErrTotalMismatch        = New("total mismatch")
	ErrInvalidBeneficiary   = New("invalid beneficiary")
	ErrInvalidInitialUnlock = New("invalid initial unlock")
)

var (
	ErrArithmeticOverflow = New("arithmetic overflow")
	ErrUnauthorized       = New("unauthorized")
)

// token and registry
var (
	ErrInsufficientBalance   = New("insufficient balance")
	ErrInsufficientAllowance = New("insufficient allowance")
	ErrCredentialLocked      = New("credential locked")
	ErrInvalidToken          = New("invalid token")
	ErrInvalidConfig         = New("invalid config")
	ErrInvalidAmount         = New("invalid amount")
)
