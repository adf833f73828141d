// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_WrappedSentinel(t *testing.T) {
	err := errors.Wrap(ErrCapExceeded, "deposit")
	assert.True(t, IsRevertErr(err))
	assert.ErrorIs(t, err, ErrCapExceeded)
	assert.NotErrorIs(t, err, ErrNotEligible)
}

func Test_Bytes(t *testing.T) {
	var nilRevert *ErrRevert
	assert.Nil(t, nilRevert.Bytes())

	b := ErrNothingToClaim.Bytes()
	assert.Len(t, b, 4+32+32+32)
	assert.Equal(t, []byte{0x08, 0xc3, 0x79, 0xa0}, b[:4])
	assert.Equal(t, byte(32), b[4+31])
	assert.Equal(t, byte(len("nothing to claim")), b[4+32+31])
	assert.Equal(t, "nothing to claim", string(b[4+64:4+64+len("nothing to claim")]))
}
