// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cooldown

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin/reverts"
)

func TestRequest(t *testing.T) {
	p, err := Request(Idle{}, 100)
	require.NoError(t, err)
	assert.Equal(t, Requested{At: 100}, p)

	// a second request keeps the original clock
	again, err := Request(p, 200)
	assert.ErrorIs(t, err, reverts.ErrAlreadyRequested)
	assert.Equal(t, Requested{At: 100}, again)
}

func TestExecute(t *testing.T) {
	const cd = 7 * 24 * 3600

	_, err := Execute(Idle{}, 100, cd)
	assert.ErrorIs(t, err, reverts.ErrRequestRequired)

	p := Phase(Requested{At: 100})
	_, err = Execute(p, 100+cd-1, cd)
	assert.ErrorIs(t, err, reverts.ErrCooldownNotElapsed)

	// exactly at the boundary succeeds
	next, err := Execute(p, 100+cd, cd)
	require.NoError(t, err)
	assert.Equal(t, Idle{}, next)

	// execute resets, so a fresh request is needed
	_, err = Execute(next, 100+2*cd, cd)
	assert.ErrorIs(t, err, reverts.ErrRequestRequired)
}

func TestExecuteWithoutCooldown(t *testing.T) {
	next, err := Execute(Idle{}, 5, 0)
	assert.ErrorIs(t, err, reverts.ErrRequestRequired)
	assert.Equal(t, Idle{}, next)

	// the request may execute in the same block
	next, err = Execute(Requested{At: 5}, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, Idle{}, next)
}

func TestReadyAtSaturates(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), ReadyAt(Requested{At: math.MaxUint64 - 1}, 10))
	_, err := Execute(Requested{At: math.MaxUint64 - 1}, math.MaxUint64-1, 10)
	assert.ErrorIs(t, err, reverts.ErrCooldownNotElapsed)
}

func TestStored(t *testing.T) {
	for _, p := range []Phase{Idle{}, Requested{At: 0}, Requested{At: 42}} {
		raw, err := rlp.EncodeToBytes(&Stored{Phase: p})
		require.NoError(t, err)

		var got Stored
		require.NoError(t, rlp.DecodeBytes(raw, &got))
		assert.Equal(t, p, got.Phase)
	}

	raw, _ := rlp.EncodeToBytes([]uint64{1, 2})
	var got Stored
	assert.Error(t, rlp.DecodeBytes(raw, &got))
}
