// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

func newService() *Service {
	return New(solidity.NewContext(vault.Address{1}, state.NewMem(), nil))
}

func TestStake(t *testing.T) {
	svc := newService()

	require.NoError(t, svc.AddStake(big.NewInt(100), 2, true, true))
	require.NoError(t, svc.AddStake(big.NewInt(50), 0, false, true))

	total, err := svc.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), total)

	tier, err := svc.TierStaked(2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), tier)

	stakers, err := svc.Stakers()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stakers)

	require.NoError(t, svc.RemoveStake(big.NewInt(100), 2, true, true))
	assert.Error(t, svc.RemoveStake(big.NewInt(1), 2, true, false))

	total, _ = svc.TotalStaked()
	assert.Equal(t, big.NewInt(50), total)
	stakers, _ = svc.Stakers()
	assert.Equal(t, uint64(1), stakers)
}

func TestAccumulator(t *testing.T) {
	svc := newService()

	acc, err := svc.Accumulator()
	require.NoError(t, err)
	assert.Equal(t, 0, acc.Value.Sign())

	// rate 3 from 0 to 10
	v, err := svc.Checkpoint(10, big.NewInt(3), 0, false)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), v)

	// rate 5 from 10 on, a read at 20 gives 30 + 50
	acc, _ = svc.Accumulator()
	v, err = acc.At(20, big.NewInt(5), 0, false)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(80), v)

	// clamped at 15
	v, err = acc.At(20, big.NewInt(5), 15, true)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(55), v)

	// past the end nothing grows
	v, err = acc.At(20, big.NewInt(5), 5, true)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30), v)
}
