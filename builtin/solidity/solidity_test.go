// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

type TestStruct struct {
	Field1 uint64
	Field2 *big.Int
	Addr1  vault.Address
}

func newTestContext() *Context {
	return NewContext(vault.Address{1}, state.NewMem(), nil)
}

func TestMapping(t *testing.T) {
	ctx := newTestContext()
	m := NewMapping[vault.Address, *TestStruct](ctx, vault.Bytes32{1})

	key := vault.Address{2}
	empty, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Equal(t, uint64(0), empty.Field1)

	val := &TestStruct{Field1: 100, Field2: big.NewInt(200), Addr1: vault.Address{3}}
	require.NoError(t, m.Set(key, val))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val.Field1, got.Field1)
	assert.Equal(t, 0, val.Field2.Cmp(got.Field2))
	assert.Equal(t, val.Addr1, got.Addr1)

	// same key under another base position is independent
	other := NewMapping[vault.Address, *TestStruct](ctx, vault.Bytes32{2})
	got, err = other.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)

	m.Delete(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
}

func TestMappingValueType(t *testing.T) {
	ctx := newTestContext()
	m := NewMapping[vault.Bytes32, uint64](ctx, vault.Bytes32{9})

	v, err := m.Get(vault.Bytes32{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	require.NoError(t, m.Set(vault.Bytes32{1}, 42))
	v, err = m.Get(vault.Bytes32{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext()
	u := NewUint256(ctx, vault.Bytes32{5})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(100)))
	require.NoError(t, u.Sub(big.NewInt(40)))
	v, _ = u.Get()
	assert.Equal(t, big.NewInt(60), v)

	assert.ErrorIs(t, u.Sub(big.NewInt(61)), ErrUnderflow)
	v, _ = u.Get()
	assert.Equal(t, big.NewInt(60), v)
}

func TestAddressAndBool(t *testing.T) {
	ctx := newTestContext()

	a := NewAddress(ctx, vault.Bytes32{6})
	addr := vault.Address{0xAB}
	a.Set(&addr)
	got, err := a.Get()
	require.NoError(t, err)
	assert.Equal(t, addr, got)
	a.Set(nil)
	got, _ = a.Get()
	assert.True(t, got.IsZero())

	b := NewBool(ctx, vault.Bytes32{7})
	flag, err := b.Get()
	require.NoError(t, err)
	assert.False(t, flag)
	b.Set(true)
	flag, _ = b.Get()
	assert.True(t, flag)
	b.Set(false)
	flag, _ = b.Get()
	assert.False(t, flag)
}

func TestConfigVariable(t *testing.T) {
	ctx := newTestContext()
	cv := NewConfigVariable("cooldown-seconds", 604800)

	assert.Equal(t, uint64(604800), cv.Get(ctx))
	cv.Override(ctx, 60)
	assert.Equal(t, uint64(60), cv.Get(ctx))
	cv.Override(ctx, 0)
	assert.Equal(t, uint64(604800), cv.Get(ctx))

	// overrides are per contract
	other := NewContext(vault.Address{2}, ctx.State(), nil)
	cv.Override(ctx, 5)
	assert.Equal(t, uint64(604800), cv.Get(other))
}

func TestRaw(t *testing.T) {
	ctx := newTestContext()
	r := NewRaw[*TestStruct](ctx, vault.Bytes32{8})

	empty, err := r.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	v, err := r.Get()
	require.NoError(t, err)
	assert.NotNil(t, v)

	require.NoError(t, r.Set(&TestStruct{Field1: 3, Field2: big.NewInt(4)}))
	empty, _ = r.IsEmpty()
	assert.False(t, empty)
	v, err = r.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v.Field1)
}

func TestEmit(t *testing.T) {
	var got []*vault.Event
	ctx := NewContext(vault.Address{1}, state.NewMem(), func(ev *vault.Event) {
		got = append(got, ev)
	})
	amount := big.NewInt(10)
	ctx.Emit("Deposited", vault.Address{2}, amount, "tier", "3")
	amount.SetInt64(11)

	require.Len(t, got, 1)
	assert.Equal(t, vault.Address{1}, got[0].Address)
	assert.Equal(t, "Deposited", got[0].Name)
	assert.Equal(t, big.NewInt(10), got[0].Amount)
	assert.Equal(t, map[string]string{"tier": "3"}, got[0].Detail)

	// no emitter is a no-op
	newTestContext().Emit("Ignored", vault.Address{}, nil)
}
