// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/vault"
)

func TestStateStorage(t *testing.T) {
	st := NewMem()
	addr := vault.BytesToAddress([]byte("contract"))
	key := vault.BytesToBytes32([]byte("slot"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	st.SetStorage(addr, key, vault.BytesToBytes32([]byte{1, 2, 3}))
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, vault.BytesToBytes32([]byte{1, 2, 3}), v)

	st.SetStorage(addr, key, vault.Bytes32{})
	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateCheckpoint(t *testing.T) {
	st := NewMem()
	addr := vault.BytesToAddress([]byte("contract"))
	key := vault.BytesToBytes32([]byte("slot"))

	st.SetStorage(addr, key, vault.BytesToBytes32([]byte{1}))
	rev := st.NewCheckpoint()
	st.SetStorage(addr, key, vault.BytesToBytes32([]byte{2}))

	v, _ := st.GetStorage(addr, key)
	assert.Equal(t, vault.BytesToBytes32([]byte{2}), v)

	st.RevertTo(rev)
	v, _ = st.GetStorage(addr, key)
	assert.Equal(t, vault.BytesToBytes32([]byte{1}), v)

	// reverting below the base level keeps the base changes
	st.RevertTo(0)
	v, _ = st.GetStorage(addr, key)
	assert.Equal(t, vault.BytesToBytes32([]byte{1}), v)
}

func TestStateEncodeDecode(t *testing.T) {
	st := NewMem()
	addr := vault.BytesToAddress([]byte("contract"))
	key := vault.BytesToBytes32([]byte("struct"))

	type entry struct {
		A uint64
		B []byte
	}
	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&entry{A: 7, B: []byte("x")})
	}))

	var got entry
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	}))
	assert.Equal(t, entry{A: 7, B: []byte("x")}, got)

	// list values are exposed as their hash
	hashed, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.False(t, hashed.IsZero())

	st.SetRawStorage(addr, key, rlp.RawValue{0xFF})
	err = st.DecodeStorage(addr, key, func(raw []byte) error { return rlp.DecodeBytes(raw, &got) })
	assert.Error(t, err)
	assert.IsType(t, &Error{}, err)
}

func TestStageCommit(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	stater := NewStater(db)

	addr := vault.BytesToAddress([]byte("contract"))
	k1 := vault.BytesToBytes32([]byte("k1"))
	k2 := vault.BytesToBytes32([]byte("k2"))

	st := stater.NewState()
	st.SetStorage(addr, k1, vault.BytesToBytes32([]byte{1}))
	st.SetStorage(addr, k2, vault.BytesToBytes32([]byte{2}))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	hash := stage.Hash()
	assert.Equal(t, hash, st.Stage().Hash())
	require.NoError(t, stage.Commit())

	st2 := stater.NewState()
	v, err := st2.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, vault.BytesToBytes32([]byte{1}), v)

	// deleting a slot removes it from the store
	st2.SetStorage(addr, k2, vault.Bytes32{})
	require.NoError(t, st2.Stage().Commit())

	fresh := NewStater(db).NewState()
	v, err = fresh.GetStorage(addr, k2)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestStageCommitExtras(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	stater := NewStater(db)
	assert.Equal(t, kv.Store(db), stater.Store())

	// extras are written even without storage changes
	err = stater.NewState().Stage().Commit(func(p kv.Putter) error {
		return p.Put([]byte("head"), []byte{1})
	})
	require.NoError(t, err)
	v, err := db.Get([]byte("head"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, v)

	st := stater.NewState()
	st.SetStorage(vault.BytesToAddress([]byte("contract")), vault.BytesToBytes32([]byte("k")), vault.BytesToBytes32([]byte{7}))
	err = st.Stage().Commit(func(kv.Putter) error { return errors.New("boom") })
	assert.Error(t, err)

	fresh := NewStater(db).NewState()
	got, err := fresh.GetStorage(vault.BytesToAddress([]byte("contract")), vault.BytesToBytes32([]byte("k")))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
