// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackedMap(t *testing.T) {
	src := map[string]string{"foo": "bar"}
	sm := New(func(key string) (string, bool, error) {
		v, ok := src[key]
		return v, ok, nil
	})

	assert.Equal(t, 0, sm.Depth())

	rev := sm.Push()
	assert.Equal(t, 0, rev)

	v, ok, err := sm.Get("foo")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bar", v)

	sm.Put("foo", "baz")
	sm.Put("foo", "qux")
	v, _, _ = sm.Get("foo")
	assert.Equal(t, "qux", v)

	sm.Push()
	sm.Put("foo", "inner")
	sm.Put("new", "value")
	v, _, _ = sm.Get("foo")
	assert.Equal(t, "inner", v)

	sm.PopTo(1)
	v, _, _ = sm.Get("foo")
	assert.Equal(t, "qux", v)
	_, ok, _ = sm.Get("new")
	assert.False(t, ok)

	sm.PopTo(0)
	v, _, _ = sm.Get("foo")
	assert.Equal(t, "bar", v)
}

func TestStackedMapJournal(t *testing.T) {
	sm := New(func(string) (int, bool, error) { return 0, false, nil })
	sm.Push()
	sm.Put("a", 1)
	sm.Push()
	sm.Put("b", 2)
	sm.Put("a", 3)

	var keys []string
	var values []int
	sm.Journal(func(k string, v int) bool {
		keys = append(keys, k)
		values = append(values, v)
		return true
	})
	assert.Equal(t, []string{"a", "b", "a"}, keys)
	assert.Equal(t, []int{1, 2, 3}, values)

	count := 0
	sm.Journal(func(string, int) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestStackedMapSourceError(t *testing.T) {
	sm := New(func(string) (int, bool, error) { return 0, false, errors.New("boom") })
	sm.Push()
	_, _, err := sm.Get("x")
	assert.EqualError(t, err, "boom")

	sm.Put("x", 1)
	v, ok, err := sm.Get("x")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
