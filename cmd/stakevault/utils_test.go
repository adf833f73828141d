// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"flag"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakevault/stakevault/genesis"
)

func TestReadIntFromUInt64Flag_WithinRange(t *testing.T) {
	got, err := readIntFromUInt64Flag(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("want 42, got %d", got)
	}
}

func TestReadIntFromUInt64Flag_MaxInt(t *testing.T) {
	val := uint64(math.MaxInt)
	got, err := readIntFromUInt64Flag(val)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != int(val) {
		t.Fatalf("want %d, got %d", val, got)
	}
}

func TestReadIntFromUInt64Flag_TooLarge(t *testing.T) {
	val := uint64(math.MaxInt) + 1
	if _, err := readIntFromUInt64Flag(val); err == nil {
		t.Fatalf("expected error for value > MaxInt")
	}
}

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	dataDirFlag.Apply(set)
	cacheFlag.Apply(set)
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestInstanceDir(t *testing.T) {
	dir := t.TempDir()
	ctx := newContext(t, "--data-dir", dir)
	gene := genesis.NewDevnet()

	instanceDir, err := makeInstanceDir(ctx, gene)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(instanceDir))
	assert.Contains(t, filepath.Base(instanceDir), "instance-")

	info, err := os.Stat(instanceDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	db, err := openMainDB(ctx, instanceDir)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	logDB, err := openLogDB(instanceDir)
	require.NoError(t, err)
	require.NoError(t, logDB.Close())

	_, err = os.Stat(filepath.Join(instanceDir, "main.db"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(instanceDir, "logs.db"))
	assert.NoError(t, err)
}

func TestEmptyDataDir(t *testing.T) {
	ctx := newContext(t, "--data-dir", "")
	_, err := makeDataDir(ctx)
	assert.Error(t, err)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 16, normalizeCacheSize(1))
	assert.LessOrEqual(t, normalizeCacheSize(math.MaxInt32), math.MaxInt32)
}
