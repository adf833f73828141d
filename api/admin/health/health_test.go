// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/lvldb"
)

func newRepo(t *testing.T) (*chain.Repository, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	repo, err := chain.NewRepository(db, &chain.Block{Time: 1000})
	require.NoError(t, err)
	return repo, db
}

func TestStatus(t *testing.T) {
	repo, _ := newRepo(t)
	h := New(repo, 10*time.Second)

	now := time.Now()
	h.now = func() time.Time { return now }
	h.NewBestBlock(repo.BestBlock())
	assert.True(t, h.Status().Healthy)

	h.now = func() time.Time { return now.Add(14 * time.Second) }
	assert.True(t, h.Status().Healthy)

	h.now = func() time.Time { return now.Add(16 * time.Second) }
	status := h.Status()
	assert.False(t, status.Healthy)
	assert.Equal(t, repo.BestBlock().ID(), status.BlockIngestion.ID)
	assert.Equal(t, now, *status.BlockIngestion.Timestamp)
}

func setBest(t *testing.T, repo *chain.Repository, db *lvldb.LevelDB, ts uint64) *chain.Block {
	parent := repo.BestBlock()
	b := &chain.Block{Number: parent.Number + 1, Time: ts, ParentID: parent.ID()}
	bulk := db.Bulk()
	require.NoError(t, chain.WriteBlock(bulk, b))
	require.NoError(t, bulk.Write())
	require.NoError(t, repo.SetBest(b))
	return b
}

func runHealth(h *Health) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestRunFollowsBestBlock(t *testing.T) {
	repo, db := newRepo(t)
	h := New(repo, 10*time.Second)
	stop := runHealth(h)
	defer stop()

	for i, ts := range []uint64{1010, 1020, 1030} {
		setBest(t, repo, db, ts)
		want := uint32(i + 1)
		assert.Eventually(t, func() bool {
			return h.Status().BlockIngestion.Number == want
		}, time.Second, 10*time.Millisecond)
	}
}

func TestRunSeesBlockSetBeforeStart(t *testing.T) {
	repo, db := newRepo(t)
	h := New(repo, 10*time.Second)

	b1 := setBest(t, repo, db, 1010)
	stop := runHealth(h)
	defer stop()

	assert.Eventually(t, func() bool {
		return h.Status().BlockIngestion.ID == b1.ID()
	}, time.Second, 10*time.Millisecond)
}

func TestObserveKeepsTimestampOfSameBlock(t *testing.T) {
	repo, _ := newRepo(t)
	h := New(repo, 10*time.Second)

	now := time.Now()
	h.now = func() time.Time { return now.Add(time.Minute) }
	h.observe(repo.BestBlock())
	assert.False(t, h.Status().Healthy)
}

func TestHandleGetHealth(t *testing.T) {
	repo, _ := newRepo(t)
	h := New(repo, 10*time.Second)
	router := mux.NewRouter()
	NewAPI(h).Mount(router, "/admin/health")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var status Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.True(t, status.Healthy)

	h.now = func() time.Time { return time.Now().Add(time.Minute) }
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
