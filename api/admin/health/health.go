// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/vault"
)

type BlockIngestion struct {
	ID        vault.Bytes32 `json:"id"`
	Number    uint32        `json:"number"`
	Timestamp *time.Time    `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
}

// Health tracks when the best block last moved.
type Health struct {
	lock          sync.RWMutex
	newBestBlock  time.Time
	bestBlock     *chain.Block
	blockInterval time.Duration
	repo          *chain.Repository
	now           func() time.Time
}

func New(repo *chain.Repository, blockInterval time.Duration) *Health {
	return &Health{
		repo:          repo,
		blockInterval: blockInterval,
		newBestBlock:  time.Now(),
		bestBlock:     repo.BestBlock(),
		now:           time.Now,
	}
}

const delayBuffer = 5 * time.Second

// Run follows the best block until ctx is done. The ticker is taken before
// the best block is read, so a block set in between is never missed.
func (h *Health) Run(ctx context.Context) {
	for {
		ticker := h.repo.NewTicker()
		h.observe(h.repo.BestBlock())
		select {
		case <-ctx.Done():
			return
		case <-ticker:
		}
	}
}

// observe records b as new when it differs from the last seen best block.
func (h *Health) observe(b *chain.Block) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.bestBlock != nil && h.bestBlock.ID() == b.ID() {
		return
	}
	h.newBestBlock = h.now()
	h.bestBlock = b
}

func (h *Health) NewBestBlock(b *chain.Block) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newBestBlock = h.now()
	h.bestBlock = b
}

// Status is healthy while blocks keep being packed at the configured interval.
func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ts := h.newBestBlock
	return &Status{
		Healthy: h.now().Sub(h.newBestBlock) <= h.blockInterval+delayBuffer,
		BlockIngestion: &BlockIngestion{
			ID:        h.bestBlock.ID(),
			Number:    h.bestBlock.Number,
			Timestamp: &ts,
		},
	}
}
