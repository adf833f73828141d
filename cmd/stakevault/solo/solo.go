// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solo is the single node execution environment. It owns the
// canonical clock and runs every submitted operation in block order.
package solo

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/state"
)

var logger = log.WithContext("pkg", "solo")

// ErrStopped is returned to operations still queued when the node stops.
var ErrStopped = errors.New("solo stopped")

type Options struct {
	// BlockInterval is the number of seconds between two blocks.
	BlockInterval uint64
	SkipLogs      bool
	// QueueLimit bounds the operations waiting for the next block.
	QueueLimit int
}

type result struct {
	receipt *runtime.Receipt
	err     error
}

type request struct {
	op     runtime.Operation
	result chan result
}

// Solo mode is the standalone execution environment.
type Solo struct {
	repo    *chain.Repository
	stater  *state.Stater
	logDB   *logdb.LogDB
	options Options
	clock   func() uint64

	queue   chan *request
	pending []*request
	// commitLock keeps readers off a state newer than the best block.
	commitLock sync.RWMutex
}

// New returns Solo instance
func New(
	repo *chain.Repository,
	stater *state.Stater,
	logDB *logdb.LogDB,
	options Options,
) *Solo {
	if options.BlockInterval == 0 {
		options.BlockInterval = 10
	}
	if options.QueueLimit <= 0 {
		options.QueueLimit = 1024
	}
	return &Solo{
		repo:    repo,
		stater:  stater,
		logDB:   logDB,
		options: options,
		clock:   func() uint64 { return uint64(time.Now().Unix()) },
		queue:   make(chan *request, options.QueueLimit),
	}
}

// Run packs a block every block interval until ctx is done.
func (s *Solo) Run(ctx context.Context) error {
	logger.Info("prepared to pack block", "interval", s.options.BlockInterval, "best", s.repo.BestBlock().Number)

	ticker := time.NewTicker(time.Duration(s.options.BlockInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping interval packing service......")
			s.drain()
			return nil
		case req := <-s.queue:
			s.pending = append(s.pending, req)
		case <-ticker.C:
			s.collect()
			if err := s.pack(s.pending); err != nil {
				logger.Error("failed to pack block", "err", err)
				s.pending = nil
				s.drain()
				return err
			}
			s.pending = nil
		}
	}
}

// collect moves every queued request to pending without blocking.
func (s *Solo) collect() {
	for {
		select {
		case req := <-s.queue:
			s.pending = append(s.pending, req)
		default:
			return
		}
	}
}

func (s *Solo) drain() {
	s.collect()
	for _, req := range s.pending {
		req.result <- result{err: ErrStopped}
	}
	s.pending = nil
}

// Submit queues op for the next block and waits for its outcome. An operation
// already queued still runs if ctx is done before the block is packed.
func (s *Solo) Submit(ctx context.Context, op runtime.Operation) (*runtime.Receipt, error) {
	req := &request{op: op, result: make(chan result, 1)}
	select {
	case s.queue <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-req.result:
		return r.receipt, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Call runs op against the state of the best block and discards its changes.
func (s *Solo) Call(op runtime.Operation) error {
	s.commitLock.RLock()
	defer s.commitLock.RUnlock()

	best := s.repo.BestBlock()
	rt := runtime.New(s.stater.NewState(), runtime.BlockContext{Number: best.Number, Time: best.Time})
	return rt.Call(op)
}

// nextTime advances the clock by at least one block interval, catching up
// with wall time when the node was idle.
func (s *Solo) nextTime(parent *chain.Block) uint64 {
	next := parent.Time + s.options.BlockInterval
	if now := s.clock(); now > next {
		next = now - now%s.options.BlockInterval
		if next <= parent.Time {
			next = parent.Time + s.options.BlockInterval
		}
	}
	return next
}

// pack runs reqs in a new block on top of the best one and commits it.
func (s *Solo) pack(reqs []*request) error {
	startTime := time.Now()
	parent := s.repo.BestBlock()
	rt := runtime.New(s.stater.NewState(), runtime.BlockContext{
		Number: parent.Number + 1,
		Time:   s.nextTime(parent),
	})

	results := make([]result, len(reqs))
	for i, req := range reqs {
		mark := len(rt.Events())
		if err := rt.Atomic(req.op); err != nil {
			results[i].err = err
			continue
		}
		results[i].receipt = &runtime.Receipt{
			BlockNumber: rt.BlockNumber(),
			BlockTime:   rt.BlockTime(),
			Events:      rt.Events()[mark:],
		}
	}

	stage := rt.State().Stage()
	blk := &chain.Block{
		Number:     rt.BlockNumber(),
		Time:       rt.BlockTime(),
		ParentID:   parent.ID(),
		StagedHash: stage.Hash(),
		EventCount: uint32(len(rt.Events())),
	}

	s.commitLock.Lock()
	err := stage.Commit(func(w kv.Putter) error { return chain.WriteBlock(w, blk) })
	if err == nil {
		// events land before the new best is announced
		if !s.options.SkipLogs && s.logDB != nil {
			if logErr := s.logDB.NewBatch(blk.Number, blk.Time).Insert(rt.Events()...).Commit(); logErr != nil {
				logger.Warn("failed to write events", "block", blk.Number, "err", logErr)
			}
		}
		err = s.repo.SetBest(blk)
	}
	s.commitLock.Unlock()
	if err != nil {
		for _, req := range reqs {
			req.result <- result{err: err}
		}
		return errors.Wrap(err, "commit block")
	}

	for i, req := range reqs {
		req.result <- results[i]
	}

	metricBlocksCount().AddWithLabel(1, nil)
	metricBestBlock().Set(int64(blk.Number))
	metricBlockOperations().ObserveWithLabels(int64(len(reqs)), nil)
	logger.Debug("packed block", "number", blk.Number, "time", blk.Time, "ops", len(reqs),
		"events", blk.EventCount, "elapsed", time.Since(startTime))
	return nil
}
