// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/stakevault/stakevault/api/events"
	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/logdb"
)

type eventReader struct {
	repo     *chain.Repository
	db       *logdb.LogDB
	criteria *logdb.EventCriteria
	next     uint32
}

func newEventReader(repo *chain.Repository, db *logdb.LogDB, criteria *logdb.EventCriteria, pos uint32) *eventReader {
	return &eventReader{repo: repo, db: db, criteria: criteria, next: pos + 1}
}

func (er *eventReader) Read(ctx context.Context) ([]any, error) {
	best := er.repo.BestBlock().Number
	if er.next > best {
		return nil, nil
	}
	stored, err := er.db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{er.criteria},
		Range: &logdb.Range{
			Unit: logdb.Block,
			From: uint64(er.next),
			To:   uint64(best),
		},
	})
	if err != nil {
		return nil, err
	}
	er.next = best + 1

	msgs := make([]any, 0, len(stored))
	for _, ev := range stored {
		msgs = append(msgs, events.ConvertStored(ev))
	}
	return msgs, nil
}
