// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/stakevault/stakevault/chain"
)

type blockReader struct {
	repo *chain.Repository
	next uint32
}

func newBlockReader(repo *chain.Repository, pos uint32) *blockReader {
	return &blockReader{repo: repo, next: pos + 1}
}

func (br *blockReader) Read(_ context.Context) ([]any, error) {
	best := br.repo.BestBlock()
	var msgs []any
	for ; br.next <= best.Number; br.next++ {
		b, err := br.repo.GetBlock(br.next)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, convertBlock(b))
	}
	return msgs, nil
}
