// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/vault"
)

// BlockMessage is pushed for every block packed after the subscription position.
type BlockMessage struct {
	Number     uint32        `json:"number"`
	ID         vault.Bytes32 `json:"id"`
	ParentID   vault.Bytes32 `json:"parentID"`
	Timestamp  uint64        `json:"timestamp"`
	EventCount uint32        `json:"eventCount"`
}

func convertBlock(b *chain.Block) *BlockMessage {
	return &BlockMessage{
		Number:     b.Number,
		ID:         b.ID(),
		ParentID:   b.ParentID,
		Timestamp:  b.Time,
		EventCount: b.EventCount,
	}
}
