// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/stakevault/stakevault/vault"
)

// Block is the header of a committed block. Blocks only carry the canonical
// clock and a digest of the state changes and events they committed.
type Block struct {
	Number     uint32
	Time       uint64
	ParentID   vault.Bytes32
	StagedHash vault.Bytes32
	EventCount uint32
}

// ID returns the hash of the rlp encoded block.
func (b *Block) ID() vault.Bytes32 {
	data, err := rlp.EncodeToBytes(b)
	if err != nil {
		panic(err)
	}
	return vault.Blake2b(data)
}

func (b *Block) String() string {
	return fmt.Sprintf("Block(#%d %v time=%d events=%d)", b.Number, b.ID(), b.Time, b.EventCount)
}
