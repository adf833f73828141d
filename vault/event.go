// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
)

// Event is emitted by a built-in contract on a successful state change.
type Event struct {
	Address Address
	Name    string
	Account Address
	Amount  *big.Int
	// Detail carries extra key/value pairs, encoded as JSON by the event log.
	Detail map[string]string
}
