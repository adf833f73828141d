// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/runtime"
	"github.com/stakevault/stakevault/vault"
)

// Backend runs operations on behalf of API callers.
type Backend interface {
	// Submit queues op for the next block and waits until it is packed.
	Submit(ctx context.Context, op runtime.Operation) (*runtime.Receipt, error)
	// Call runs op on the best state and discards its changes.
	Call(op runtime.Operation) error
}

// BestBlock returns the block reads are served at.
type BestBlock interface {
	BestBlock() *chain.Block
}

// AddressVar parses the address in the route variable name.
func AddressVar(r *http.Request, name string) (vault.Address, error) {
	addr, err := vault.ParseAddress(mux.Vars(r)[name])
	if err != nil {
		return vault.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}
