// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/vault"
)

type Block struct {
	Number     uint32        `json:"number"`
	ID         vault.Bytes32 `json:"id"`
	ParentID   vault.Bytes32 `json:"parentID"`
	Timestamp  uint64        `json:"timestamp"`
	StagedHash vault.Bytes32 `json:"stagedHash"`
	EventCount uint32        `json:"eventCount"`
}

func convertBlock(b *chain.Block) *Block {
	return &Block{
		Number:     b.Number,
		ID:         b.ID(),
		ParentID:   b.ParentID,
		Timestamp:  b.Time,
		StagedHash: b.StagedHash,
		EventCount: b.EventCount,
	}
}

type Blocks struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Blocks {
	return &Blocks{repo}
}

func (b *Blocks) handleGetBest(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, convertBlock(b.repo.BestBlock()))
}

func (b *Blocks) handleGetBlock(w http.ResponseWriter, req *http.Request) error {
	revision := mux.Vars(req)["revision"]
	if revision == "best" {
		return b.handleGetBest(w, req)
	}
	n, err := strconv.ParseUint(revision, 0, 32)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "revision"))
	}
	if n > uint64(b.repo.BestBlock().Number) {
		return utils.WriteJSON(w, nil)
	}
	blk, err := b.repo.GetBlock(uint32(n))
	if err != nil {
		if b.repo.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	return utils.WriteJSON(w, convertBlock(blk))
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /block").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBest))
	sub.Path("/{revision}").
		Methods(http.MethodGet).
		Name("GET /block/{revision}").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBlock))
}
