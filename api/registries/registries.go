// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registries

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/events"
	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/builtin"
	"github.com/stakevault/stakevault/builtin/registry"
	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/vault"
)

type Credential struct {
	ID     uint64        `json:"id"`
	Type   uint64        `json:"type"`
	Owner  vault.Address `json:"owner"`
	Locked bool          `json:"locked"`
}

type TransferRequest struct {
	From vault.Address `json:"from"`
	To   vault.Address `json:"to"`
	ID   uint64        `json:"id"`
}

type TransferResponse struct {
	BlockNumber uint32          `json:"blockNumber"`
	BlockTime   uint64          `json:"blockTime"`
	Events      []*events.Event `json:"events"`
}

type Registries struct {
	backend utils.Backend
}

func New(backend utils.Backend) *Registries {
	return &Registries{backend}
}

func lookup(env *builtin.Env, addr vault.Address) (*registry.Registry, error) {
	kind, err := env.Directory().KindOf(addr)
	if err != nil {
		return nil, err
	}
	if kind != builtin.KindRegistry {
		return nil, utils.NotFound(errors.Errorf("registry %v not found", addr))
	}
	return env.Registry(addr), nil
}

func (r *Registries) handleGetCredential(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	var out *Credential
	if err := r.backend.Call(func(env *builtin.Env, _ uint64) error {
		reg, err := lookup(env, addr)
		if err != nil {
			return err
		}
		c, err := reg.Credential(id)
		if errors.Is(err, reverts.ErrInvalidToken) {
			return utils.NotFound(errors.Errorf("credential %d not found", id))
		}
		if err != nil {
			return err
		}
		out = &Credential{ID: id, Type: c.TypeID, Owner: c.Owner, Locked: c.IsLocked()}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (r *Registries) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := r.backend.Submit(req.Context(), func(env *builtin.Env, _ uint64) error {
		reg, err := lookup(env, addr)
		if err != nil {
			return err
		}
		return reg.Transfer(body.From, body.To, body.ID)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &TransferResponse{
		BlockNumber: receipt.BlockNumber,
		BlockTime:   receipt.BlockTime,
		Events:      events.ConvertAll(receipt.Events),
	})
}

func (r *Registries) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/credentials/{id}").
		Methods(http.MethodGet).
		Name("GET /registries/{address}/credentials/{id}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetCredential))
	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("POST /registries/{address}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(r.handleTransfer))
}
