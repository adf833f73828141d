// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/builtin"
	"github.com/stakevault/stakevault/builtin/vesting"
	"github.com/stakevault/stakevault/builtin/vesting/grant"
	"github.com/stakevault/stakevault/vault"
)

type Vesting struct {
	backend utils.Backend
}

func New(backend utils.Backend) *Vesting {
	return &Vesting{backend}
}

func lookup(env *builtin.Env, addr vault.Address) (*vesting.Vesting, error) {
	kind, err := env.Directory().KindOf(addr)
	if err != nil {
		return nil, err
	}
	if kind != builtin.KindVesting {
		return nil, utils.NotFound(errors.Errorf("vesting program %v not found", addr))
	}
	return env.Vesting(addr), nil
}

func (v *Vesting) handleGetProgram(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var out *Program
	if err := v.backend.Call(func(env *builtin.Env, _ uint64) error {
		vs, err := lookup(env, addr)
		if err != nil {
			return err
		}
		cfg, err := vs.Config()
		if err != nil {
			return err
		}
		adminAddr, err := vs.Admin()
		if err != nil {
			return err
		}
		vested, err := vs.TotalVested()
		if err != nil {
			return err
		}
		claimed, err := vs.TotalClaimed()
		if err != nil {
			return err
		}
		out = &Program{
			Address:      addr,
			Admin:        adminAddr,
			Token:        cfg.Token,
			MultiGrant:   cfg.MultiGrant,
			TotalVested:  amount(vested),
			TotalClaimed: amount(claimed),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (v *Vesting) handleGetBeneficiary(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	beneficiary, err := utils.AddressVar(req, "beneficiary")
	if err != nil {
		return err
	}
	var out *Beneficiary
	if err := v.backend.Call(func(env *builtin.Env, now uint64) error {
		vs, err := lookup(env, addr)
		if err != nil {
			return err
		}
		count, err := vs.GrantCount(beneficiary)
		if err != nil {
			return err
		}
		out = &Beneficiary{At: now, Grants: make([]*Grant, 0, count)}
		total := new(big.Int)
		for nonce := uint64(0); nonce < count; nonce++ {
			var g *grant.Grant
			if g, err = vs.Grant(beneficiary, nonce); err != nil {
				return err
			}
			converted, err := convertGrant(nonce, g, now)
			if err != nil {
				return err
			}
			total.Add(total, (*big.Int)(converted.Claimable))
			out.Grants = append(out.Grants, converted)
		}
		out.Claimable = amount(total)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (v *Vesting) handleClaim(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	var claimed *big.Int
	receipt, err := v.backend.Submit(req.Context(), func(env *builtin.Env, now uint64) error {
		vs, err := lookup(env, addr)
		if err != nil {
			return err
		}
		if body.Nonce != nil {
			claimed, err = vs.ClaimNonce(body.Beneficiary, *body.Nonce, now)
		} else {
			claimed, err = vs.Claim(body.Beneficiary, now)
		}
		return err
	})
	if err != nil {
		return err
	}
	out := convertReceipt(receipt)
	out.Amount = amount(claimed)
	return utils.WriteJSON(w, out)
}

func (v *Vesting) handleInitiate(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body InitiateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amounts, unlock, total, err := body.parse()
	if err != nil {
		return utils.BadRequest(err)
	}

	var nonces []uint64
	receipt, err := v.backend.Submit(req.Context(), func(env *builtin.Env, now uint64) error {
		vs, err := lookup(env, addr)
		if err != nil {
			return err
		}
		c, err := vs.Authorize(body.Caller)
		if err != nil {
			return err
		}
		nonces, err = vs.InitiateVests(c, body.Beneficiaries, amounts, unlock, total, body.Cliff, body.Linear, now)
		return err
	})
	if err != nil {
		return err
	}
	out := convertReceipt(receipt)
	out.Nonces = nonces
	return utils.WriteJSON(w, out)
}

func (v *Vesting) handleAdmin(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	name := mux.Vars(req)["op"]
	var body AdminRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	receipt, err := v.backend.Submit(req.Context(), func(env *builtin.Env, _ uint64) error {
		vs, err := lookup(env, addr)
		if err != nil {
			return err
		}
		c, err := vs.Authorize(body.Caller)
		if err != nil {
			return err
		}
		if name == "transferAdmin" {
			return vs.TransferAdmin(c, body.Target)
		}
		return vs.EmergencyWithdraw(c, body.Target)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (v *Vesting) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /vesting/{address}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetProgram))
	sub.Path("/{address}/claim").
		Methods(http.MethodPost).
		Name("POST /vesting/{address}/claim").
		HandlerFunc(utils.WrapHandlerFunc(v.handleClaim))
	sub.Path("/{address}/initiate").
		Methods(http.MethodPost).
		Name("POST /vesting/{address}/initiate").
		HandlerFunc(utils.WrapHandlerFunc(v.handleInitiate))
	sub.Path("/{address}/{op:transferAdmin|emergencyWithdraw}").
		Methods(http.MethodPost).
		Name("POST /vesting/{address}/{op}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleAdmin))
	sub.Path("/{address}/{beneficiary}").
		Methods(http.MethodGet).
		Name("GET /vesting/{address}/{beneficiary}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetBeneficiary))
}
