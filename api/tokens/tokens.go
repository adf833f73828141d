// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/events"
	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/builtin"
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/vault"
)

type Token struct {
	Address     vault.Address         `json:"address"`
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	Decimals    uint8                 `json:"decimals"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type Balance struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

// OpRequest moves Amount from From to To, or approves To to spend Amount
// out of From's balance.
type OpRequest struct {
	From   vault.Address         `json:"from"`
	To     vault.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type OpResponse struct {
	BlockNumber uint32          `json:"blockNumber"`
	BlockTime   uint64          `json:"blockTime"`
	Events      []*events.Event `json:"events"`
}

type Tokens struct {
	backend utils.Backend
}

func New(backend utils.Backend) *Tokens {
	return &Tokens{backend}
}

func lookup(env *builtin.Env, addr vault.Address) (*token.Token, error) {
	kind, err := env.Directory().KindOf(addr)
	if err != nil {
		return nil, err
	}
	if kind != builtin.KindToken {
		return nil, utils.NotFound(errors.Errorf("token %v not found", addr))
	}
	return env.Token(addr), nil
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var out *Token
	if err := t.backend.Call(func(env *builtin.Env, _ uint64) error {
		tk, err := lookup(env, addr)
		if err != nil {
			return err
		}
		meta, err := tk.Metadata()
		if err != nil {
			return err
		}
		supply, err := tk.TotalSupply()
		if err != nil {
			return err
		}
		out = &Token{
			Address:     addr,
			Name:        meta.Name,
			Symbol:      meta.Symbol,
			Decimals:    meta.Decimals,
			TotalSupply: (*math.HexOrDecimal256)(supply),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	var bal *big.Int
	if err := t.backend.Call(func(env *builtin.Env, _ uint64) error {
		tk, err := lookup(env, addr)
		if err != nil {
			return err
		}
		bal, err = tk.BalanceOf(account)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{(*math.HexOrDecimal256)(bal)})
}

func (t *Tokens) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	spender, err := utils.AddressVar(req, "spender")
	if err != nil {
		return err
	}
	var allowance *big.Int
	if err := t.backend.Call(func(env *builtin.Env, _ uint64) error {
		tk, err := lookup(env, addr)
		if err != nil {
			return err
		}
		allowance, err = tk.Allowance(owner, spender)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{(*math.HexOrDecimal256)(allowance)})
}

func (t *Tokens) handleOp(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	op := mux.Vars(req)["op"]
	var body OpRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	amount := new(big.Int).Set((*big.Int)(body.Amount))

	receipt, err := t.backend.Submit(req.Context(), func(env *builtin.Env, _ uint64) error {
		tk, err := lookup(env, addr)
		if err != nil {
			return err
		}
		if op == "approve" {
			return tk.Approve(body.From, body.To, amount)
		}
		return tk.Transfer(body.From, body.To, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &OpResponse{
		BlockNumber: receipt.BlockNumber,
		BlockTime:   receipt.BlockTime,
		Events:      events.ConvertAll(receipt.Events),
	})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{address}/balances/{account}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/balances/{account}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{address}/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/allowances/{owner}/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))
	sub.Path("/{address}/{op:transfer|approve}").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/{op}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleOp))
}
