// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package debug

import (
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/builtin"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Debug dumps raw contract storage for troubleshooting.
type Debug struct {
	backend utils.Backend
}

func New(backend utils.Backend) *Debug {
	return &Debug{backend}
}

func writeDump(w http.ResponseWriter, values ...any) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := w.Write([]byte(dumper.Sdump(values...)))
	return err
}

func (d *Debug) handleDumpPosition(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "pool")
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	var values []any
	if err := d.backend.Call(func(env *builtin.Env, _ uint64) error {
		kind, err := env.Directory().KindOf(addr)
		if err != nil {
			return err
		}
		if kind != builtin.KindPool {
			return utils.NotFound(errors.Errorf("pool %v not found", addr))
		}
		pl := env.Pool(addr)
		pos, err := pl.Position(account)
		if err != nil {
			return err
		}
		cfg, err := pl.Config()
		if err != nil {
			return err
		}
		values = append(values, pos, cfg)
		return nil
	}); err != nil {
		return err
	}
	return writeDump(w, values...)
}

func (d *Debug) handleDumpGrants(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "vesting")
	if err != nil {
		return err
	}
	beneficiary, err := utils.AddressVar(req, "beneficiary")
	if err != nil {
		return err
	}
	var values []any
	if err := d.backend.Call(func(env *builtin.Env, _ uint64) error {
		kind, err := env.Directory().KindOf(addr)
		if err != nil {
			return err
		}
		if kind != builtin.KindVesting {
			return utils.NotFound(errors.Errorf("vesting program %v not found", addr))
		}
		vs := env.Vesting(addr)
		count, err := vs.GrantCount(beneficiary)
		if err != nil {
			return err
		}
		for nonce := uint64(0); nonce < count; nonce++ {
			g, err := vs.Grant(beneficiary, nonce)
			if err != nil {
				return err
			}
			values = append(values, g)
		}
		return nil
	}); err != nil {
		return err
	}
	return writeDump(w, values...)
}

func (d *Debug) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/positions/{pool}/{account}").
		Methods(http.MethodGet).
		Name("GET /debug/positions/{pool}/{account}").
		HandlerFunc(utils.WrapHandlerFunc(d.handleDumpPosition))
	sub.Path("/grants/{vesting}/{beneficiary}").
		Methods(http.MethodGet).
		Name("GET /debug/grants/{vesting}/{beneficiary}").
		HandlerFunc(utils.WrapHandlerFunc(d.handleDumpGrants))
}
