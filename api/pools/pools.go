// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/builtin"
	"github.com/stakevault/stakevault/builtin/admin"
	"github.com/stakevault/stakevault/builtin/pool"
	"github.com/stakevault/stakevault/vault"
)

type Pools struct {
	backend utils.Backend
}

func New(backend utils.Backend) *Pools {
	return &Pools{backend}
}

// execution of a parsed pool operation, it returns the reward paid if any
type execution func(p *pool.Pool, now uint64) (*big.Int, error)

type builder func(req *OpRequest) (execution, error)

// authorized runs f with the capability of the caller.
func authorized(req *OpRequest, f func(p *pool.Pool, c *admin.Capability, now uint64) error) execution {
	return func(p *pool.Pool, now uint64) (*big.Int, error) {
		c, err := p.Authorize(req.Caller)
		if err != nil {
			return nil, err
		}
		return nil, f(p, c, now)
	}
}

func withAmount(f func(p *pool.Pool, c *admin.Capability, x *big.Int, now uint64) error) builder {
	return func(req *OpRequest) (execution, error) {
		x, err := req.amount()
		if err != nil {
			return nil, err
		}
		return authorized(req, func(p *pool.Pool, c *admin.Capability, now uint64) error {
			return f(p, c, x, now)
		}), nil
	}
}

func withSeconds(f func(p *pool.Pool, c *admin.Capability, s, now uint64) error) builder {
	return func(req *OpRequest) (execution, error) {
		s, err := req.seconds()
		if err != nil {
			return nil, err
		}
		return authorized(req, func(p *pool.Pool, c *admin.Capability, now uint64) error {
			return f(p, c, s, now)
		}), nil
	}
}

func withFlag(f func(p *pool.Pool, c *admin.Capability, b bool, now uint64) error) builder {
	return func(req *OpRequest) (execution, error) {
		b, err := req.enabled()
		if err != nil {
			return nil, err
		}
		return authorized(req, func(p *pool.Pool, c *admin.Capability, now uint64) error {
			return f(p, c, b, now)
		}), nil
	}
}

func withTarget(f func(p *pool.Pool, c *admin.Capability, addr vault.Address, now uint64) error) builder {
	return func(req *OpRequest) (execution, error) {
		addr, err := req.target()
		if err != nil {
			return nil, err
		}
		return authorized(req, func(p *pool.Pool, c *admin.Capability, now uint64) error {
			return f(p, c, addr, now)
		}), nil
	}
}

var builders = map[string]builder{
	"deposit": func(req *OpRequest) (execution, error) {
		amount, err := req.amount()
		if err != nil {
			return nil, err
		}
		return func(p *pool.Pool, now uint64) (*big.Int, error) {
			return nil, p.Deposit(req.Caller, amount, req.Credential, now)
		}, nil
	},
	"requestUnstake": func(req *OpRequest) (execution, error) {
		return func(p *pool.Pool, now uint64) (*big.Int, error) {
			return nil, p.RequestUnstake(req.Caller, now)
		}, nil
	},
	"unstake": func(req *OpRequest) (execution, error) {
		amount, err := req.amount()
		if err != nil {
			return nil, err
		}
		return func(p *pool.Pool, now uint64) (*big.Int, error) {
			return p.Unstake(req.Caller, amount, now)
		}, nil
	},
	"requestClaim": func(req *OpRequest) (execution, error) {
		return func(p *pool.Pool, now uint64) (*big.Int, error) {
			return nil, p.RequestClaim(req.Caller, now)
		}, nil
	},
	"claim": func(req *OpRequest) (execution, error) {
		return func(p *pool.Pool, now uint64) (*big.Int, error) {
			return p.Claim(req.Caller, now)
		}, nil
	},
	"setRewardRate": withAmount(func(p *pool.Pool, c *admin.Capability, x *big.Int, now uint64) error {
		return p.SetRewardRate(c, x, now)
	}),
	"setMaxStakedAmount": withAmount(func(p *pool.Pool, c *admin.Capability, x *big.Int, now uint64) error {
		return p.SetMaxStakedAmount(c, x, now)
	}),
	"setMaxPerAccount": withAmount(func(p *pool.Pool, c *admin.Capability, x *big.Int, now uint64) error {
		return p.SetMaxPerAccount(c, x, now)
	}),
	"setPoolDuration": withSeconds(func(p *pool.Pool, c *admin.Capability, s, now uint64) error {
		return p.SetPoolDuration(c, s, now)
	}),
	"setStartTime": withSeconds(func(p *pool.Pool, c *admin.Capability, s, now uint64) error {
		return p.SetStartTime(c, s, now)
	}),
	"setCooldownSeconds": withSeconds(func(p *pool.Pool, c *admin.Capability, s, now uint64) error {
		return p.SetCooldownSeconds(c, s, now)
	}),
	"setClampAccrual": withFlag(func(p *pool.Pool, c *admin.Capability, b bool, now uint64) error {
		return p.SetClampAccrual(c, b, now)
	}),
	"setPayRewardOnUnstake": withFlag(func(p *pool.Pool, c *admin.Capability, b bool, now uint64) error {
		return p.SetPayRewardOnUnstake(c, b, now)
	}),
	"setStakeToken": withTarget(func(p *pool.Pool, c *admin.Capability, addr vault.Address, now uint64) error {
		return p.SetStakeToken(c, addr, now)
	}),
	"setRewardToken": withTarget(func(p *pool.Pool, c *admin.Capability, addr vault.Address, now uint64) error {
		return p.SetRewardToken(c, addr, now)
	}),
	"transferAdmin": withTarget(func(p *pool.Pool, c *admin.Capability, addr vault.Address, _ uint64) error {
		return p.TransferAdmin(c, addr)
	}),
	"emergencyWithdraw": withTarget(func(p *pool.Pool, c *admin.Capability, addr vault.Address, _ uint64) error {
		return p.EmergencyWithdraw(c, addr)
	}),
	"setTierLimit": func(req *OpRequest) (execution, error) {
		typeID, err := req.typeID()
		if err != nil {
			return nil, err
		}
		limit, err := req.amount()
		if err != nil {
			return nil, err
		}
		return authorized(req, func(p *pool.Pool, c *admin.Capability, _ uint64) error {
			return p.SetTierLimit(c, typeID, limit)
		}), nil
	},
}

// lookup returns the pool at addr, failing with not found for any other contract.
func lookup(env *builtin.Env, addr vault.Address) (*pool.Pool, error) {
	kind, err := env.Directory().KindOf(addr)
	if err != nil {
		return nil, err
	}
	if kind != builtin.KindPool {
		return nil, utils.NotFound(errors.Errorf("pool %v not found", addr))
	}
	return env.Pool(addr), nil
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var out *Pool
	if err := p.backend.Call(func(env *builtin.Env, _ uint64) error {
		pl, err := lookup(env, addr)
		if err != nil {
			return err
		}
		cfg, err := pl.Config()
		if err != nil {
			return err
		}
		adminAddr, err := pl.Admin()
		if err != nil {
			return err
		}
		total, err := pl.TotalStaked()
		if err != nil {
			return err
		}
		stakers, err := pl.Stakers()
		if err != nil {
			return err
		}
		out = convertPool(addr, adminAddr, cfg, total, stakers)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	var out *Position
	if err := p.backend.Call(func(env *builtin.Env, now uint64) error {
		pl, err := lookup(env, addr)
		if err != nil {
			return err
		}
		cfg, err := pl.Config()
		if err != nil {
			return err
		}
		pos, err := pl.Position(account)
		if err != nil {
			return err
		}
		pending, err := pl.PendingRewards(account, now)
		if err != nil {
			return err
		}
		out = convertPosition(pos, pending, cfg.CooldownSeconds, now)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetTier(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	typeID, err := strconv.ParseUint(mux.Vars(req)["type"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "type"))
	}
	var out *Tier
	if err := p.backend.Call(func(env *builtin.Env, _ uint64) error {
		pl, err := lookup(env, addr)
		if err != nil {
			return err
		}
		limit, err := pl.TierLimit(typeID)
		if err != nil {
			return err
		}
		staked, err := pl.TierStaked(typeID)
		if err != nil {
			return err
		}
		out = &Tier{TypeID: typeID, Limit: amount(limit), Staked: amount(staked)}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleOp(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	name := mux.Vars(req)["op"]
	build, ok := builders[name]
	if !ok {
		return utils.NotFound(errors.Errorf("unknown operation %q", name))
	}
	var body OpRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	exec, err := build(&body)
	if err != nil {
		return utils.BadRequest(err)
	}

	var reward *big.Int
	receipt, err := p.backend.Submit(req.Context(), func(env *builtin.Env, now uint64) error {
		pl, err := lookup(env, addr)
		if err != nil {
			return err
		}
		reward, err = exec(pl, now)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertReceipt(receipt, reward))
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /pools/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{address}/positions/{account}").
		Methods(http.MethodGet).
		Name("GET /pools/{address}/positions/{account}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPosition))
	sub.Path("/{address}/tiers/{type}").
		Methods(http.MethodGet).
		Name("GET /pools/{address}/tiers/{type}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetTier))
	sub.Path("/{address}/{op}").
		Methods(http.MethodPost).
		Name("POST /pools/{address}/{op}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleOp))
}
