// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry implements the non-fungible ownership registry holding the
// credentials that gate staking pools. Every credential carries a type id, and
// a credential staked in a pool is locked by that pool until it is released.
package registry

import (
	"encoding/binary"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/reverts"
	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

var (
	logger = log.WithContext("pkg", "registry")

	slotCredentials = vault.BytesToBytes32([]byte("credentials"))
	slotBalances    = vault.BytesToBytes32([]byte("balances"))
	slotSupply      = vault.BytesToBytes32([]byte("supply"))

	bigOne = big.NewInt(1)
)

type tokenKey uint64

func (k tokenKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

func idString(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// Credential is the stored record of a minted token.
type Credential struct {
	Owner  vault.Address
	TypeID uint64
	// Locker is the contract holding the lock, zero if unlocked.
	Locker vault.Address
}

// IsEmpty reports whether the credential was never minted.
func (c *Credential) IsEmpty() bool {
	return c.Owner.IsZero()
}

func (c *Credential) IsLocked() bool {
	return !c.Locker.IsZero()
}

type Registry struct {
	sctx        *solidity.Context
	credentials *solidity.Mapping[tokenKey, *Credential]
	balances    *solidity.Mapping[vault.Address, uint64]
	supply      *solidity.Uint256
}

// New create a new instance.
func New(addr vault.Address, state *state.State, emitter solidity.EmitFunc) *Registry {
	sctx := solidity.NewContext(addr, state, emitter)
	return &Registry{
		sctx:        sctx,
		credentials: solidity.NewMapping[tokenKey, *Credential](sctx, slotCredentials),
		balances:    solidity.NewMapping[vault.Address, uint64](sctx, slotBalances),
		supply:      solidity.NewUint256(sctx, slotSupply),
	}
}

func (r *Registry) Address() vault.Address {
	return r.sctx.Address()
}

func (r *Registry) get(id uint64) (*Credential, error) {
	c, err := r.credentials.Get(tokenKey(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get credential")
	}
	return c, nil
}

func (r *Registry) getExisting(id uint64) (*Credential, error) {
	c, err := r.get(id)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, reverts.ErrInvalidToken
	}
	return c, nil
}

// Credential returns the record of id.
func (r *Registry) Credential(id uint64) (*Credential, error) {
	return r.getExisting(id)
}

// TotalSupply returns the number of minted credentials.
func (r *Registry) TotalSupply() (uint64, error) {
	supply, err := r.supply.Get()
	if err != nil {
		return 0, err
	}
	return supply.Uint64(), nil
}

// Mint creates credential id of the given type, owned by to.
func (r *Registry) Mint(to vault.Address, id uint64, typeID uint64) error {
	if to.IsZero() {
		return reverts.ErrInvalidBeneficiary
	}
	c, err := r.get(id)
	if err != nil {
		return err
	}
	if !c.IsEmpty() {
		return reverts.ErrInvalidToken
	}
	if err := r.credentials.Set(tokenKey(id), &Credential{Owner: to, TypeID: typeID}); err != nil {
		return err
	}
	if err := r.addBalance(to, 1); err != nil {
		return err
	}
	if err := r.supply.Add(bigOne); err != nil {
		return err
	}
	r.sctx.Emit("CredentialMinted", to, nil, "tokenId", idString(id), "type", strconv.FormatUint(typeID, 10))
	return nil
}

func (r *Registry) addBalance(addr vault.Address, delta int) error {
	bal, err := r.balances.Get(addr)
	if err != nil {
		return err
	}
	if delta < 0 {
		bal--
	} else {
		bal++
	}
	return r.balances.Set(addr, bal)
}

func (r *Registry) OwnerOf(id uint64) (vault.Address, error) {
	c, err := r.getExisting(id)
	if err != nil {
		return vault.Address{}, err
	}
	return c.Owner, nil
}

func (r *Registry) BalanceOf(owner vault.Address) (uint64, error) {
	return r.balances.Get(owner)
}

func (r *Registry) TypeOf(id uint64) (uint64, error) {
	c, err := r.getExisting(id)
	if err != nil {
		return 0, err
	}
	return c.TypeID, nil
}

func (r *Registry) IsOfType(id uint64, typeID uint64) (bool, error) {
	c, err := r.get(id)
	if err != nil {
		return false, err
	}
	return !c.IsEmpty() && c.TypeID == typeID, nil
}

func (r *Registry) IsLocked(id uint64) (bool, error) {
	c, err := r.getExisting(id)
	if err != nil {
		return false, err
	}
	return c.IsLocked(), nil
}

// Transfer moves id from its owner to another account. Locked credentials cannot move.
func (r *Registry) Transfer(from, to vault.Address, id uint64) error {
	c, err := r.getExisting(id)
	if err != nil {
		return err
	}
	if c.Owner != from {
		return reverts.ErrUnauthorized
	}
	if c.IsLocked() {
		logger.Debug("transfer of locked credential rejected", "id", id, "locker", c.Locker)
		return reverts.ErrCredentialLocked
	}
	if to.IsZero() {
		return reverts.ErrInvalidBeneficiary
	}
	if from == to {
		return nil
	}
	c.Owner = to
	if err := r.credentials.Set(tokenKey(id), c); err != nil {
		return err
	}
	if err := r.addBalance(from, -1); err != nil {
		return err
	}
	if err := r.addBalance(to, 1); err != nil {
		return err
	}
	r.sctx.Emit("CredentialTransferred", from, nil, "tokenId", idString(id), "to", to.String())
	return nil
}

// Lock pins id, owned by holder, to locker until locker releases it.
func (r *Registry) Lock(locker, holder vault.Address, id uint64) error {
	c, err := r.getExisting(id)
	if err != nil {
		return err
	}
	if c.Owner != holder {
		return reverts.ErrNotEligible
	}
	if c.IsLocked() {
		return reverts.ErrCredentialLocked
	}
	c.Locker = locker
	if err := r.credentials.Set(tokenKey(id), c); err != nil {
		return err
	}
	r.sctx.Emit("CredentialLocked", holder, nil, "tokenId", idString(id), "locker", locker.String())
	return nil
}

// Unlock releases the lock held by locker.
func (r *Registry) Unlock(locker vault.Address, id uint64) error {
	c, err := r.getExisting(id)
	if err != nil {
		return err
	}
	if c.Locker != locker {
		return reverts.ErrUnauthorized
	}
	c.Locker = vault.Address{}
	if err := r.credentials.Set(tokenKey(id), c); err != nil {
		return err
	}
	r.sctx.Emit("CredentialUnlocked", c.Owner, nil, "tokenId", idString(id), "locker", locker.String())
	return nil
}
