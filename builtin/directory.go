// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/builtin/solidity"
	"github.com/stakevault/stakevault/state"
	"github.com/stakevault/stakevault/vault"
)

// DirectoryAddress is where the directory of deployed contracts is stored.
var DirectoryAddress = vault.BytesToAddress([]byte("Directory"))

var (
	slotKinds = vault.BytesToBytes32([]byte("kinds"))
	slotLists = vault.BytesToBytes32([]byte("lists"))
)

// Kind is the type of a deployed contract.
type Kind uint8

const (
	KindNone Kind = iota
	KindToken
	KindRegistry
	KindPool
	KindVesting
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindToken:
		return "token"
	case KindRegistry:
		return "registry"
	case KindPool:
		return "pool"
	case KindVesting:
		return "vesting"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) Bytes() []byte {
	return []byte{byte(k)}
}

// Directory records the kind of every deployed contract.
type Directory struct {
	kinds *solidity.Mapping[vault.Address, uint8]
	lists *solidity.Mapping[Kind, []vault.Address]
}

func newDirectory(state *state.State) *Directory {
	sctx := solidity.NewContext(DirectoryAddress, state, nil)
	return &Directory{
		kinds: solidity.NewMapping[vault.Address, uint8](sctx, slotKinds),
		lists: solidity.NewMapping[Kind, []vault.Address](sctx, slotLists),
	}
}

// Register records addr as a contract of kind. An address is registered once.
func (d *Directory) Register(addr vault.Address, kind Kind) error {
	if kind == KindNone {
		return errors.New("invalid contract kind")
	}
	current, err := d.KindOf(addr)
	if err != nil {
		return err
	}
	if current != KindNone {
		return errors.Errorf("%v already registered as %v", addr, current)
	}
	if err := d.kinds.Set(addr, uint8(kind)); err != nil {
		return err
	}
	list, err := d.lists.Get(kind)
	if err != nil {
		return err
	}
	return d.lists.Set(kind, append(list, addr))
}

// KindOf returns the kind of the contract at addr, KindNone if there is none.
func (d *Directory) KindOf(addr vault.Address) (Kind, error) {
	kind, err := d.kinds.Get(addr)
	if err != nil {
		return KindNone, errors.Wrap(err, "failed to get contract kind")
	}
	return Kind(kind), nil
}

// List returns the contracts of kind in registration order.
func (d *Directory) List(kind Kind) ([]vault.Address, error) {
	return d.lists.Get(kind)
}
