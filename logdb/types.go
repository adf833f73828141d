// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/stakevault/stakevault/vault"
)

// Event is a contract event as stored in db.
type Event struct {
	BlockNumber uint32
	Index       uint32
	BlockTime   uint64
	Address     vault.Address // always a contract address
	Name        string
	Account     vault.Address
	Amount      *big.Int
	Detail      map[string]string
}

func newEvent(number uint32, time uint64, index uint32, ev *vault.Event) *Event {
	return &Event{
		BlockNumber: number,
		Index:       index,
		BlockTime:   time,
		Address:     ev.Address,
		Name:        ev.Name,
		Account:     ev.Account,
		Amount:      ev.Amount,
		Detail:      ev.Detail,
	}
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events on every non nil field.
type EventCriteria struct {
	Address *vault.Address
	Account *vault.Address
	Name    *string
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
