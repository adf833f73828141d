// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/vault"
)

type EventMeta struct {
	BlockNumber uint32 `json:"blockNumber"`
	BlockTime   uint64 `json:"blockTime"`
	Index       uint32 `json:"index"`
}

type Event struct {
	Address vault.Address         `json:"address"`
	Name    string                `json:"name"`
	Account vault.Address         `json:"account"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
	Detail  map[string]string     `json:"detail,omitempty"`
	Meta    *EventMeta            `json:"meta,omitempty"`
}

func amountOf(x *big.Int) *math.HexOrDecimal256 {
	if x == nil {
		x = new(big.Int)
	}
	return (*math.HexOrDecimal256)(x)
}

// Convert converts an event emitted in the current block.
func Convert(ev *vault.Event) *Event {
	return &Event{
		Address: ev.Address,
		Name:    ev.Name,
		Account: ev.Account,
		Amount:  amountOf(ev.Amount),
		Detail:  ev.Detail,
	}
}

// ConvertAll converts a receipt's events.
func ConvertAll(evs []*vault.Event) []*Event {
	out := make([]*Event, 0, len(evs))
	for _, ev := range evs {
		out = append(out, Convert(ev))
	}
	return out
}

// ConvertStored converts an event read back from the log db.
func ConvertStored(ev *logdb.Event) *Event {
	return &Event{
		Address: ev.Address,
		Name:    ev.Name,
		Account: ev.Account,
		Amount:  amountOf(ev.Amount),
		Detail:  ev.Detail,
		Meta: &EventMeta{
			BlockNumber: ev.BlockNumber,
			BlockTime:   ev.BlockTime,
			Index:       ev.Index,
		},
	}
}

type Range struct {
	Unit string  `json:"unit"`
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Address *vault.Address `json:"address"`
	Account *vault.Address `json:"account"`
	Name    *string        `json:"name"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func convertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	out := &logdb.Range{From: 0, To: 1<<63 - 1}
	switch logdb.RangeType(r.Unit) {
	case logdb.Block:
		out.Unit = logdb.Block
		out.To = uint64(^uint32(0))
	case logdb.Time:
		out.Unit = logdb.Time
	default:
		return nil, errors.Errorf("unknown range unit %q", r.Unit)
	}
	if r.From != nil {
		out.From = *r.From
	}
	if r.To != nil {
		out.To = *r.To
	}
	if out.To > 1<<63-1 {
		out.To = 1<<63 - 1
	}
	if out.From > out.To {
		return nil, errors.New("range from exceeds to")
	}
	return out, nil
}

func convertFilter(filter *EventFilter) (*logdb.EventFilter, error) {
	rng, err := convertRange(filter.Range)
	if err != nil {
		return nil, err
	}
	switch filter.Order {
	case "", logdb.ASC, logdb.DESC:
	default:
		return nil, errors.Errorf("unknown order %q", filter.Order)
	}
	f := &logdb.EventFilter{
		Range: rng,
		Order: filter.Order,
	}
	if filter.Options != nil {
		f.Options = &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  filter.Options.Limit,
		}
	}
	for i, c := range filter.CriteriaSet {
		if c == nil {
			return nil, errors.Errorf("criteriaSet[%d]: null not allowed", i)
		}
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Account: c.Account,
			Name:    c.Name,
		})
	}
	return f, nil
}
