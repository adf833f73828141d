// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/vault"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

// Filter query events with option
func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*Event, error) {
	filter, err := convertFilter(ef)
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	events, err := e.db.FilterEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*Event, len(events))
	for i, ev := range events {
		out[i] = ConvertStored(ev)
	}
	return out, nil
}

func (e *Events) serve(w http.ResponseWriter, req *http.Request, filter *EventFilter) error {
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Options == nil {
		// one over the limit, to detect a result larger than the limit
		filter.Options = &Options{
			Offset: 0,
			Limit:  e.limit + 1,
		}
	}

	evs, err := e.filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if len(evs) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, evs)
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return e.serve(w, req, &filter)
}

func parseUintQuery(req *http.Request, name string) (*uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return &v, nil
}

func parseAddressQuery(req *http.Request, name string) (*vault.Address, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := vault.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// handleQuery serves a single criteria filter given as query parameters.
func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	var (
		criteria EventCriteria
		filter   EventFilter
		err      error
	)
	query := req.URL.Query()
	if criteria.Address, err = parseAddressQuery(req, "address"); err != nil {
		return err
	}
	if criteria.Account, err = parseAddressQuery(req, "account"); err != nil {
		return err
	}
	if name := query.Get("name"); name != "" {
		criteria.Name = &name
	}
	filter.CriteriaSet = []*EventCriteria{&criteria}

	from, err := parseUintQuery(req, "from")
	if err != nil {
		return err
	}
	to, err := parseUintQuery(req, "to")
	if err != nil {
		return err
	}
	if from != nil || to != nil {
		unit := query.Get("unit")
		if unit == "" {
			unit = string(logdb.Block)
		}
		filter.Range = &Range{Unit: unit, From: from, To: to}
	}

	offset, err := parseUintQuery(req, "offset")
	if err != nil {
		return err
	}
	limit, err := parseUintQuery(req, "limit")
	if err != nil {
		return err
	}
	if offset != nil || limit != nil {
		filter.Options = &Options{Limit: e.limit}
		if offset != nil {
			filter.Options.Offset = *offset
		}
		if limit != nil {
			filter.Options.Limit = *limit
		}
	}
	filter.Order = logdb.Order(query.Get("order"))
	return e.serve(w, req, &filter)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
