// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams new blocks and events over websocket.
package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/vault"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	defaultPingInterval = 10 * time.Second
	writeWait           = 10 * time.Second
)

type msgReader interface {
	Read(ctx context.Context) ([]any, error)
}

type Subscriptions struct {
	backtraceLimit uint32
	repo           *chain.Repository
	logDB          *logdb.LogDB
	upgrader       *websocket.Upgrader
	pingInterval   time.Duration
	done           chan struct{}
	wg             sync.WaitGroup
}

// New creates the subscriptions API. logDB may be nil, the event subject is
// then unavailable.
func New(repo *chain.Repository, allowedOrigins []string, backtraceLimit uint32, logDB *logdb.LogDB) *Subscriptions {
	return &Subscriptions{
		backtraceLimit: backtraceLimit,
		repo:           repo,
		logDB:          logDB,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == strings.ToLower(origin) {
						return true
					}
				}
				return false
			},
		},
		pingInterval: defaultPingInterval,
		done:         make(chan struct{}),
	}
}

func (s *Subscriptions) parsePosition(req *http.Request) (uint32, error) {
	best := s.repo.BestBlock().Number
	str := req.URL.Query().Get("pos")
	if str == "" {
		return best, nil
	}
	pos, err := strconv.ParseUint(str, 0, 32)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if uint32(pos) > best {
		return 0, utils.BadRequest(errors.New("pos: beyond best block"))
	}
	if best-uint32(pos) > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return uint32(pos), nil
}

func (s *Subscriptions) parseCriteria(req *http.Request) (*logdb.EventCriteria, error) {
	var criteria logdb.EventCriteria
	query := req.URL.Query()
	for name, field := range map[string]**vault.Address{
		"address": &criteria.Address,
		"account": &criteria.Account,
	} {
		if str := query.Get(name); str != "" {
			addr, err := vault.ParseAddress(str)
			if err != nil {
				return nil, utils.BadRequest(errors.WithMessage(err, name))
			}
			*field = addr
		}
	}
	if name := query.Get("name"); name != "" {
		criteria.Name = &name
	}
	return &criteria, nil
}

func (s *Subscriptions) newReader(req *http.Request) (msgReader, error) {
	subject := mux.Vars(req)["subject"]
	if subject != "block" && subject != "event" {
		return nil, utils.NotFound(errors.Errorf("subject: unknown %q", subject))
	}
	if subject == "event" && s.logDB == nil {
		return nil, utils.NotFound(errors.New("subject: event logs disabled"))
	}

	pos, err := s.parsePosition(req)
	if err != nil {
		return nil, err
	}
	if subject == "block" {
		return newBlockReader(s.repo, pos), nil
	}
	criteria, err := s.parseCriteria(req)
	if err != nil {
		return nil, err
	}
	return newEventReader(s.repo, s.logDB, criteria, pos), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	reader, err := s.newReader(req)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied already
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(s.pingInterval * 2))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(s.pingInterval * 2))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.pipe(req.Context(), conn, reader, closed); err != nil {
		logger.Debug("subscription ended", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader msgReader, closed <-chan struct{}) error {
	ticker := s.repo.NewTicker()
	ping := time.NewTicker(s.pingInterval)
	defer ping.Stop()

	for {
		msgs, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker:
			ticker = s.repo.NewTicker()
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close ends every open subscription and waits for the handlers to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
