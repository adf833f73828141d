// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the contracts over HTTP. Reads run against the best
// block, writes are queued for the next block and answered once it is packed.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/stakevault/stakevault/api/blocks"
	"github.com/stakevault/stakevault/api/debug"
	"github.com/stakevault/stakevault/api/events"
	"github.com/stakevault/stakevault/api/middleware"
	"github.com/stakevault/stakevault/api/pools"
	"github.com/stakevault/stakevault/api/registries"
	"github.com/stakevault/stakevault/api/subscriptions"
	"github.com/stakevault/stakevault/api/tokens"
	"github.com/stakevault/stakevault/api/utils"
	"github.com/stakevault/stakevault/api/vesting"
	"github.com/stakevault/stakevault/chain"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/logdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins string
	PprofOn        bool
	SkipLogs       bool
	EnableMetrics  bool
	LogsLimit      uint64
	// BacktraceLimit bounds how far behind the best block a subscription may start.
	BacktraceLimit uint32
	// EnableReqLogger toggles request logging at runtime.
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
}

// New return api router and a func closing the open subscriptions.
func New(
	repo *chain.Repository,
	backend utils.Backend,
	logDB *logdb.LogDB,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pools.New(backend).
		Mount(router, "/pools")
	vesting.New(backend).
		Mount(router, "/vesting")
	tokens.New(backend).
		Mount(router, "/tokens")
	registries.New(backend).
		Mount(router, "/registries")
	blocks.New(repo).
		Mount(router, "/block")
	debug.New(backend).
		Mount(router, "/debug")
	if opts.SkipLogs {
		logDB = nil
	}
	if logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/events")
	}
	subs := subscriptions.New(repo, origins, opts.BacktraceLimit, logDB)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	if opts.EnableReqLogger != nil {
		router.Use(middleware.LogRequests(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP, subs.Close
}
