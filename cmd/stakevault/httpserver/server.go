// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver starts the HTTP listeners of the node: the vault API,
// the prometheus scrape endpoint and the admin endpoints.
package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/stakevault/stakevault/api/admin"
	"github.com/stakevault/stakevault/api/admin/health"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/metrics"
)

var logger = log.WithContext("pkg", "httpserver")

// listenAndServe binds addr and serves srv until the returned close func is
// called. The URL is the bound address followed by path.
func listenAndServe(name, addr, path string, srv *http.Server) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %v addr [%v]", name, addr)
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("server stopped", "name", name, "err", err)
			return err
		}
		return nil
	})
	closeFunc := func() {
		srv.Close()
		g.Wait()
	}
	return "http://" + listener.Addr().String() + path, closeFunc, nil
}

// newServer bounds the read time of the small admin and metrics requests.
func newServer(handler http.Handler) *http.Server {
	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
}

// StartMetricsServer exposes the prometheus registry at /metrics.
func StartMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.Path("/metrics").Methods(http.MethodGet).Handler(metrics.HTTPHandler())
	return listenAndServe("metrics", addr, "/metrics", newServer(handlers.CompressHandler(router)))
}

// StartAdminServer exposes log level, API log and health endpoints under /admin.
func StartAdminServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool, healthStatus *health.Health) (string, func(), error) {
	return listenAndServe("admin", addr, "/admin", newServer(admin.New(logLevel, apiLogs, healthStatus)))
}
