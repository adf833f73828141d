// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package middleware holds the API request logger.
package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/stakevault/stakevault/log"
)

// maxLoggedBody bounds the part of an operation body copied into the log.
const maxLoggedBody = 1024

// capped keeps the first maxLoggedBody bytes written to it.
type capped struct {
	bytes.Buffer
}

func (c *capped) Write(p []byte) (int, error) {
	if room := maxLoggedBody - c.Len(); room > 0 {
		c.Buffer.Write(p[:min(room, len(p))])
	}
	return len(p), nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LogRequests logs every request while enabled is set, and any request slower
// than slowThreshold when the threshold is non zero. Operation bodies are
// logged as read by the handler, truncated. Websocket upgrades are logged
// without a status.
func LogRequests(logger log.Logger, enabled *atomic.Bool, slowThreshold time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}

			var body capped
			if r.Body != nil && r.Method == http.MethodPost {
				r.Body = struct {
					io.Reader
					io.Closer
				}{io.TeeReader(r.Body, &body), r.Body}
			}

			route := "unknown"
			if cur := mux.CurrentRoute(r); cur != nil && cur.GetName() != "" {
				route = cur.GetName()
			}

			start := time.Now()
			status := 0
			if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
				next.ServeHTTP(w, r)
			} else {
				sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
				next.ServeHTTP(sw, r)
				status = sw.status
			}
			elapsed := time.Since(start)

			slow := slowThreshold != 0 && elapsed > slowThreshold
			if !enabled.Load() && !slow {
				return
			}
			ctx := []any{
				"route", route,
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", status,
				"elapsed", elapsed,
				"requestID", r.Header.Get("x-request-id"),
			}
			if body.Len() > 0 {
				ctx = append(ctx, "body", body.String())
			}
			if slow {
				logger.Warn("slow request", ctx...)
			} else {
				logger.Info("request", ctx...)
			}
		})
	}
}
