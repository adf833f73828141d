// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/log"
)

type record struct {
	level string
	msg   string
	ctx   map[string]any
}

type recordingLogger struct {
	records []record
}

func (l *recordingLogger) add(level, msg string, ctx []any) {
	m := make(map[string]any)
	for i := 0; i+1 < len(ctx); i += 2 {
		m[ctx[i].(string)] = ctx[i+1]
	}
	l.records = append(l.records, record{level, msg, m})
}

func (l *recordingLogger) With(...any) log.Logger      { return l }
func (l *recordingLogger) Trace(string, ...any)        {}
func (l *recordingLogger) Debug(string, ...any)        {}
func (l *recordingLogger) Error(string, ...any)        {}
func (l *recordingLogger) Info(msg string, ctx ...any) { l.add("info", msg, ctx) }
func (l *recordingLogger) Warn(msg string, ctx ...any) { l.add("warn", msg, ctx) }

func newRouter(logger log.Logger, enabled bool, slow time.Duration, handler http.HandlerFunc) http.Handler {
	var on atomic.Bool
	on.Store(enabled)
	router := mux.NewRouter()
	router.Use(LogRequests(logger, &on, slow))
	router.Path("/pools/{address}/deposit").Methods(http.MethodPost).Name("POST /pools/{address}/deposit").HandlerFunc(handler)
	return router
}

func TestLogRequests(t *testing.T) {
	echo := func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write(b)
	}
	sleepy := func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		echo(w, r)
	}

	tests := []struct {
		name    string
		enabled bool
		slow    time.Duration
		handler http.HandlerFunc
		want    string
	}{
		{"enabled", true, 0, echo, "info"},
		{"disabled", false, 0, echo, ""},
		{"slow", false, time.Millisecond, sleepy, "warn"},
		{"fast", false, time.Hour, echo, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			router := newRouter(logger, tt.enabled, tt.slow, tt.handler)

			req := httptest.NewRequest(http.MethodPost, "/pools/0x01/deposit", strings.NewReader(`{"amount":"1"}`))
			req.Header.Set("x-request-id", "abc")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			// the handler still sees the whole body
			assert.Equal(t, `{"amount":"1"}`, rr.Body.String())
			if tt.want == "" {
				assert.Empty(t, logger.records)
				return
			}
			require.Len(t, logger.records, 1)
			rec := logger.records[0]
			assert.Equal(t, tt.want, rec.level)
			assert.Equal(t, "POST /pools/{address}/deposit", rec.ctx["route"])
			assert.Equal(t, "/pools/0x01/deposit", rec.ctx["uri"])
			assert.Equal(t, http.StatusUnprocessableEntity, rec.ctx["status"])
			assert.Equal(t, "abc", rec.ctx["requestID"])
			assert.Equal(t, `{"amount":"1"}`, rec.ctx["body"])
		})
	}
}

func TestLoggedBodyIsTruncated(t *testing.T) {
	logger := &recordingLogger{}
	var read int
	router := newRouter(logger, true, 0, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		read = len(b)
	})

	body := strings.Repeat("x", 3*maxLoggedBody)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/pools/0x01/deposit", strings.NewReader(body)))

	assert.Equal(t, len(body), read)
	require.Len(t, logger.records, 1)
	assert.Equal(t, body[:maxLoggedBody], logger.records[0].ctx["body"])
	assert.Equal(t, http.StatusOK, logger.records[0].ctx["status"])
}
