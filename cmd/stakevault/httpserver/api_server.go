// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net/http"
	"time"

	"github.com/pborman/uuid"

	"github.com/stakevault/stakevault/vault"
)

const maxRequestBody = 200 * 1024

// StartAPIServer serves handler on addr. It returns the portal URL and a
// func that closes the server.
func StartAPIServer(addr string, handler http.Handler, genesisID vault.Bytes32) (string, func(), error) {
	handler = handleXGenesisID(handler, genesisID)
	handler = handleXRequestID(handler)
	handler = requestBodyLimit(handler)

	// no read timeout, subscriptions keep their connection open
	return listenAndServe("API", addr, "/", &http.Server{Handler: handler, ReadHeaderTimeout: time.Second})
}

func handleXGenesisID(h http.Handler, genesisID vault.Bytes32) http.Handler {
	headerKey := "x-genesis-id"
	expectedID := genesisID.String()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actualID := r.Header.Get(headerKey)
		if actualID == "" {
			actualID = r.URL.Query().Get(headerKey)
		}
		w.Header().Set(headerKey, expectedID)
		if actualID != "" && actualID != expectedID {
			http.Error(w, "genesis id mismatch", http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// handleXRequestID echoes the caller's request id, or assigns a fresh one.
func handleXRequestID(h http.Handler) http.Handler {
	headerKey := "x-request-id"
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerKey)
		if id == "" {
			id = uuid.New()
			r.Header.Set(headerKey, id)
		}
		w.Header().Set(headerKey, id)
		h.ServeHTTP(w, r)
	})
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		h.ServeHTTP(w, r)
	})
}
