// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is installed as the router's MethodNotAllowed handler.
// It answers 405 with an Allow header listing the methods chi would accept
// for the matched pattern, in the JSON error shape of the API.
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		rctx := chi.NewRouteContext()
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			rctx.Reset()
			if router.Match(rctx, method, r.URL.Path) {
				allowed = append(allowed, method)
			}
		}

		for _, method := range allowed {
			w.Header().Add("Allow", method)
		}
		writeError(w, r, fmt.Errorf("%w: method %s not allowed on %s", ErrMethodNotAllowed, r.Method, r.URL.Path))
	}
}
