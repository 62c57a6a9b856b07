// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehttp

import (
	"net/http"

	"github.com/xmidt-org/httpaux"
)

// Header is an immutable set of headers emitted on every response of a
// server.  Keys are canonicalized when the Header is created.
type Header struct {
	h httpaux.Header
}

// NewHeader makes a deep copy of src.  An empty src produces an empty Header.
func NewHeader(src http.Header) Header {
	return Header{h: httpaux.NewHeader(src)}
}

// Len returns the count of distinct header names.
func (h Header) Len() int {
	return h.h.Len()
}

// AddResponse is a middleware that adds this Header to every response before
// next runs, so next can still override any of the values.  If this Header is
// empty, next is returned undecorated.
func (h Header) AddResponse(next http.Handler) http.Handler {
	if h.Len() == 0 {
		return next
	}

	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		h.h.AddTo(response.Header())
		next.ServeHTTP(response, request)
	})
}
