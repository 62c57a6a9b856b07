// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehost

import (
	"net/http"
	"net/http/pprof"
	rpprof "runtime/pprof"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/fx"
)

const (
	// PprofHandler is the handler name ProvidePprof registers under.
	PprofHandler = "pprof"

	// DefaultPprofPrefix is the path prefix used when none is supplied.
	DefaultPprofPrefix = "/debug/pprof"
)

// NewPprofHandler serves the net/http/pprof handlers under prefix.  A route
// using this handler should be a prefix route for the same path.
func NewPprofHandler(prefix string) http.Handler {
	prefix = strings.TrimRight(prefix, "/")
	if len(prefix) == 0 {
		prefix = DefaultPprofPrefix
	}

	r := mux.NewRouter()
	r.HandleFunc(prefix, pprof.Index)

	s := r.PathPrefix(prefix + "/").Subrouter()
	s.Path("/").HandlerFunc(pprof.Index)
	s.Path("/cmdline").HandlerFunc(pprof.Cmdline)
	s.Path("/profile").HandlerFunc(pprof.Profile)
	s.Path("/symbol").HandlerFunc(pprof.Symbol)
	s.Path("/trace").HandlerFunc(pprof.Trace)

	// pprof.Index only resolves names under /debug/pprof/, so each profile
	// gets its own handler to work under any prefix
	for _, p := range rpprof.Profiles() {
		s.Path("/" + p.Name()).Handler(pprof.Handler(p.Name()))
	}

	return r
}

// ProvidePprof adds the pprof handlers to HandlerGroup as PprofHandler.
func ProvidePprof(prefix string) fx.Option {
	return ProvideHandler(PprofHandler, NewPprofHandler(prefix))
}
