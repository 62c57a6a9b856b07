// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehttp

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServerOption tailors an *http.Server after it is created.
type ServerOption func(*http.Server) error

// ServerOptions binds several options into one.
func ServerOptions(o ...ServerOption) ServerOption {
	if len(o) == 1 {
		return o[0]
	}

	return func(server *http.Server) error {
		for _, f := range o {
			if err := f(server); err != nil {
				return err
			}
		}

		return nil
	}
}

// RouterOption tailors the *mux.Router of a server, typically by adding
// routes, subrouters, or middleware.
type RouterOption func(*mux.Router) error

// RouterOptions binds several options into one.
func RouterOptions(o ...RouterOption) RouterOption {
	if len(o) == 1 {
		return o[0]
	}

	return func(router *mux.Router) error {
		for _, f := range o {
			if err := f(router); err != nil {
				return err
			}
		}

		return nil
	}
}

// MiddlewareChain is a strategy for decorating an http.Handler, e.g. alice.Chain.
type MiddlewareChain interface {
	Then(http.Handler) http.Handler
}

// BaseContext sets http.Server.BaseContext.  Each builder receives the context
// from the previous one, starting with context.Background().  Any previous
// BaseContext is overwritten.  With no builders, the option does nothing.
func BaseContext(builders ...func(context.Context, net.Listener) context.Context) ServerOption {
	return func(s *http.Server) error {
		if len(builders) > 0 {
			s.BaseContext = func(l net.Listener) context.Context {
				ctx := context.Background()
				for _, f := range builders {
					ctx = f(ctx, l)
				}

				return ctx
			}
		}

		return nil
	}
}

// ConnContext sets http.Server.ConnContext, chaining builders like BaseContext.
func ConnContext(builders ...func(context.Context, net.Conn) context.Context) ServerOption {
	return func(s *http.Server) error {
		if len(builders) > 0 {
			s.ConnContext = func(ctx context.Context, c net.Conn) context.Context {
				for _, f := range builders {
					ctx = f(ctx, c)
				}

				return ctx
			}
		}

		return nil
	}
}

// ErrorLog routes http.Server.ErrorLog to a zap logger at error level.
// A nil logger discards server errors.
func ErrorLog(l *zap.Logger) ServerOption {
	return func(s *http.Server) (err error) {
		if l == nil {
			l = zap.NewNop()
		}

		s.ErrorLog, err = zap.NewStdLogAt(l, zapcore.ErrorLevel)
		return
	}
}
