// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehttp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"reflect"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/xmidt-org/restwire"
	"github.com/xmidt-org/restwire/connector"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// MiddlewareGroup is the fx value group whose middleware is applied to the
// router of every server built by this package.
const MiddlewareGroup = "restwire.middleware"

// ErrNilServerFactory indicates a Server builder given a nil prototype.
var ErrNilServerFactory = errors.New("the server factory cannot be nil")

// ServerFactory creates an http.Server from unmarshaled configuration.
// Implementations may also implement ListenerFactory to control how the
// server's listener is created.
type ServerFactory interface {
	// NewServer creates a server that uses the given handler, possibly decorated.
	NewServer(http.Handler) (*http.Server, error)
}

// ServerConfig is the default ServerFactory, typically unmarshaled with viper.
type ServerConfig struct {
	// Network is the tcp network to listen on.  The default is "tcp".
	Network string

	// Address is the bind address.  If unset, the server binds to an ephemeral
	// loopback port.
	Address string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// KeepAlive is net.ListenConfig.KeepAlive for this server's listener
	KeepAlive time.Duration

	// Header is emitted on every response from this server
	Header http.Header

	// TLS is optional.  When set, the server uses HTTPS.
	TLS *TLS
}

// NewServer implements ServerFactory.
func (sc ServerConfig) NewServer(h http.Handler) (server *http.Server, err error) {
	server = &http.Server{
		Addr:              sc.Address,
		Handler:           NewHeader(sc.Header).AddResponse(h),
		ReadTimeout:       sc.ReadTimeout,
		ReadHeaderTimeout: sc.ReadHeaderTimeout,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
		MaxHeaderBytes:    sc.MaxHeaderBytes,
	}

	server.TLSConfig, err = sc.TLS.New()
	return
}

// Listen implements ListenerFactory.
func (sc ServerConfig) Listen(ctx context.Context, s *http.Server) (net.Listener, error) {
	return DefaultListenerFactory{
		ListenConfig: net.ListenConfig{
			KeepAlive: sc.KeepAlive,
		},
		Network: sc.Network,
	}.Listen(ctx, s)
}

// ServerIn is the set of dependencies for building a server.
type ServerIn struct {
	fx.In

	// Unmarshaler is required and reads the ServerFactory
	Unmarshaler restwire.Unmarshaler

	// Logger is optional.  Servers log under the "server" name.
	Logger *zap.Logger `optional:"true"`

	// Lifecycle starts and stops the server with the fx.App
	Lifecycle fx.Lifecycle

	// Shutdowner stops the fx.App if the server's accept loop exits
	Shutdowner fx.Shutdowner

	// Middleware holds the components in MiddlewareGroup
	Middleware []func(http.Handler) http.Handler `group:"restwire.middleware"`
}

// ProvideMiddleware adds middleware to MiddlewareGroup.
func ProvideMiddleware(m ...func(http.Handler) http.Handler) fx.Option {
	options := make([]fx.Option, 0, len(m))
	for _, f := range m {
		f := f
		options = append(options, fx.Provide(
			fx.Annotated{
				Group: MiddlewareGroup,
				Target: func() func(http.Handler) http.Handler {
					return f
				},
			},
		))
	}

	return fx.Options(options...)
}

type sOption func(*http.Server, *mux.Router, ListenerChain) (ListenerChain, error)

// S is a Fluent Builder for servers.  Create one with Server.
type S struct {
	errs      []error
	options   []sOption
	prototype ServerFactory
}

// Server starts a builder chain that unmarshals a ServerConfig.
func Server() *S {
	return new(S).
		ServerFactory(ServerConfig{})
}

// ServerFactory sets the prototype to unmarshal.  Each unmarshal works on a
// copy, so the prototype supplies defaults and is never modified.
func (s *S) ServerFactory(prototype ServerFactory) *S {
	if prototype == nil {
		s.errs = append(s.errs, ErrNilServerFactory)
	}

	s.prototype = prototype
	return s
}

// With adds options for the *http.Server.
func (s *S) With(o ...ServerOption) *S {
	so := ServerOptions(o...)
	s.options = append(s.options, func(server *http.Server, _ *mux.Router, lc ListenerChain) (ListenerChain, error) {
		return lc, so(server)
	})

	return s
}

// WithRouter adds options for the *mux.Router.
func (s *S) WithRouter(o ...RouterOption) *S {
	ro := RouterOptions(o...)
	s.options = append(s.options, func(_ *http.Server, router *mux.Router, lc ListenerChain) (ListenerChain, error) {
		return lc, ro(router)
	})

	return s
}

// Middleware adds router middleware.
func (s *S) Middleware(m ...func(http.Handler) http.Handler) *S {
	return s.WithRouter(func(router *mux.Router) error {
		for _, f := range m {
			router.Use(f)
		}

		return nil
	})
}

// MiddlewareChain adds a chain of router middleware, e.g. an alice.Chain.
func (s *S) MiddlewareChain(mc MiddlewareChain) *S {
	return s.WithRouter(func(router *mux.Router) error {
		router.Use(mc.Then)
		return nil
	})
}

// ListenerChain decorates the server's listener.
func (s *S) ListenerChain(more ListenerChain) *S {
	s.options = append(s.options, func(_ *http.Server, _ *mux.Router, lc ListenerChain) (ListenerChain, error) {
		return lc.Extend(more), nil
	})

	return s
}

// ListenerConstructors decorates the server's listener.
func (s *S) ListenerConstructors(l ...ListenerConstructor) *S {
	return s.ListenerChain(NewListenerChain(l...))
}

// CaptureListenAddress sends the server's bound address to ch when the
// fx.App starts.
func (s *S) CaptureListenAddress(ch chan<- net.Addr) *S {
	return s.ListenerConstructors(
		CaptureListenAddress(ch),
	)
}

// newTarget creates a pointer to a copy of the prototype, suitable for
// unmarshaling, along with a closure that returns the unmarshaled factory.
func (s *S) newTarget() (interface{}, func() ServerFactory) {
	pv := reflect.ValueOf(s.prototype)
	if pv.Kind() == reflect.Ptr {
		target := reflect.New(pv.Type().Elem())
		if !pv.IsNil() {
			target.Elem().Set(pv.Elem())
		}

		return target.Interface(), func() ServerFactory {
			return target.Interface().(ServerFactory)
		}
	}

	target := reflect.New(pv.Type())
	target.Elem().Set(pv)
	return target.Interface(), func() ServerFactory {
		return target.Elem().Interface().(ServerFactory)
	}
}

func (s *S) unmarshal(key string, u func(restwire.Unmarshaler, interface{}) error, in ServerIn) (*mux.Router, error) {
	if len(s.errs) > 0 {
		return nil, multierr.Combine(s.errs...)
	}

	logger := restwire.LoggerOrNop(in.Logger).Named("server")
	if len(key) > 0 {
		logger = logger.With(zap.String("key", key))
	}

	target, factoryOf := s.newTarget()
	if err := u(in.Unmarshaler, target); err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	for _, m := range in.Middleware {
		router.Use(m)
	}

	handler := alice.New(connector.Middleware(logger)).Then(router)
	factory := factoryOf()
	server, err := factory.NewServer(handler)
	if err != nil {
		return nil, err
	}

	if server.Handler == nil {
		server.Handler = handler
	}

	var (
		lc   ListenerChain
		errs []error
	)

	for _, o := range s.options {
		if lc, err = o(server, router, lc); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, multierr.Combine(errs...)
	}

	lf, ok := factory.(ListenerFactory)
	if !ok {
		lf = DefaultListenerFactory{}
	}

	in.Lifecycle.Append(fx.Hook{
		OnStart: ServerOnStart(
			server,
			lc.Factory(lf),
			logger,
			ShutdownOnExit(in.Shutdowner),
		),
		OnStop: server.Shutdown,
	})

	return router, nil
}

// Unmarshal ends the builder chain with a constructor that unmarshals the whole
// configuration.  The *http.Server and its listener are bound to the fx.App
// lifecycle.  Only the router is exposed as a component.
func (s *S) Unmarshal() func(ServerIn) (*mux.Router, error) {
	return func(in ServerIn) (*mux.Router, error) {
		return s.unmarshal(
			"",
			func(u restwire.Unmarshaler, v interface{}) error {
				return u.Unmarshal(v)
			},
			in,
		)
	}
}

// UnmarshalKey is like Unmarshal, but reads a single configuration key.
func (s *S) UnmarshalKey(key string) func(ServerIn) (*mux.Router, error) {
	return func(in ServerIn) (*mux.Router, error) {
		return s.unmarshal(
			key,
			func(u restwire.Unmarshaler, v interface{}) error {
				return u.UnmarshalKey(key, v)
			},
			in,
		)
	}
}

// Provide emits the unnamed router of a server unmarshaled from the whole
// configuration.
func (s *S) Provide() fx.Option {
	return fx.Provide(
		s.Unmarshal(),
	)
}

// ProvideKey emits the router of a server unmarshaled from key.  The router
// component is named the same as the key.
func (s *S) ProvideKey(key string) fx.Option {
	return fx.Provide(
		fx.Annotated{
			Name:   key,
			Target: s.UnmarshalKey(key),
		},
	)
}
