// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehttp

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ListenerFactory creates the net.Listener for a server's accept loop.  The
// listener binds to http.Server.Addr and serves TLS when the server has a
// tls.Config.
type ListenerFactory interface {
	Listen(context.Context, *http.Server) (net.Listener, error)
}

// ListenerFactoryFunc is a closure type that implements ListenerFactory
type ListenerFactoryFunc func(context.Context, *http.Server) (net.Listener, error)

// Listen implements ListenerFactory
func (lff ListenerFactoryFunc) Listen(ctx context.Context, s *http.Server) (net.Listener, error) {
	return lff(ctx, s)
}

// ListenerConstructor decorates a net.Listener after it has been created.
type ListenerConstructor func(net.Listener) net.Listener

// ListenerChain is an immutable sequence of ListenerConstructors, applied in
// order.  The zero value is an empty chain.
type ListenerChain struct {
	c []ListenerConstructor
}

// NewListenerChain creates a chain from a sequence of constructors.
func NewListenerChain(c ...ListenerConstructor) ListenerChain {
	return ListenerChain{
		c: append([]ListenerConstructor{}, c...),
	}
}

// Append returns a new chain with more constructors at the end.  This chain
// is not modified.
func (lc ListenerChain) Append(more ...ListenerConstructor) ListenerChain {
	if len(more) == 0 {
		return lc
	}

	return ListenerChain{
		c: append(
			append([]ListenerConstructor{}, lc.c...),
			more...,
		),
	}
}

// Extend is like Append, with the constructors of another chain.
func (lc ListenerChain) Extend(more ListenerChain) ListenerChain {
	return lc.Append(more.c...)
}

// Then decorates next so that the constructors execute in the order they
// were added to this chain.
func (lc ListenerChain) Then(next net.Listener) net.Listener {
	for i := len(lc.c) - 1; i >= 0; i-- {
		next = lc.c[i](next)
	}

	return next
}

// Factory decorates the listeners created by next with this chain.
func (lc ListenerChain) Factory(next ListenerFactory) ListenerFactory {
	if len(lc.c) == 0 {
		return next
	}

	return ListenerFactoryFunc(func(ctx context.Context, s *http.Server) (net.Listener, error) {
		l, err := next.Listen(ctx, s)
		if err != nil {
			return nil, err
		}

		return lc.Then(l), nil
	})
}

// CaptureListenAddress returns a ListenerConstructor that sends the bound
// address of the listener to ch.  Mostly useful in tests that bind to port 0.
func CaptureListenAddress(ch chan<- net.Addr) ListenerConstructor {
	return func(next net.Listener) net.Listener {
		ch <- next.Addr()
		return next
	}
}

// AwaitListenAddress waits up to d for an address on ch.  If none arrives,
// fail is called and this function returns false.  Tests can pass t.Fatalf,
// t.Errorf, or t.Logf.
func AwaitListenAddress(fail func(string, ...interface{}), ch <-chan net.Addr, d time.Duration) (a net.Addr, ok bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case a = <-ch:
		ok = true

	case <-timer.C:
		fail("No listen address returned within %s", d)
	}

	return
}

// DefaultListenerFactory is the ListenerFactory used when a ServerFactory
// doesn't implement one.  Its zero value is usable.
type DefaultListenerFactory struct {
	// ListenConfig creates the net.Listener
	ListenConfig net.ListenConfig

	// Network must be a TCP network.  The default is "tcp".
	Network string
}

// Listen binds to the server's address.  An empty address binds to an
// ephemeral loopback port, IPv4 first.
func (f DefaultListenerFactory) Listen(ctx context.Context, server *http.Server) (l net.Listener, err error) {
	network := f.Network
	if len(network) == 0 {
		network = "tcp"
	}

	if len(server.Addr) > 0 {
		l, err = f.ListenConfig.Listen(ctx, network, server.Addr)
	} else if l, err = f.ListenConfig.Listen(ctx, "tcp4", "127.0.0.1:0"); err != nil {
		l, err = f.ListenConfig.Listen(ctx, "tcp6", "[::1]:0")
	}

	if err != nil {
		return nil, err
	}

	if server.TLSConfig != nil {
		l = tls.NewListener(l, server.TLSConfig)
	}

	return l, nil
}

// ServerExit is called when a server's accept loop exits.  It must not panic.
type ServerExit func()

// ShutdownOnExit returns a ServerExit that stops the whole fx.App.
func ShutdownOnExit(shutdowner fx.Shutdowner, opts ...fx.ShutdownOption) ServerExit {
	return func() {
		shutdowner.Shutdown(opts...) //nolint:errcheck
	}
}

// Servable is anything with an accept loop, such as *http.Server.
type Servable interface {
	Serve(net.Listener) error
}

// Serve runs the accept loop of s, then calls each onExit.  This function
// is typically run as a goroutine.
func Serve(s Servable, l net.Listener, onExit ...ServerExit) error {
	defer func() {
		for _, f := range onExit {
			f()
		}
	}()

	return s.Serve(l)
}

// ServerOnStart returns an fx.Hook OnStart closure that listens and then
// starts the server's accept loop in a goroutine.  An accept loop that ends
// for any reason other than shutdown is logged as an error.
func ServerOnStart(s *http.Server, f ListenerFactory, logger *zap.Logger, onExit ...ServerExit) func(context.Context) error {
	return func(ctx context.Context) error {
		listener, err := f.Listen(ctx, s)
		if err != nil {
			return err
		}

		logger.Info("server listening", zap.Stringer("address", listener.Addr()))
		go func() {
			err := Serve(s, listener, onExit...)
			if errors.Is(err, http.ErrServerClosed) {
				logger.Info("server stopped", zap.Stringer("address", listener.Addr()))
			} else {
				logger.Error("server exited", zap.Stringer("address", listener.Addr()), zap.Error(err))
			}
		}()

		return nil
	}
}
