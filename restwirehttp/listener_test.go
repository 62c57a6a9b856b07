// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehttp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/restwire/restwiretest"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"
)

// namedListener records the order in which constructors were applied.
type namedListener struct {
	net.Listener
	names []string
}

func appendName(name string) ListenerConstructor {
	return func(next net.Listener) net.Listener {
		nl, ok := next.(*namedListener)
		if !ok {
			nl = &namedListener{Listener: next}
		}

		nl.names = append(nl.names, name)
		return nl
	}
}

func testListenerChainEmpty(t *testing.T) {
	var (
		assert = assert.New(t)
		base   = new(namedListener)
	)

	assert.Same(base, ListenerChain{}.Then(base))
	assert.Same(base, NewListenerChain().Then(base))
}

func testListenerChainOrder(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		first  = NewListenerChain(appendName("one"), appendName("two"))
		second = first.Append(appendName("three"))
		third  = second.Extend(NewListenerChain(appendName("four")))
	)

	nl, ok := third.Then(new(namedListener)).(*namedListener)
	require.True(ok)

	// Then applies in reverse so that execution matches the declared order
	assert.Equal([]string{"four", "three", "two", "one"}, nl.names)

	// chains are immutable
	nl, ok = first.Then(new(namedListener)).(*namedListener)
	require.True(ok)
	assert.Equal([]string{"two", "one"}, nl.names)
}

func testListenerChainFactory(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		base = ListenerFactoryFunc(func(context.Context, *http.Server) (net.Listener, error) {
			return new(namedListener), nil
		})

		expectedErr = errors.New("expected")
		failing     = ListenerFactoryFunc(func(context.Context, *http.Server) (net.Listener, error) {
			return nil, expectedErr
		})
	)

	l, err := NewListenerChain(appendName("decorated")).Factory(base).Listen(context.Background(), new(http.Server))
	require.NoError(err)
	assert.Equal([]string{"decorated"}, l.(*namedListener).names)

	l, err = NewListenerChain().Factory(base).Listen(context.Background(), new(http.Server))
	require.NoError(err)
	assert.Empty(l.(*namedListener).names)

	l, err = NewListenerChain(appendName("decorated")).Factory(failing).Listen(context.Background(), new(http.Server))
	assert.Same(expectedErr, err)
	assert.Nil(l)
}

func TestListenerChain(t *testing.T) {
	t.Run("Empty", testListenerChainEmpty)
	t.Run("Order", testListenerChainOrder)
	t.Run("Factory", testListenerChainFactory)
}

func TestCaptureListenAddress(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		ch       = make(chan net.Addr, 1)
		listener = new(namedListener)
	)

	listener.Listener, _ = net.Listen("tcp", "127.0.0.1:0")
	require.NotNil(listener.Listener)
	defer listener.Close()

	assert.Same(listener, CaptureListenAddress(ch)(listener))
	actual, ok := AwaitListenAddress(t.Fatalf, ch, time.Second)
	assert.True(ok)
	assert.Equal(listener.Addr(), actual)

	var failed bool
	actual, ok = AwaitListenAddress(
		func(string, ...interface{}) { failed = true },
		ch,
		10*time.Millisecond,
	)

	assert.False(ok)
	assert.Nil(actual)
	assert.True(failed)
}

func testDefaultListenerFactoryAddress(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		factory DefaultListenerFactory
	)

	listener, err := factory.Listen(context.Background(), &http.Server{Addr: "127.0.0.1:0"})
	require.NoError(err)
	require.NotNil(listener)
	defer listener.Close()

	assert.IsType((*net.TCPAddr)(nil), listener.Addr())
}

func testDefaultListenerFactoryNoAddress(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		factory DefaultListenerFactory
	)

	listener, err := factory.Listen(context.Background(), new(http.Server))
	require.NoError(err)
	require.NotNil(listener)
	defer listener.Close()

	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	require.True(ok)
	assert.True(tcpAddr.IP.IsLoopback())
	assert.NotZero(tcpAddr.Port)
}

func testDefaultListenerFactoryError(t *testing.T) {
	var (
		assert = assert.New(t)

		factory = DefaultListenerFactory{
			Network: "this is a bad network",
		}
	)

	listener, err := factory.Listen(context.Background(), &http.Server{Addr: ":0"})
	assert.Error(err)
	if !assert.Nil(listener) {
		listener.Close()
	}
}

func TestDefaultListenerFactory(t *testing.T) {
	t.Run("Address", testDefaultListenerFactoryAddress)
	t.Run("NoAddress", testDefaultListenerFactoryNoAddress)
	t.Run("Error", testDefaultListenerFactoryError)
}

type servableFunc func(net.Listener) error

func (sf servableFunc) Serve(l net.Listener) error { return sf(l) }

func TestServe(t *testing.T) {
	var (
		assert      = assert.New(t)
		expectedErr = errors.New("expected")
		exits       int
	)

	err := Serve(
		servableFunc(func(net.Listener) error { return expectedErr }),
		nil,
		func() { exits++ },
		func() { exits++ },
	)

	assert.Same(expectedErr, err)
	assert.Equal(2, exits)
}

func TestServeAcceptError(t *testing.T) {
	var (
		assert      = assert.New(t)
		expectedErr = errors.New("expected")
		l           = new(restwiretest.MockListener)
		exited      bool
	)

	l.ExpectAccept(nil, expectedErr).Once()
	l.ExpectClose(nil).Once()

	err := Serve(new(http.Server), l, func() { exited = true })
	assert.ErrorIs(err, expectedErr)
	assert.True(exited)
	l.AssertExpectations(t)
}

func TestCaptureListenAddressMock(t *testing.T) {
	var (
		assert = assert.New(t)
		addr   = new(restwiretest.MockAddr)
		l      = new(restwiretest.MockListener)
		ch     = make(chan net.Addr, 1)
	)

	l.ExpectAddr(addr).Once()
	assert.Same(l, CaptureListenAddress(ch)(l))
	assert.Same(addr, <-ch)
	l.AssertExpectations(t)
}

func TestServerOnStart(t *testing.T) {
	t.Run("ListenError", func(t *testing.T) {
		var (
			assert      = assert.New(t)
			expectedErr = errors.New("expected")

			onStart = ServerOnStart(
				new(http.Server),
				ListenerFactoryFunc(func(context.Context, *http.Server) (net.Listener, error) {
					return nil, expectedErr
				}),
				zaptest.NewLogger(t),
			)
		)

		assert.Same(expectedErr, onStart(context.Background()))
	})

	t.Run("Exit", func(t *testing.T) {
		var (
			assert  = assert.New(t)
			require = require.New(t)

			server = &http.Server{Addr: "127.0.0.1:0"}
			exited = make(chan struct{})

			onStart = ServerOnStart(
				server,
				DefaultListenerFactory{},
				zaptest.NewLogger(t),
				func() { close(exited) },
			)
		)

		require.NoError(onStart(context.Background()))
		require.NoError(server.Shutdown(context.Background()))

		select {
		case <-exited:
		case <-time.After(5 * time.Second):
			assert.Fail("the server exit callback was not called")
		}
	})
}

func TestShutdownOnExit(t *testing.T) {
	var (
		assert     = assert.New(t)
		shutdowner fx.Shutdowner

		app = fxtest.New(
			t,
			fx.NopLogger,
			fx.Populate(&shutdowner),
		)
	)

	app.RequireStart()
	done := app.Done()
	ShutdownOnExit(shutdowner)()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		assert.Fail("the app was not shut down")
	}

	app.RequireStop()
}
