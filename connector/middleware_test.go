// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package connector

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/restwire"
	"go.uber.org/zap/zaptest"
)

type stringAddr string

func (sa stringAddr) Network() string { return "test" }
func (sa stringAddr) String() string  { return string(sa) }

func TestSplitAddr(t *testing.T) {
	testData := []struct {
		addr            net.Addr
		expectedAddress string
		expectedPort    int
	}{
		{
			addr:            &net.TCPAddr{IP: net.ParseIP("10.0.0.5"), Port: 8080},
			expectedAddress: "10.0.0.5",
			expectedPort:    8080,
		},
		{
			addr:            stringAddr("[::1]:443"),
			expectedAddress: "::1",
			expectedPort:    443,
		},
		{
			addr:            stringAddr("/var/run/restwire.sock"),
			expectedAddress: "/var/run/restwire.sock",
			expectedPort:    0,
		},
		{
			addr: nil,
		},
	}

	for i, record := range testData {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			assert := assert.New(t)
			address, port := SplitAddr(record.addr)
			assert.Equal(record.expectedAddress, address)
			assert.Equal(record.expectedPort, port)
		})
	}
}

func TestFromContext(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	_, ok := FromContext(context.Background())
	assert.False(ok)

	cr, err := NewConnectedResponse(200, "", "10.0.0.5", 8080)
	require.NoError(err)

	actual, ok := FromContext(WithConnectedResponse(context.Background(), cr))
	assert.True(ok)
	assert.Same(cr, actual)
}

func TestMiddleware(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		handled bool
		handler = http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			handled = true
			cr, ok := FromContext(request.Context())
			require.True(ok)

			info := cr.ServerInfo()
			assert.Equal("10.0.0.5", info.Address)
			assert.Equal(8080, info.Port)
			assert.Equal(restwire.Agent, info.Agent)

			cr.AddHeader("X-Connected", "true")
			response.WriteHeader(http.StatusAccepted)
			assert.Equal(http.StatusAccepted, cr.Status().Code)
		})

		decorated = Middleware(zaptest.NewLogger(t))(handler)
		response  = httptest.NewRecorder()
		request   = httptest.NewRequest("GET", "/", nil)
	)

	request = request.WithContext(
		context.WithValue(
			request.Context(),
			http.LocalAddrContextKey,
			&net.TCPAddr{IP: net.ParseIP("10.0.0.5"), Port: 8080},
		),
	)

	decorated.ServeHTTP(response, request)
	assert.True(handled)
	assert.Equal(http.StatusAccepted, response.Code)
	assert.Equal(restwire.Agent, response.Header().Get(ServerHeader))
	assert.Equal("true", response.Header().Get("X-Connected"))
}

func TestMiddlewareKeepsServerHeader(t *testing.T) {
	var (
		assert = assert.New(t)

		handler = http.HandlerFunc(func(response http.ResponseWriter, _ *http.Request) {
			response.Header().Set(ServerHeader, "custom")
			io.WriteString(response, "body")
		})

		response = httptest.NewRecorder()
		request  = httptest.NewRequest("GET", "/", nil)
	)

	Middleware(nil)(handler).ServeHTTP(response, request)
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal("custom", response.Header().Get(ServerHeader))
	assert.Equal("body", response.Body.String())
}

func TestMiddlewareImplicitStatus(t *testing.T) {
	var (
		assert = assert.New(t)

		handler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			// writes nothing at all
		})

		response = httptest.NewRecorder()
		request  = httptest.NewRequest("GET", "/", nil)
	)

	Middleware(nil)(handler).ServeHTTP(response, request)
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal(restwire.Agent, response.Header().Get(ServerHeader))
}

func TestMiddlewareWithServer(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		server = httptest.NewServer(
			Middleware(zaptest.NewLogger(t))(
				http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
					cr, ok := FromContext(request.Context())
					if ok {
						io.WriteString(response, cr.ServerInfo().HostPort())
					}
				}),
			),
		)
	)

	defer server.Close()

	response, err := http.Get(server.URL)
	require.NoError(err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(err)
	assert.Equal(server.Listener.Addr().String(), string(body))
	assert.Equal(restwire.Agent, response.Header.Get(ServerHeader))
}

func TestMiddlewareInformational(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		finalStatus = make(chan int, 1)
		server      = httptest.NewServer(
			Middleware(zaptest.NewLogger(t))(
				http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
					cr, _ := FromContext(request.Context())
					response.Header().Set("Link", "</style.css>; rel=preload")
					response.WriteHeader(http.StatusEarlyHints)

					AddHeader(cr, "X-Late", "true")
					response.WriteHeader(http.StatusOK)
					finalStatus <- cr.Status().Code
					io.WriteString(response, "body")
				}),
			),
		)

		early []int
		trace = &httptrace.ClientTrace{
			Got1xxResponse: func(code int, _ textproto.MIMEHeader) error {
				early = append(early, code)
				return nil
			},
		}
	)

	defer server.Close()

	request, err := http.NewRequestWithContext(
		httptrace.WithClientTrace(context.Background(), trace),
		"GET",
		server.URL,
		nil,
	)

	require.NoError(err)
	response, err := http.DefaultClient.Do(request)
	require.NoError(err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(err)
	assert.Equal("body", string(body))
	assert.Equal([]int{http.StatusEarlyHints}, early)
	assert.Equal(http.StatusOK, response.StatusCode)
	assert.Equal(http.StatusOK, <-finalStatus)
	assert.Equal("true", response.Header.Get("X-Late"))
	assert.Equal(restwire.Agent, response.Header.Get(ServerHeader))
}
