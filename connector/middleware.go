// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package connector

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/xmidt-org/restwire"
	"github.com/xmidt-org/restwire/message"
	"go.uber.org/zap"
)

// ServerHeader is the header that carries the stamped agent.
const ServerHeader = "Server"

type contextKey struct{}

// WithConnectedResponse returns a context holding cr.
func WithConnectedResponse(ctx context.Context, cr *ConnectedResponse) context.Context {
	return context.WithValue(ctx, contextKey{}, cr)
}

// FromContext returns the ConnectedResponse for the current request, if any.
func FromContext(ctx context.Context) (*ConnectedResponse, bool) {
	cr, ok := ctx.Value(contextKey{}).(*ConnectedResponse)
	return cr, ok && cr != nil
}

// SplitAddr breaks a listener address into its IP address and port.  If the
// address carries no usable port, port is zero.
func SplitAddr(a net.Addr) (address string, port int) {
	switch v := a.(type) {
	case *net.TCPAddr:
		return v.IP.String(), v.Port

	case nil:
		return

	default:
		host, p, err := net.SplitHostPort(a.String())
		if err != nil {
			return a.String(), 0
		}

		port, _ = strconv.Atoi(p)
		return host, port
	}
}

// Middleware creates a ConnectedResponse for each request, bound to the local
// address the request's connection was accepted on.  net/http exposes that
// address under http.LocalAddrContextKey.
//
// When the response header is written, the stamped agent becomes the Server
// header unless the handler already set one, and any headers added to the
// ConnectedResponse are appended.
func Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = restwire.LoggerOrNop(logger).Named("connector")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			local, _ := request.Context().Value(http.LocalAddrContextKey).(net.Addr)
			address, port := SplitAddr(local)

			cr, err := NewConnectedResponse(http.StatusOK, "", address, port)
			if err != nil {
				logger.Error("unable to create connected response", zap.Error(err))
				next.ServeHTTP(response, request)
				return
			}

			logger.Debug("connected response",
				zap.String("address", address),
				zap.Int("port", port),
				zap.String("path", request.URL.Path),
			)

			rw := &responseWriter{
				ResponseWriter: response,
				response:       cr,
			}

			next.ServeHTTP(rw, request.WithContext(WithConnectedResponse(request.Context(), cr)))
			if !rw.wroteHeader {
				rw.WriteHeader(http.StatusOK)
			}
		})
	}
}

// responseWriter commits the ConnectedResponse's metadata to the underlying
// http.ResponseWriter just before the header is written.
type responseWriter struct {
	http.ResponseWriter
	response    *ConnectedResponse
	wroteHeader bool
}

func (rw *responseWriter) commit(code int) {
	header := rw.ResponseWriter.Header()
	if len(header.Get(ServerHeader)) == 0 {
		header.Set(ServerHeader, rw.response.ServerInfo().Agent)
	}

	rw.response.Headers().AddTo(header)
	if s, err := message.StatusOf(code); err == nil {
		rw.response.SetStatus(s)
	}
}

// informational tests for 1xx codes that precede the final response header.
// 101 ends the exchange, so it counts as final.
func informational(code int) bool {
	return code >= 100 && code < 200 && code != http.StatusSwitchingProtocols
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader && !informational(code) {
		rw.wroteHeader = true
		rw.commit(code)
	}

	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}

	return rw.ResponseWriter.Write(b)
}

// Flush supports streaming handlers.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		if !rw.wroteHeader {
			rw.WriteHeader(http.StatusOK)
		}

		f.Flush()
	}
}

// Hijack hands the connection over to the handler.  Nothing more is written
// by this decorator afterwards.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("the underlying http.ResponseWriter does not support hijacking")
	}

	rw.wroteHeader = true
	return h.Hijack()
}

// Unwrap allows http.ResponseController to reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
