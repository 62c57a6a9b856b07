// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package connector

import (
	"sync"
	"sync/atomic"

	"github.com/xmidt-org/restwire"
	"github.com/xmidt-org/restwire/message"
)

// ConnectedResponse is a response created by a server connector.  It knows the
// address and port of the connection that accepted the request.
type ConnectedResponse struct {
	response *message.Response

	serverAddress string
	serverPort    int

	stamp   sync.Once
	stamped atomic.Bool
}

// NewConnectedResponse creates a response bound to the given server address
// and port.  The status is looked up with message.StatusOf and keeps its
// standard reason phrase.  reasonPhrase, if not empty, becomes the status
// description.  Only an invalid status code can cause an error.
func NewConnectedResponse(statusCode int, reasonPhrase, serverAddress string, serverPort int) (*ConnectedResponse, error) {
	status, err := message.StatusOf(statusCode)
	if err != nil {
		return nil, err
	}

	status = status.WithDescription(reasonPhrase)
	return &ConnectedResponse{
		response:      message.NewResponse(status),
		serverAddress: serverAddress,
		serverPort:    serverPort,
	}, nil
}

// ServerAddress is the address this response was bound to at creation.
func (cr *ConnectedResponse) ServerAddress() string {
	return cr.serverAddress
}

// ServerPort is the port this response was bound to at creation.
func (cr *ConnectedResponse) ServerPort() int {
	return cr.serverPort
}

// ServerInfo returns the server information of the underlying response.
// The first call stamps the server address, port, and restwire.Agent into
// that record.  Later calls return the same record without writing to it.
func (cr *ConnectedResponse) ServerInfo() *message.ServerInfo {
	info := cr.response.ServerInfo()
	cr.stamp.Do(func() {
		info.Address = cr.serverAddress
		info.Agent = restwire.Agent
		info.Port = cr.serverPort
		cr.stamped.Store(true)
	})

	return info
}

// Stamped reports whether the server information has been stamped.
func (cr *ConnectedResponse) Stamped() bool {
	return cr.stamped.Load()
}

// Status returns the status of the underlying response.
func (cr *ConnectedResponse) Status() message.Status {
	return cr.response.Status()
}

// SetStatus replaces the status of the underlying response.
func (cr *ConnectedResponse) SetStatus(s message.Status) {
	cr.response.SetStatus(s)
}

// Headers returns the header series of the underlying response.
func (cr *ConnectedResponse) Headers() *message.Series {
	return cr.response.Headers()
}

// AddHeader appends a header to this response.
func (cr *ConnectedResponse) AddHeader(name, value string) {
	cr.response.Headers().Add(name, value)
}

// AddHeader appends a header to r if r is a *ConnectedResponse.  For anything
// else, including a nil *ConnectedResponse, this function does nothing and
// returns false.
func AddHeader(r any, name, value string) bool {
	cr, ok := r.(*ConnectedResponse)
	if !ok || cr == nil {
		return false
	}

	cr.AddHeader(name, value)
	return true
}
