// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package message

// Response is the connector-neutral view of an outbound response.  It owns
// its server information and its header series, and hands out pointers to
// both so that decorators can update them in place.
type Response struct {
	status     Status
	serverInfo ServerInfo
	headers    Series
}

// NewResponse creates a Response with the given status.
func NewResponse(status Status) *Response {
	return &Response{
		status: status,
	}
}

// Status returns the current status.
func (r *Response) Status() Status {
	return r.status
}

// SetStatus replaces the current status.
func (r *Response) SetStatus(s Status) {
	r.status = s
}

// ServerInfo returns the mutable server information record.  The same
// pointer is returned on every call.
func (r *Response) ServerInfo() *ServerInfo {
	return &r.serverInfo
}

// Headers returns the mutable header series.
func (r *Response) Headers() *Series {
	return &r.headers
}
