// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInvalidStatusCode indicates a status code outside of [MinStatusCode, MaxStatusCode].
	ErrInvalidStatusCode = errors.New("invalid status code")

	// ErrInvalidReasonPhrase indicates a reason phrase that would break the status line.
	ErrInvalidReasonPhrase = errors.New("reason phrase cannot contain a carriage return or line feed")
)

const (
	// MinStatusCode is the smallest acceptable status code.
	MinStatusCode = 100

	// MaxStatusCode is the largest acceptable status code.  Codes above 999
	// are reserved for connector errors, which never go over the wire.
	MaxStatusCode = 1099
)

// Connector error codes.  These describe failures of the connector itself
// rather than anything the remote peer sent.
const (
	StatusConnectorErrorConnection    = 1000
	StatusConnectorErrorCommunication = 1001
	StatusConnectorErrorInternal      = 1002
)

// Status is a response status: a numeric code, the reason phrase sent on the
// status line, and an optional longer description.
type Status struct {
	Code         int
	ReasonPhrase string
	Description  string
}

var connectorStatuses = map[int]Status{
	StatusConnectorErrorConnection: {
		Code:         StatusConnectorErrorConnection,
		ReasonPhrase: "Connection Error",
		Description:  "The connector failed to connect to the server",
	},
	StatusConnectorErrorCommunication: {
		Code:         StatusConnectorErrorCommunication,
		ReasonPhrase: "Communication Error",
		Description:  "The connector failed to complete the communication with the server",
	},
	StatusConnectorErrorInternal: {
		Code:         StatusConnectorErrorInternal,
		ReasonPhrase: "Internal Connector Error",
		Description:  "The connector encountered an unexpected condition",
	},
}

// StatusOf looks up the Status for a code.  Registered HTTP codes and the
// connector error codes carry their standard reason phrase.  Other codes in
// range produce a Status with an empty reason phrase.
func StatusOf(code int) (Status, error) {
	if s, ok := connectorStatuses[code]; ok {
		return s, nil
	}

	if code < MinStatusCode || code > MaxStatusCode {
		return Status{}, fmt.Errorf("%w: %d", ErrInvalidStatusCode, code)
	}

	return Status{
		Code:         code,
		ReasonPhrase: http.StatusText(code),
	}, nil
}

// WithReason returns a copy of this Status with a different reason phrase.
// An empty phrase keeps the current one.
func (s Status) WithReason(phrase string) (Status, error) {
	if strings.ContainsAny(phrase, "\r\n") {
		return s, fmt.Errorf("%w: %q", ErrInvalidReasonPhrase, phrase)
	}

	if len(phrase) > 0 {
		s.ReasonPhrase = phrase
	}

	return s, nil
}

// WithDescription returns a copy of this Status with a different description.
// An empty description keeps the current one.
func (s Status) WithDescription(description string) Status {
	if len(description) > 0 {
		s.Description = description
	}

	return s
}

// IsInformational tests for 1xx codes.
func (s Status) IsInformational() bool { return s.Code >= 100 && s.Code < 200 }

// IsSuccess tests for 2xx codes.
func (s Status) IsSuccess() bool { return s.Code >= 200 && s.Code < 300 }

// IsRedirection tests for 3xx codes.
func (s Status) IsRedirection() bool { return s.Code >= 300 && s.Code < 400 }

// IsClientError tests for 4xx codes.
func (s Status) IsClientError() bool { return s.Code >= 400 && s.Code < 500 }

// IsServerError tests for 5xx codes.
func (s Status) IsServerError() bool { return s.Code >= 500 && s.Code < 600 }

// IsConnectorError tests for the connector-only codes.
func (s Status) IsConnectorError() bool { return s.Code >= 1000 && s.Code <= MaxStatusCode }

// IsError is true for client, server, and connector errors.
func (s Status) IsError() bool {
	return s.IsClientError() || s.IsServerError() || s.IsConnectorError()
}

// String returns the status line form, e.g. "200 OK".
func (s Status) String() string {
	if len(s.ReasonPhrase) == 0 {
		return fmt.Sprintf("%d", s.Code)
	}

	return fmt.Sprintf("%d %s", s.Code, s.ReasonPhrase)
}
