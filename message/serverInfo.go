// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"net"
	"strconv"
)

// ServerInfo describes the endpoint that served a response.
type ServerInfo struct {
	// Address is the IP address the connection was accepted on
	Address string

	// Port is the port the connection was accepted on
	Port int

	// Agent identifies the serving software
	Agent string
}

// HostPort joins Address and Port.  An unset port yields just the address.
func (si ServerInfo) HostPort() string {
	if si.Port <= 0 {
		return si.Address
	}

	return net.JoinHostPort(si.Address, strconv.Itoa(si.Port))
}
