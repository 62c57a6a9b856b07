// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwire

// Version is the release of this module.
const Version = "2.1.0"

// Agent is the fixed agent string stamped into the server information
// of every connected response.  It is also emitted as the Server header.
const Agent = "Restwire/" + Version
