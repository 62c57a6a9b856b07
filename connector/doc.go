// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package connector decorates server responses with the metadata of the
connection they were accepted on.

A ConnectedResponse stamps the server address, port, and agent into its
response's server information the first time that information is requested.
Middleware creates one ConnectedResponse per request and makes it available
to handlers through FromContext.
*/
package connector
