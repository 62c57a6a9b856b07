// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package message holds the response model shared by connectors: the status,
the server information describing the serving endpoint, and an ordered
header series.
*/
package message
