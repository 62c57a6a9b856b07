// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package restwirehost attaches virtual hosts and their routing tables to a
server's router.

Hosts and routes are unmarshaled from configuration.  Routes refer to
handlers by name, and handlers are components in the HandlerGroup value
group of the enclosing fx.App.
*/
package restwirehost
