// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package restwirehttp bootstraps HTTP servers from configuration.

The Server builder unmarshals a ServerFactory, creates the *http.Server and
its *mux.Router, and binds both to the enclosing fx.App.  Every server runs
the connector middleware ahead of its router, so handlers can always obtain
the connected response for a request.
*/
package restwirehttp
