// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package restwiretest has test helpers for code that wires restwire
// components into an fx.App.
package restwiretest
