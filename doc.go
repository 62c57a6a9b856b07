// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package restwire wires HTTP servers, virtual hosts, and routing tables from
external configuration using uber/fx.

# Unmarshaled components

ForViper exposes a viper instance as an Unmarshaler component.  Provide,
ProvideKey, and UnmarshalKey turn configuration into fx components of any type.

# Logging

Logger supplies a *zap.Logger to the application and routes the fx event log
through it.  Subpackages log through named children of that logger.

# Conditional options

If and IfNot include options in an fx.App based on a condition.  IfSet does
the same based on whether a configuration key is present.
*/
package restwire
