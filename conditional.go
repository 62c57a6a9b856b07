// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwire

import (
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Conditional holds the outcome of a wiring decision.
type Conditional struct {
	include bool
}

// If includes options when f is true.
func If(f bool) Conditional {
	return Conditional{include: f}
}

// IfNot includes options when f is false.
func IfNot(f bool) Conditional {
	return Conditional{include: !f}
}

// IfSet includes options when key is present in the configuration.  This lets
// optional servers and hosts exist only when configured:
//
//	restwire.IfSet(v, "servers.admin").Then(
//	  restwirehttp.Server().ProvideKey("servers.admin"),
//	  restwirehost.AttachKey("servers.admin", "admin.hosts"),
//	)
func IfSet(v *viper.Viper, key string) Conditional {
	return Conditional{include: v != nil && v.IsSet(key)}
}

// Then returns o as a single option, or an empty option when the condition
// doesn't hold.
func (c Conditional) Then(o ...fx.Option) fx.Option {
	if c.include {
		return fx.Options(o...)
	}

	return fx.Options()
}
