// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwire

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// LoggerOrNop returns l if it is set, a nop logger otherwise.
func LoggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}

	return l
}

// Logger supplies l as the *zap.Logger component of the enclosing fx.App
// and sends the fx event log to the same logger.  A nil logger results
// in a nop logger.
func Logger(l *zap.Logger) fx.Option {
	l = LoggerOrNop(l)
	return fx.Options(
		fx.Supply(l),
		fx.WithLogger(
			func() fxevent.Logger {
				return &fxevent.ZapLogger{Logger: l.Named("fx")}
			},
		),
	)
}
