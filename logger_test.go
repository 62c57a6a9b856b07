// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestLoggerOrNop(t *testing.T) {
	assert := assert.New(t)
	assert.NotNil(LoggerOrNop(nil))

	l := zaptest.NewLogger(t)
	assert.Same(l, LoggerOrNop(l))
}

func TestLogger(t *testing.T) {
	t.Run("Supplied", func(t *testing.T) {
		var (
			assert   = assert.New(t)
			expected = zaptest.NewLogger(t)
			actual   *zap.Logger
		)

		app := fxtest.New(t, Logger(expected), fx.Populate(&actual))
		app.RequireStart()
		app.RequireStop()
		assert.Same(expected, actual)
	})

	t.Run("Nil", func(t *testing.T) {
		var (
			assert = assert.New(t)
			actual *zap.Logger
		)

		app := fxtest.New(t, Logger(nil), fx.Populate(&actual))
		app.RequireStart()
		app.RequireStop()
		assert.NotNil(actual)
	})
}
