// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwiretest

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/restwire"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Suite is an embeddable testify suite with a fresh viper instance and
// test logger for each test.
type Suite struct {
	suite.Suite

	viper  *viper.Viper
	logger *zap.Logger
}

var _ suite.SetupTestSuite = (*Suite)(nil)

// SetupTest initializes the viper environment and logger for each test.
func (suite *Suite) SetupTest() {
	suite.viper = viper.New()
	suite.logger = zaptest.NewLogger(suite.T())
}

// Viper returns the viper instance for the current test.
func (suite *Suite) Viper() *viper.Viper {
	return suite.viper
}

// Logger returns the logger for the current test.
func (suite *Suite) Logger() *zap.Logger {
	return suite.logger
}

// YAML loads a YAML configuration into the current test's viper.
func (suite *Suite) YAML(v string) {
	suite.viper.SetConfigType("yaml")
	suite.Require().NoError(
		suite.viper.ReadConfig(strings.NewReader(v)),
	)
}

// JSON loads a JSON configuration into the current test's viper.
func (suite *Suite) JSON(v string) {
	suite.viper.SetConfigType("json")
	suite.Require().NoError(
		suite.viper.ReadConfig(strings.NewReader(v)),
	)
}

func (suite *Suite) options(more []fx.Option) []fx.Option {
	return append(
		[]fx.Option{
			restwire.Logger(suite.logger),
			restwire.ForViper(suite.viper),
		},
		more...,
	)
}

// Fxtest creates an *fxtest.App with the current viper environment and logger.
func (suite *Suite) Fxtest(more ...fx.Option) *fxtest.App {
	return fxtest.New(
		suite.T(),
		suite.options(more)...,
	)
}

// Fx is like Fxtest, but returns an *fx.App so that startup errors can be
// examined.
func (suite *Suite) Fx(more ...fx.Option) *fx.App {
	return fx.New(
		suite.options(more)...,
	)
}
