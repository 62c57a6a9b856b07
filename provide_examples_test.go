// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwire

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

func ExampleProvide() {
	const yaml = `
address: ":8080"
readTimeout: 15s
`

	v := viper.New()
	v.SetConfigType("yaml")
	v.ReadConfig(strings.NewReader(yaml)) //nolint:errcheck

	type Config struct {
		Address     string
		ReadTimeout time.Duration
	}

	fx.New(
		fx.NopLogger,
		ForViper(v),
		Provide[Config](),
		fx.Invoke(
			func(cfg Config) {
				fmt.Println("address", cfg.Address, "readTimeout", cfg.ReadTimeout)
			},
		),
	)

	// Output:
	// address :8080 readTimeout 15s
}

func ExampleProvideKey() {
	const yaml = `
servers:
  main:
    address: ":8080"
    readTimeout: 15s
`

	v := viper.New()
	v.SetConfigType("yaml")
	v.ReadConfig(strings.NewReader(yaml)) //nolint:errcheck

	type Config struct {
		Address     string
		ReadTimeout time.Duration
	}

	type ConfigIn struct {
		fx.In
		Config Config `name:"servers.main"`
	}

	fx.New(
		fx.NopLogger,
		ForViper(v),
		ProvideKey[Config]("servers.main"),
		fx.Invoke(
			func(in ConfigIn) {
				fmt.Println("address", in.Config.Address, "readTimeout", in.Config.ReadTimeout)
			},
		),
	)

	// Output:
	// address :8080 readTimeout 15s
}
