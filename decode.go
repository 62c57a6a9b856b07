// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwire

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DecodeHook produces a viper.DecoderConfigOption that runs the given hooks
// after viper's own defaults, which convert strings into durations and
// comma-separated slices.
func DecodeHook(hooks ...mapstructure.DecodeHookFunc) viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			append(
				[]mapstructure.DecodeHookFunc{
					mapstructure.StringToTimeDurationHookFunc(),
					mapstructure.StringToSliceHookFunc(","),
				},
				hooks...,
			)...,
		),
	)
}
