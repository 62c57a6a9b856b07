// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwire

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/dig"
	"go.uber.org/fx"
)

// ErrParameterObject indicates an attempt to unmarshal into an fx.In or
// fx.Out struct.  Those structs describe dependencies, not configuration.
var ErrParameterObject = errors.New("cannot unmarshal into a parameter or result object")

func checkTarget[T any]() error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if dig.IsIn(t) || dig.IsOut(t) {
		return fmt.Errorf("%w: %s", ErrParameterObject, t)
	}

	return nil
}

// Unmarshal returns a constructor that unmarshals the entire configuration
// into a new T.
func Unmarshal[T any]() func(Unmarshaler) (T, error) {
	return func(u Unmarshaler) (result T, err error) {
		err = u.Unmarshal(&result)
		return
	}
}

// UnmarshalKey returns a constructor that unmarshals a single configuration key
// into a new T.  Use this with fx.Annotated when more control is needed over the
// component, such as putting it into a group.
func UnmarshalKey[T any](key string) func(Unmarshaler) (T, error) {
	return func(u Unmarshaler) (result T, err error) {
		err = u.UnmarshalKey(key, &result)
		return
	}
}

// Provide emits an unnamed T component unmarshaled from the whole configuration.
func Provide[T any]() fx.Option {
	if err := checkTarget[T](); err != nil {
		return fx.Error(err)
	}

	return fx.Provide(
		Unmarshal[T](),
	)
}

// ProvideKey emits a T component unmarshaled from key.  The component
// is named the same as the key.
func ProvideKey[T any](key string) fx.Option {
	if err := checkTarget[T](); err != nil {
		return fx.Error(err)
	}

	return fx.Provide(
		fx.Annotated{
			Name:   key,
			Target: UnmarshalKey[T](key),
		},
	)
}
