// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/restwire"
	"github.com/xmidt-org/restwire/representation"
	"github.com/xmidt-org/restwire/restwirehost"
	"github.com/xmidt-org/restwire/restwirehttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	applicationName = "restwire"

	// exitConfiguration is the exit code for command line and configuration errors
	exitConfiguration = 2

	stopTimeout = 15 * time.Second
)

// LoggingConfig is the logging section of the configuration.
type LoggingConfig struct {
	// Level is a zap level name.  The default is info.
	Level string

	// Development switches to human-readable console output
	Development bool
}

// NewLogger creates the application logger.
func (lc LoggingConfig) NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lc.Development {
		cfg = zap.NewDevelopmentConfig()
	}

	if len(lc.Level) > 0 {
		level, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, err
		}

		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	return cfg.Build()
}

// newViper reads the configuration file named on the command line.
// Environment variables prefixed with RESTWIRE_ override file values.
func newViper(args []string, stderr io.Writer) (*viper.Viper, error) {
	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringP("config", "f", applicationName+".yaml", "the configuration file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(applicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(v.GetString("config"))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read configuration: %w", err)
	}

	return v, nil
}

// appOptions wires the application.  Listener constructors decorate the main
// server's listener.  The admin server, which serves pprof, exists only when
// servers.admin is configured.
func appOptions(v *viper.Viper, logger *zap.Logger, lc ...restwirehttp.ListenerConstructor) fx.Option {
	return fx.Options(
		restwire.Logger(logger),
		restwire.ForViper(v, restwire.DecodeHook(representation.DecodeHook())),
		restwirehttp.Server().
			ListenerConstructors(lc...).
			With(restwirehttp.ErrorLog(logger.Named("http"))).
			ProvideKey("servers.main"),
		ModelModule(),
		restwirehost.AttachKey("servers.main", "hosts"),
		restwire.IfSet(v, "servers.admin").Then(
			restwirehttp.Server().
				With(restwirehttp.ErrorLog(logger.Named("admin"))).
				ProvideKey("servers.admin"),
			restwirehost.ProvidePprof(restwirehost.DefaultPprofPrefix),
			restwirehost.AttachKey("servers.admin", "admin.hosts"),
		),
	)
}

func run(args []string, stderr io.Writer) error {
	v, err := newViper(args, stderr)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return err

	case err != nil:
		return restwire.UseExitCode(err, exitConfiguration)
	}

	var lc LoggingConfig
	if err = v.UnmarshalKey("logging", &lc); err != nil {
		return restwire.UseExitCode(err, exitConfiguration)
	}

	logger, err := lc.NewLogger()
	if err != nil {
		return restwire.UseExitCode(err, exitConfiguration)
	}

	defer logger.Sync() //nolint:errcheck
	logger.Info("starting", zap.String("agent", restwire.Agent), zap.String("config", v.ConfigFileUsed()))

	app := fx.New(appOptions(v, logger))
	if err = app.Start(context.Background()); err != nil {
		return err
	}

	sig := <-app.Done()
	logger.Info("stopping", zap.Stringer("signal", sig))

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return app.Stop(ctx)
}

func main() {
	err := run(os.Args[1:], os.Stderr)
	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
	}

	os.Exit(restwire.ExitCodeFor(err, restwire.SentinelCode{Err: pflag.ErrHelp, Code: 0}))
}
