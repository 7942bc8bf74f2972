// Command tzjson converts IANA tzdata files into JSON rule and zone documents.
//
// Usage:
//
//	tzjson [flags] [source_dir]
//
// Run with --help for the list of flags. Every flag can also be set through a
// TZJSON_* environment variable or a tzjson.yaml file in the working directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ngrash/tzjson/internal/config"
	"github.com/ngrash/tzjson/internal/logging"
	"github.com/ngrash/tzjson/internal/metrics"
	"github.com/ngrash/tzjson/internal/zic"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tzjson:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	boot := logging.Bootstrap()
	fs := afero.NewOsFs()

	cfg, err := config.Load(fs, args, boot)
	if errors.Is(err, config.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if cfg.Version {
		fmt.Println("tzjson", version)
		return nil
	}

	logger := logging.MustNew(logging.Options{Level: cfg.LogLevel, Env: cfg.Env, Quiet: cfg.Quiet, Silent: cfg.Silent})
	defer func() { _ = logger.Sync() }()
	logger.Info("tzjson "+version, zap.String("env", cfg.Env))
	logger.Debug("configuration", zap.String("config", cfg.Dump()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &zic.Runner{Fs: fs, Logger: logger, Metrics: metrics.NewRecorder(logger)}
	if _, err := r.Run(ctx, cfg); err != nil {
		logger.Error("run failed", zap.Error(err))
		return err
	}
	return nil
}
