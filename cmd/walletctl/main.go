// Command walletctl queries the wallet analytics backend without the TUI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/api"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/config"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/export"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/logger"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/service"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (json or yaml)")
	debug := flag.Bool("debug", false, "Verbose logging")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, *configPath, *debug, flag.Args())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, configPath string, debug bool, args []string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Failed to load config: %v", err))
		return 1
	}
	debug = debug || cfg.DebugLogging

	var log *zap.Logger
	sink, err := logger.OpenFileSink(cfg.LogFile, time.Second, zap.NewNop())
	if err != nil {
		log = logger.CreatePrettyLogger(debug, os.Stderr, "command", "address", "count")
		log.Warn("Log file unavailable, logging to console only", zap.Error(err))
	} else {
		defer sink.Close()
		log = logger.CreateCLILogger(debug, os.Stderr, sink, "command", "address", "count")
	}
	defer func() {
		_ = log.Sync()
	}()

	commands := newCommandSet(log)
	if len(args) == 0 {
		commands.usage(os.Stderr)
		return 2
	}

	client := api.NewClient(api.Options{
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.RequestTimeout,
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
	}, log)

	e := &env{
		backend:   client,
		lookup:    service.NewLookup(client, log),
		exporter:  export.NewExporter(log),
		pageSize:  cfg.PageSize,
		filter:    cfg.DefaultFilter,
		exportDir: cfg.ExportDir,
		links:     cfg.Links(),
		out:       os.Stdout,
		logger:    log,
		now:       time.Now,
	}

	if err := commands.dispatch(ctx, e, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		if _, known := commands.commands[args[0]]; !known {
			commands.usage(os.Stderr)
			return 2
		}
		return 1
	}
	return 0
}
