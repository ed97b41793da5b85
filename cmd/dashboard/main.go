package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/api"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/config"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/logger"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/prefs"
	"github.com/rovshanmuradov/copytrade-dashboard/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (json or yaml)")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(rootCtx, *configPath); err != nil {
		log.Fatalf("copytrade dashboard: %v", err)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	buffer, err := logger.NewLogBuffer(cfg.LogBufferSize, cfg.LogFile, zap.NewNop())
	if err != nil {
		return fmt.Errorf("failed to create log buffer: %w", err)
	}
	stopFlush := buffer.StartPeriodicFlush(5 * time.Second)
	defer func() {
		close(stopFlush)
		_ = buffer.Close()
	}()

	baseLogger, err := logger.CreateTUILogger(cfg.DebugLogging, buffer)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	sender := ui.NewUpdateSender(100, baseLogger.Named("updates"))
	defer sender.Close()

	appLogger := baseLogger.WithOptions(zap.Hooks(sender.LogHook))
	defer func() {
		_ = appLogger.Sync()
	}()

	appLogger.Info("Starting CopyTrade dashboard",
		zap.String("api_url", cfg.APIURL),
		zap.Int("page_size", cfg.PageSize))

	client := api.NewClient(api.Options{
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.RequestTimeout,
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
	}, appLogger)

	svc := ui.NewServices(client, appLogger)
	svc.PageSize = cfg.PageSize
	svc.Logs = buffer
	svc.ExportDir = cfg.ExportDir
	svc.Links = cfg.Links()
	svc.Social = cfg.SocialLinks
	svc.DefaultFilter = cfg.DefaultFilter

	store, err := prefs.Open(cfg.StateFile)
	if err != nil {
		// the guide just shows again
		appLogger.Warn("Failed to open state file", zap.String("path", cfg.StateFile), zap.Error(err))
	} else {
		svc.Prefs = store
	}

	var app *AppModel
	recovery := ui.NewRecoveryHandler(appLogger, func() (tea.Model, []tea.ProgramOption) {
		if app != nil {
			app.Close()
		}
		app = NewAppModel(svc, sender)
		return ui.NewSafeUIWrapper(app, appLogger), []tea.ProgramOption{tea.WithAltScreen()}
	})

	err = recovery.RunWithRecovery(ctx)
	if app != nil {
		app.Close()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("TUI application failed", zap.Error(err))
		return err
	}

	appLogger.Info("Shutting down CopyTrade dashboard")
	return nil
}
