// Command reminders is the interactive daily reminders shell. It keeps a
// notification scheduler running in the background while the shell is open.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/notexe/daily-reminders/internal/app"
	"github.com/notexe/daily-reminders/internal/config"
	"github.com/notexe/daily-reminders/internal/reminder"
	"github.com/notexe/daily-reminders/internal/repl"
	"github.com/notexe/daily-reminders/internal/scheduler"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to configuration file")
	backend := flag.String("storage", "", "Storage backend (sqlite, redis, memory), overrides config")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	noSeed := flag.Bool("no-presets", false, "Do not seed starter reminders on first launch")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *noColor {
		cfg.UI.ColoredOutput = false
	}
	if *noSeed {
		cfg.UI.SeedPresets = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := app.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	backendStore, err := app.OpenStorage(cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer backendStore.Close()

	store := reminder.NewStore(backendStore, logger)
	if err := app.SeedOnFirstLaunch(store, cfg.UI.SeedPresets, logger); err != nil {
		logger.Warn().Err(err).Msg("failed to seed starter reminders")
	}
	perms := scheduler.NewPermissionStore(backendStore)

	// The shell is built first so console notifications print through its writer.
	var (
		sched  *scheduler.Scheduler
		runner *scheduler.Runner
	)
	shell, err := repl.NewREPL(repl.Deps{
		Store:       store,
		Permissions: perms,
		Notifier:    repl.NotifierFunc(func(ctx context.Context) error { return sched.SendTest(ctx) }),
		Reschedule:  func() int { return runner.Reschedule() },
		Colored:     cfg.UI.ColoredOutput,
		Logger:      logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating REPL: %v\n", err)
		os.Exit(1)
	}

	opts := []scheduler.Option{}
	reg := app.NewRegistry()
	if cfg.Metrics.Enabled {
		opts = append(opts, scheduler.WithMetrics(scheduler.NewMetrics(reg, app.MetricsNamespace)))
	}

	channels := app.Channels(cfg.Notifications, shell.Out(), logger)
	sched = scheduler.New(store, perms, channels, logger, opts...)
	runner = scheduler.NewRunner(sched, store, scheduler.RunnerConfig{
		Rollover: cfg.Scheduler.Rollover,
		Resync:   cfg.Scheduler.Resync,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Enabled {
		go app.ServeMetrics(ctx, cfg.Metrics.Addr, reg, logger)
	}

	runnerDone := make(chan error, 1)
	go func() {
		err := runner.Run(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("scheduler failed to start")
			fmt.Fprintln(shell.Out(), "Notifications are unavailable: "+err.Error())
		}
		runnerDone <- err
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		shell.Stop()
	}()

	if err := shell.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("shell stopped")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	cancel()
	if err := <-runnerDone; err != nil {
		fmt.Fprintf(os.Stderr, "Scheduler error: %v\n", err)
		os.Exit(1)
	}
}
