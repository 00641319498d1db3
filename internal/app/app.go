// Package app wires configuration into the logger, storage and notification
// channels shared by the commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/notexe/daily-reminders/internal/config"
	"github.com/notexe/daily-reminders/internal/kv"
	"github.com/notexe/daily-reminders/internal/reminder"
	"github.com/notexe/daily-reminders/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "reminders"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the root logger from cfg. With a log file configured, output
// goes there; otherwise it goes to fallback.
func NewLogger(cfg config.LogConfig, fallback io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := fallback
	var closer io.Closer = nopCloser{}
	noColor := false
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer, noColor = f, f, true
	}

	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: noColor}
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// OpenStorage opens the configured kv backend.
func OpenStorage(cfg config.StorageConfig) (kv.Store, error) {
	return kv.Open(kv.Options{
		Backend:       cfg.Backend,
		SQLitePath:    cfg.SQLitePath,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		RedisPrefix:   cfg.Redis.Prefix,
	})
}

// SeedOnFirstLaunch adds the starter reminders when nothing was ever stored.
func SeedOnFirstLaunch(store *reminder.Store, enabled bool, logger zerolog.Logger) error {
	if !enabled || !store.FirstLaunch() {
		return nil
	}
	added, err := store.SeedPresets()
	if err != nil {
		return err
	}
	logger.Info().Int("count", len(added)).Msg("seeded starter reminders")
	return nil
}

// Channels builds the configured notification channels in order. A channel that
// cannot be set up is logged and left out.
func Channels(cfg config.NotificationsConfig, console io.Writer, logger zerolog.Logger) []scheduler.Notifier {
	var channels []scheduler.Notifier
	for _, name := range cfg.Channels {
		switch name {
		case config.ChannelTelegram:
			if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
				logger.Debug().Msg("telegram channel not configured, skipping")
				continue
			}
			tg, err := scheduler.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.RatePerSecond)
			if err != nil {
				logger.Warn().Err(err).Msg("telegram channel unavailable")
				continue
			}
			channels = append(channels, tg)
		case config.ChannelConsole:
			channels = append(channels, scheduler.NewConsole(console, true))
		}
	}
	return channels
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ServeMetrics exposes reg on addr under /metrics until ctx is cancelled.
func ServeMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
