package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/notexe/daily-reminders/internal/config"
	"github.com/notexe/daily-reminders/internal/kv"
	"github.com/notexe/daily-reminders/internal/reminder"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, closer, err := NewLogger(config.LogConfig{Level: "debug", File: path}, nil)
	require.NoError(t, err)

	logger.Debug().Str("k", "v").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "k=v")
}

func TestNewLoggerLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LogConfig{Level: "nonsense"}, &buf)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestOpenStorageMemory(t *testing.T) {
	store, err := OpenStorage(config.StorageConfig{Backend: config.BackendMemory})
	require.NoError(t, err)
	_, ok := store.(*kv.Memory)
	assert.True(t, ok)

	_, err = OpenStorage(config.StorageConfig{Backend: "tape"})
	assert.Error(t, err)
}

func TestSeedOnFirstLaunch(t *testing.T) {
	store := reminder.NewStore(kv.NewMemory(), zerolog.Nop())

	require.NoError(t, SeedOnFirstLaunch(store, false, zerolog.Nop()))
	assert.Empty(t, store.GetAll())

	require.NoError(t, SeedOnFirstLaunch(store, true, zerolog.Nop()))
	assert.Len(t, store.GetAll(), 10)

	require.NoError(t, store.ResetAll())
	require.NoError(t, SeedOnFirstLaunch(store, true, zerolog.Nop()))
	assert.Empty(t, store.GetAll())
}

func TestChannels(t *testing.T) {
	var buf bytes.Buffer
	channels := Channels(config.NotificationsConfig{
		Channels: []string{config.ChannelTelegram, config.ChannelConsole},
	}, &buf, zerolog.Nop())

	require.Len(t, channels, 1)
	assert.Equal(t, "console", channels[0].Name())
}

func TestNewRegistry(t *testing.T) {
	families, err := NewRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
