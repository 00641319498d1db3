package scheduler

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	nextID  int
	sent    []tgbotapi.MessageConfig
	deleted []int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg := c.(tgbotapi.MessageConfig)
	b.sent = append(b.sent, msg)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if del, ok := c.(tgbotapi.DeleteMessageConfig); ok {
		b.deleted = append(b.deleted, del.MessageID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestTelegramReplacesSameTag(t *testing.T) {
	bot := &fakeBot{}
	tg := NewTelegramWithBot(bot, 42, 1000)
	require.True(t, tg.Available())
	ctx := context.Background()

	require.NoError(t, tg.Deliver(ctx, Notification{Title: "💧 Water", Body: "Time for: Water", Tag: "w"}))
	require.NoError(t, tg.Deliver(ctx, Notification{Title: "🏋️ Gym", Body: "Time for: Gym", Tag: "g"}))
	require.NoError(t, tg.Deliver(ctx, Notification{Title: "💧 Water", Body: "Time for: Water", Tag: "w"}))

	require.Len(t, bot.sent, 3)
	assert.Equal(t, int64(42), bot.sent[0].ChatID)
	assert.Equal(t, "💧 Water\nTime for: Water", bot.sent[0].Text)
	assert.Equal(t, []int{1}, bot.deleted)
}

func TestTelegramUnavailableWithoutChat(t *testing.T) {
	assert.False(t, NewTelegramWithBot(&fakeBot{}, 0, 1).Available())
	assert.False(t, NewTelegramWithBot(nil, 42, 1).Available())
}

func TestTelegramCancelledContext(t *testing.T) {
	tg := NewTelegramWithBot(&fakeBot{}, 42, 0.001)
	require.NoError(t, tg.Deliver(context.Background(), Notification{Tag: "a"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, tg.Deliver(ctx, Notification{Tag: "a"}))
}
