package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// BotAPI is the subset of tgbotapi.BotAPI the Telegram channel uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Telegram delivers notifications to a single chat via the Bot API.
type Telegram struct {
	bot     BotAPI
	chatID  int64
	limiter *rate.Limiter

	mu   sync.Mutex
	sent map[string]int // tag -> last message id
}

// NewTelegram connects to the Bot API with token and targets chatID.
func NewTelegram(token, chatID string, perSecond float64) (*Telegram, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return NewTelegramWithBot(bot, id, perSecond), nil
}

// NewTelegramWithBot wraps an existing bot client.
func NewTelegramWithBot(bot BotAPI, chatID int64, perSecond float64) *Telegram {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Telegram{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		sent:    make(map[string]int),
	}
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Available() bool { return t.bot != nil && t.chatID != 0 }

// Deliver sends n, deleting the previous message with the same tag first.
func (t *Telegram) Deliver(ctx context.Context, n Notification) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	prev, hadPrev := t.sent[n.Tag]
	t.mu.Unlock()

	if hadPrev {
		// The old message may already be gone; replacing it is best effort.
		_, _ = t.bot.Request(tgbotapi.NewDeleteMessage(t.chatID, prev))
	}

	msg, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, n.Title+"\n"+n.Body))
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}

	if n.Tag != "" {
		t.mu.Lock()
		t.sent[n.Tag] = msg.MessageID
		t.mu.Unlock()
	}
	return nil
}
