// internal/telegram/adapter.go

// Package telegram bridges Telegram chats to the study-feed service. It
// serves both delivery modes: long-polling via Start, and webhook pushes
// via HandleUpdate.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/studyscroll/internal/content"
	"github.com/user/studyscroll/internal/feed"
)

const maxTelegramMessage = 4096

const welcomeText = `Hi! I'm StudyScroll. Send me any topic and I'll build you a scrollable study feed with audio narration.

Try something like "Photosynthesis" or "The French Revolution".`

const helpText = `Send me a topic as a plain message and I'll generate study cards for it.

Commands:
/start - introduction
/help - this message`

// Adapter connects a Telegram bot to the feed service.
type Adapter struct {
	bot   *tgbotapi.BotAPI
	feeds *feed.Service
}

// New creates a Telegram adapter. It validates the token against the
// Telegram API immediately.
func New(token string, feeds *feed.Service) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{
		bot:   bot,
		feeds: feeds,
	}, nil
}

// Start begins long-polling for Telegram updates. It blocks until ctx is
// cancelled.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			a.handleMessage(ctx, update.Message)
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

// HandleUpdate processes a single webhook payload. Malformed or
// non-message updates are dropped silently; Telegram has already been
// acknowledged by the HTTP layer.
func (a *Adapter) HandleUpdate(payload []byte) {
	var update tgbotapi.Update
	if err := json.Unmarshal(payload, &update); err != nil {
		slog.Warn("undecodable telegram update", "error", err)
		return
	}
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	a.handleMessage(context.Background(), update.Message)
}

// RegisterWebhook points the bot at the given public HTTPS endpoint.
func (a *Adapter) RegisterWebhook(url string) error {
	cfg, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := a.bot.Request(cfg); err != nil {
		return fmt.Errorf("register webhook: %w", err)
	}
	slog.Info("webhook registered", "url", url)
	return nil
}

// DeleteWebhook removes any registered webhook so long-polling works.
func (a *Adapter) DeleteWebhook() error {
	if _, err := a.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		a.handleCommand(msg)
		return
	}

	chatID := msg.Chat.ID
	topic := strings.TrimSpace(msg.Text)
	if len(topic) < content.MinTopicLength {
		a.sendText(chatID, "That topic is a bit short. Try a few more characters.")
		return
	}

	a.sendText(chatID, fmt.Sprintf("Building your study feed for %q...", topic))

	f, err := a.feeds.Create(ctx, topic)
	if err != nil {
		slog.Error("feed creation failed", "topic", topic, "error", err)
		a.sendText(chatID, "Sorry, I couldn't generate study cards for that topic. Please try again.")
		return
	}

	a.sendFeedReply(chatID, f)

	a.feeds.QueueAudio(f, func(localPath string, err error) {
		if err != nil {
			slog.Error("audio generation failed", "session_id", f.ID, "error", err)
			a.sendText(chatID, "The study cards are ready, but audio narration failed this time.")
			return
		}
		a.sendAudio(chatID, f.Topic, localPath)
	})
}

func (a *Adapter) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		a.sendText(chatID, welcomeText)
	case "help":
		a.sendText(chatID, helpText)
	default:
		a.sendText(chatID, "Unknown command. Available: /start, /help")
	}
}

// sendFeedReply delivers the card count and viewer button for a fresh feed.
func (a *Adapter) sendFeedReply(chatID int64, f *feed.Feed) {
	reply := tgbotapi.NewMessage(chatID, feedReplyText(f))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text:   "Open study feed",
				WebApp: &tgbotapi.WebAppInfo{URL: f.URL},
			},
		),
	)
	if _, err := a.bot.Send(reply); err != nil {
		slog.Error("send feed reply failed", "chat_id", chatID, "error", err)
	}
}

// sendAudio uploads the narration file from local disk.
func (a *Adapter) sendAudio(chatID int64, topic, localPath string) {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(localPath))
	audio.Title = audioTitle(topic)
	if _, err := a.bot.Send(audio); err != nil {
		slog.Error("send audio failed", "chat_id", chatID, "error", err)
		a.sendText(chatID, "The audio narration is ready but I couldn't upload it.")
	}
}

func (a *Adapter) sendText(chatID int64, text string) {
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := a.bot.Send(msg); err != nil {
			// Retry without markdown if it fails
			msg.ParseMode = ""
			if _, err := a.bot.Send(msg); err != nil {
				slog.Error("send message failed", "chat_id", chatID, "error", err)
			}
		}
	}
}

func feedReplyText(f *feed.Feed) string {
	noun := "cards"
	if len(f.Cards) == 1 {
		noun = "card"
	}
	return fmt.Sprintf("Your study feed for %q is ready: %d %s. Audio narration is on the way.", f.Topic, len(f.Cards), noun)
}

func audioTitle(topic string) string {
	return "Study: " + topic
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}
