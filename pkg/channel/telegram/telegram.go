package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"mealbot/pkg/channel"
	"mealbot/pkg/config"
	"mealbot/pkg/event"
)

const channelName = "telegram"
const messagePreviewLimit = 240
const typingRefreshInterval = 4 * time.Second

// Adapter bridges Telegram updates into mealbot events. It doubles as the
// reply sink and the file fetcher for the photo handler, since both ride
// on the same bot credential.
type Adapter struct {
	bot *telego.Bot
	log *slog.Logger
}

// NewAdapter validates the Telegram credential and constructs the bot
// client.
func NewAdapter(cfg config.TelegramConfig, log *slog.Logger) (*Adapter, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}

	if log == nil {
		log = slog.Default()
	}

	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	return &Adapter{
		bot: bot,
		log: log.With("component", "channel.telegram"),
	}, nil
}

// Name returns the channel identifier used in logs.
func (a *Adapter) Name() string {
	return channelName
}

// Run starts long polling and forwards each update to the receiver in its
// own goroutine. Events from different updates run concurrently; ordering
// is only guaranteed within one event's handling.
func (a *Adapter) Run(ctx context.Context, receive channel.Receiver) error {
	if receive == nil {
		return errors.New("receiver is required")
	}

	updates, err := a.bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	a.log.Info("Telegram channel started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("telegram updates channel closed")
			}

			ev, ok := toEvent(update.Message)
			if !ok {
				continue
			}

			a.log.Info("Received message",
				"chat_id", ev.ChatID,
				"sender_id", ev.SenderID,
				"category", string(event.Classify(ev)),
				"content", previewText(ev.Text),
			)

			go a.handleEvent(ctx, ev, receive)
		}
	}
}

func (a *Adapter) handleEvent(ctx context.Context, ev event.InboundEvent, receive channel.Receiver) {
	if event.Classify(ev) != event.CategoryUnhandled {
		stopTyping := a.startTypingIndicator(ctx, ev.ChatID)
		defer stopTyping()
	}

	receive(ctx, ev)
}

// Send delivers one outbound message to its conversation.
func (a *Adapter) Send(ctx context.Context, msg event.OutboundMessage) error {
	chatID, err := strconv.ParseInt(msg.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", msg.ChatID, err)
	}

	params := tu.Message(tu.ID(chatID), msg.Text)
	if msg.HTML {
		params = params.WithParseMode(telego.ModeHTML)
	}

	if _, err := a.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	a.log.Debug("Sent message", "chat_id", msg.ChatID, "content", previewText(msg.Text))
	return nil
}

// FetchFile downloads the bytes of one Telegram file reference.
func (a *Adapter) FetchFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := a.bot.GetFile(ctx, &telego.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("resolve telegram file: %w", err)
	}

	data, err := tu.DownloadFile(a.bot.FileDownloadURL(file.FilePath))
	if err != nil {
		return nil, fmt.Errorf("download telegram file: %w", err)
	}

	return data, nil
}

// toEvent converts one Telegram message into an inbound event. The
// highest-resolution photo variant is last in the Photo slice; its caption
// rides along as the event text. Messages without a sender are dropped.
func toEvent(message *telego.Message) (event.InboundEvent, bool) {
	if message == nil || message.From == nil {
		return event.InboundEvent{}, false
	}

	ev := event.InboundEvent{
		ChatID:   strconv.FormatInt(message.Chat.ID, 10),
		SenderID: strconv.FormatInt(message.From.ID, 10),
	}

	if len(message.Photo) > 0 {
		best := message.Photo[len(message.Photo)-1]
		ev.Photo = &event.PhotoPayload{FileID: best.FileID}
		ev.Text = message.Caption
		return ev, true
	}

	ev.Text = message.Text
	return ev, true
}

// previewText returns a bounded log-safe preview of message text.
func previewText(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= messagePreviewLimit {
		return trimmed
	}

	return trimmed[:messagePreviewLimit] + "..."
}

// startTypingIndicator sends an initial typing action and refreshes it
// periodically until the returned cancel function is called.
func (a *Adapter) startTypingIndicator(ctx context.Context, chatID string) context.CancelFunc {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return func() {}
	}

	typingCtx, cancel := context.WithCancel(ctx)

	sendTyping := func() {
		if err := a.bot.SendChatAction(typingCtx, tu.ChatAction(tu.ID(id), telego.ChatActionTyping)); err != nil && typingCtx.Err() == nil {
			a.log.Debug("Failed to send typing indicator", "chat_id", chatID, "error", err)
		}
	}

	sendTyping()

	go func() {
		ticker := time.NewTicker(typingRefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-typingCtx.Done():
				return
			case <-ticker.C:
				sendTyping()
			}
		}
	}()

	return cancel
}
