package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"trailblog/internal/core/ports"
)

// UI asks for draft approval over Telegram, so enhanced posts can be reviewed
// away from the terminal. Each Confirm sends one message with inline
// approve/regenerate/skip buttons and blocks until a button is pressed or the
// context is done.
type UI struct {
	Bot      *tgbotapi.BotAPI
	ChatID   int64
	mu       sync.Mutex
	channels map[int]chan ports.UserAction
}

func New(token, chatIDStr string) (*UI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id: %v", err)
	}

	ui := &UI{
		Bot:      bot,
		ChatID:   chatID,
		channels: make(map[int]chan ports.UserAction),
	}

	go ui.listen()
	return ui, nil
}

var _ ports.Interaction = (*UI)(nil)

func (ui *UI) listen() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := ui.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery == nil {
			continue
		}

		callback := update.CallbackQuery
		action := ports.UserAction(callback.Data)
		msgID := callback.Message.MessageID

		ui.mu.Lock()
		ch, ok := ui.channels[msgID]
		if ok {
			delete(ui.channels, msgID)
		}
		ui.mu.Unlock()
		if !ok {
			continue
		}

		ch <- action

		ui.Bot.Request(tgbotapi.NewCallback(callback.ID, "Got it: "+string(action)))
		edit := tgbotapi.NewEditMessageReplyMarkup(ui.ChatID, msgID,
			tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
		ui.Bot.Send(edit)
	}
}

func (ui *UI) Confirm(ctx context.Context, title, body string) (ports.UserAction, error) {
	msgText := fmt.Sprintf("*[%s]*\n\n%s", escapeMarkdown(title), escapeMarkdown(body))
	msg := tgbotapi.NewMessage(ui.ChatID, msgText)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", string(ports.ActionApprove)),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Regenerate", string(ports.ActionRegenerate)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Skip", string(ports.ActionSkip)),
		),
	)

	sentMsg, err := ui.Bot.Send(msg)
	if err != nil {
		return ports.ActionSkip, err
	}

	respCh := make(chan ports.UserAction, 1)
	ui.mu.Lock()
	ui.channels[sentMsg.MessageID] = respCh
	ui.mu.Unlock()

	select {
	case action := <-respCh:
		return action, nil
	case <-ctx.Done():
		ui.mu.Lock()
		delete(ui.channels, sentMsg.MessageID)
		ui.mu.Unlock()
		return ports.ActionSkip, ctx.Err()
	}
}

// escapeMarkdown keeps user content from breaking Telegram's Markdown parser.
func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
