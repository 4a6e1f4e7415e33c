package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobhunt-crawler/internal/model"
)

// Bot pushes saved records and run status messages to a Telegram chat. It
// satisfies the sink interface so it can ride in the sink fan-out.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// Append sends a single saved record.
func (b *Bot) Append(rec model.JobRecord) error {
	msgText := fmt.Sprintf("💼 *%s*\n", b.escapeMarkdown(rec.Title))
	msgText += fmt.Sprintf("🏢 %s\n", b.escapeMarkdown(rec.Company))
	msgText += fmt.Sprintf("🔗 [View Job](%s)\n", rec.URL)
	if rec.Salary != model.NotSpecified {
		msgText += fmt.Sprintf("💰 %s\n", b.escapeMarkdown(rec.Salary))
	}
	msgText += fmt.Sprintf("📍 %s\n", b.escapeMarkdown(rec.Location))
	if rec.JobType != model.NotSpecified {
		msgText += fmt.Sprintf("📝 %s\n", b.escapeMarkdown(rec.JobType))
	}
	if rec.DatePosted != model.Unknown {
		msgText += fmt.Sprintf("📅 %s\n", b.escapeMarkdown(rec.DatePosted))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", rec.URL),
		),
	)

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) Close() error {
	return nil
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
