package bot

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// SendMessage delivers operator text as-is, without markup.
func (t *TgBot) SendMessage(chatId int64, text string) error {
	if text == "" {
		return fmt.Errorf("empty message")
	}
	for _, part := range splitMessage(text, maxMessageLength) {
		if _, err := t.api.SendMessage(chatId, part, &tgbotapi.SendMessageOpts{}); err != nil {
			return fmt.Errorf("telegram send to %d: %w", chatId, err)
		}
	}
	t.log.With(slog.Int64("id", chatId)).Debug("message delivered")
	return nil
}

// NotifyAdmins sends a MarkdownV2 message to every configured admin chat.
func (t *TgBot) NotifyAdmins(msg string) {
	for _, id := range t.adminIds {
		t.plainResponse(id, msg)
	}
}
