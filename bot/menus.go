package bot

import (
	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"licensedesk/lib/sl"
)

// commands is the menu behind the "/" button in the chat input.
var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Register with the bot"},
	{Command: "activate", Description: "Activate a license key"},
	{Command: "status", Description: "Show your license"},
	{Command: "help", Description: "Show available commands"},
}

func (t *TgBot) setDefaultCommands() {
	_, err := t.api.SetMyCommands(commands, &tgbotapi.SetMyCommandsOpts{
		Scope: tgbotapi.BotCommandScopeDefault{},
	})
	if err != nil {
		t.log.Warn("setting default commands", sl.Err(err))
	}
}
