// Package commands describes slash commands.
package commands

import tele "gopkg.in/telebot.v4"

// Command is a slash command and its menu entry.
type Command struct {
	Handler tele.HandlerFunc
	// Description is shown in the Telegram command menu and is required.
	Description string
	// Hidden commands are routed but left out of the menu.
	Hidden bool
	// Aliases are extra names, with or without the leading slash.
	Aliases []string
}
