// Package middleware holds the cmd.Middleware every Discord command is
// registered with.
package middleware

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
)

// respond sends an ephemeral reply; swapped out in tests.
var respond = func(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return bot.RespondOrEdit(s, i, content)
}
