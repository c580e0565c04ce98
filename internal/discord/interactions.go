package discord

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/pkg/cmd"
)

// Interaction tokens stay valid for 15 minutes after the deferred reply.
const commandTimeout = 2 * time.Minute

// onInteractionCreate routes slash commands by name and button clicks by the
// prefix of their custom ID ("list:next:2" goes to /list).
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var (
		name string
		data any
	)
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name = i.ApplicationCommandData().Name
		data = &command.SlashInteractionContext{Session: s, Event: i, Services: b.services}
	case discordgo.InteractionMessageComponent:
		name, _, _ = strings.Cut(i.MessageComponentData().CustomID, ":")
		data = &command.ComponentInteractionContext{Session: s, Event: i, Services: b.services}
	default:
		b.logger.Debug("Ignoring interaction", "type", i.Type)
		return
	}

	c, ok := b.registry.Get(name)
	if !ok {
		b.logger.Warn("Unknown command", "command", name, "type", i.Type)
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	b.dispatch(ctx, c, &cmd.Invocation{Data: data}, func(msg string) error {
		return bot.RespondOrEdit(s, i, msg)
	})
}

// dispatch runs c and, unless the command already told the user, replies
// with the message for the error class.
func (b *Bot) dispatch(ctx context.Context, c cmd.Command, inv *cmd.Invocation, reply func(string) error) {
	err := c.Run(ctx, inv)
	if err == nil {
		return
	}
	var reported *command.ReportedError
	if errors.As(err, &reported) {
		return
	}
	if rerr := reply(b.services.Text(command.MessageKey(err))); rerr != nil {
		b.logger.Error("Failed to report command error", "command", c.Name(), "error", rerr)
	}
}
