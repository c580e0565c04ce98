package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/pkg/cmd"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:      "Administrator",
	discordgo.PermissionManageChannels:     "Manage Channels",
	discordgo.PermissionViewChannel:        "View Channel",
	discordgo.PermissionSendMessages:       "Send Messages",
	discordgo.PermissionEmbedLinks:         "Embed Links",
	discordgo.PermissionReadMessageHistory: "Read Message History",
}

// botPermissions returns the bot's permissions in a channel; swapped out in tests.
var botPermissions = func(s *discordgo.Session, channelID string) (int64, error) {
	if s.State == nil || s.State.User == nil {
		return 0, fmt.Errorf("session state not ready")
	}
	return s.State.UserChannelPermissions(s.State.User.ID, channelID)
}

// WithBotPermissions stops a command before it touches the store when the bot
// could not carry out the channel changes afterwards.
func WithBotPermissions(required ...int64) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			s, e, svc, ok := command.Interaction(inv.Data)
			if !ok || e.GuildID == "" || len(required) == 0 {
				return c.Run(ctx, inv)
			}

			have, err := botPermissions(s, e.ChannelID)
			if err != nil {
				svc.Log().Warn("Could not read bot permissions", "command", c.Name(), "channel", e.ChannelID, "error", err)
				return c.Run(ctx, inv)
			}
			missing := missingPermissions(have, required)
			if len(missing) == 0 {
				return c.Run(ctx, inv)
			}

			msg := svc.Format("missingBotPerms", "permissions", "`"+strings.Join(missing, "`, `")+"`")
			if err := respond(s, e, msg); err != nil {
				return err
			}
			return command.Reported(fmt.Errorf("%w: %s", command.ErrMissingPermissions, strings.Join(missing, ", ")))
		})
	}
}

func missingPermissions(have int64, required []int64) []string {
	if have&discordgo.PermissionAdministrator != 0 {
		return nil
	}
	var missing []string
	for _, p := range required {
		if have&p == p {
			continue
		}
		name := PermissionNames[p]
		if name == "" {
			name = fmt.Sprintf("0x%x", p)
		}
		missing = append(missing, name)
	}
	return missing
}
