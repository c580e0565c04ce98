package middleware

import (
	"context"

	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/pkg/cmd"
)

// WithGuildOnly rejects interactions that did not come from a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			s, e, svc, ok := command.Interaction(inv.Data)
			if !ok || e.GuildID != "" {
				return c.Run(ctx, inv)
			}
			if err := respond(s, e, svc.Text("guildOnly")); err != nil {
				return err
			}
			return command.Reported(command.ErrGuildOnly)
		})
	}
}
