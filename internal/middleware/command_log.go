package middleware

import (
	"context"
	"time"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/pkg/cmd"
)

// WithCommandLogger logs every interaction with who ran it, where and how it
// ended. Rejections the user was told about log at info, faults at error.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			_, e, svc, ok := command.Interaction(inv.Data)
			if !ok {
				return err
			}
			user := bot.User(e)
			attrs := []any{
				"command", c.Name(),
				"guild", e.GuildID,
				"channel", e.ChannelID,
				"user", user.ID,
				"username", user.Username,
				"outcome", command.OutcomeLabel(err),
				"duration", time.Since(start),
			}

			logger := svc.Log()
			switch {
			case err == nil:
				logger.Info("Command executed", attrs...)
			case command.Expected(err):
				logger.Info("Command rejected", append(attrs, "reason", err)...)
			default:
				logger.Error("Command failed", append(attrs, "error", err)...)
			}
			return err
		})
	}
}
