package middleware

import (
	"context"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/pkg/cmd"
)

// WithMarketRole rejects members without the marketplace role before any
// other check can answer them.
func WithMarketRole() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			s, e, svc, ok := command.Interaction(inv.Data)
			if !ok || svc == nil || svc.Market == nil {
				return c.Run(ctx, inv)
			}
			err := svc.Market.Authorize(bot.MemberRoles(e))
			if err == nil {
				return c.Run(ctx, inv)
			}
			if rerr := respond(s, e, svc.Text(command.MessageKey(err))); rerr != nil {
				return rerr
			}
			return command.Reported(err)
		})
	}
}
