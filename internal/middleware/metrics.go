package middleware

import (
	"context"
	"time"

	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/pkg/cmd"
)

// WithMetrics counts commands by outcome and records their latency.
func WithMetrics() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)
			if _, _, svc, ok := command.Interaction(inv.Data); ok && svc != nil {
				svc.Metrics.ObserveCommand(c.Name(), command.OutcomeLabel(err), time.Since(start))
			}
			return err
		})
	}
}
