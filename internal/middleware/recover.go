package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/pkg/cmd"
)

// WithRecover turns a panic inside a command into an error so the gateway
// loop keeps running.
func WithRecover() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger := slog.Default()
					if _, _, svc, ok := command.Interaction(inv.Data); ok {
						logger = svc.Log()
					}
					logger.Error("Command panicked", "command", c.Name(), "panic", r, "stack", string(debug.Stack()))
					err = fmt.Errorf("panic in /%s: %v", c.Name(), r)
				}
			}()
			return c.Run(ctx, inv)
		})
	}
}
