package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/keshon/account-market/internal/account"
	"github.com/keshon/account-market/pkg/cmd"
)

// Store is what the operator commands touch. They bypass the marketplace
// role and the frozen channel guard on purpose.
type Store interface {
	Get(ctx context.Context, nick string) (account.Account, error)
	List(ctx context.Context, status *account.Status) ([]account.Account, error)
	Remove(ctx context.Context, nick string) error
}

func newRegistry(store Store, out io.Writer) *cmd.Registry {
	r := cmd.NewRegistry()
	r.MustRegister(&cmd.Func{
		CommandName:        "list",
		CommandDescription: "List accounts in listing order",
		RunFunc: func(ctx context.Context, inv *cmd.Invocation) error {
			return listAccounts(ctx, store, out, inv.Args)
		},
	})
	r.MustRegister(&cmd.Func{
		CommandName:        "status",
		CommandDescription: "Show one account",
		RunFunc: func(ctx context.Context, inv *cmd.Invocation) error {
			return showAccount(ctx, store, out, inv.Args)
		},
	})
	r.MustRegister(&cmd.Func{
		CommandName:        "remove",
		CommandDescription: "Delete an account row",
		RunFunc: func(ctx context.Context, inv *cmd.Invocation) error {
			return removeAccount(ctx, store, out, inv.Args)
		},
	})
	return r
}

func listAccounts(ctx context.Context, store Store, out io.Writer, args []string) error {
	flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	statusFlag := flags.StringP("status", "s", "", "only accounts in this status")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var filter *account.Status
	if *statusFlag != "" {
		st, err := account.ParseStatus(*statusFlag)
		if err != nil {
			return err
		}
		filter = &st
	}

	accounts, err := store.List(ctx, filter)
	if err != nil {
		return err
	}
	account.SortForListing(accounts)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NICK\tSTATUS\tPRICE\tBUYER\tCHANNEL")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", a.Nick, a.Status, a.Price, dash(a.Buyer), dash(a.ChannelID))
	}
	return tw.Flush()
}

func showAccount(ctx context.Context, store Store, out io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: status <nick>")
	}
	a, err := store.Get(ctx, args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Nick:\t%s\n", a.Nick)
	fmt.Fprintf(tw, "Status:\t%s\n", a.Status)
	fmt.Fprintf(tw, "Price:\t%d\n", a.Price)
	fmt.Fprintf(tw, "Buyer:\t%s\n", dash(a.Buyer))
	fmt.Fprintf(tw, "Inactive reason:\t%s\n", dash(a.InactiveReason))
	fmt.Fprintf(tw, "Channel:\t%s\n", dash(a.ChannelID))
	fmt.Fprintf(tw, "Created:\t%s\n", a.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	return tw.Flush()
}

// removeAccount deletes the row only. The Discord channel, if any, is printed
// so it can be deleted by hand.
func removeAccount(ctx context.Context, store Store, out io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: remove <nick>")
	}
	a, err := store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if err := store.Remove(ctx, a.Nick); err != nil {
		return err
	}
	if a.Linked() {
		fmt.Fprintf(out, "removed %s, delete channel %s in Discord\n", a.Nick, a.ChannelID)
		return nil
	}
	fmt.Fprintf(out, "removed %s\n", a.Nick)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
