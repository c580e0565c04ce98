// Command cli inspects and repairs the account database without Discord.
//
//	cli [--db PATH] list [--status STATUS]
//	cli [--db PATH] status <nick>
//	cli [--db PATH] remove <nick>
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/keshon/account-market/internal/config"
	"github.com/keshon/account-market/internal/logging"
	"github.com/keshon/account-market/internal/storage"
	"github.com/keshon/account-market/pkg/cmd"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, argv []string) int {
	flags := pflag.NewFlagSet("cli", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	dbPath := flags.String("db", "", "database file (default $STORAGE_PATH)")
	logLevel := flags.String("log-level", "warn", "log level")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: cli [--db PATH] <list|status|remove> [args]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	slog.SetDefault(logging.New(os.Stderr, *logLevel, "text"))

	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		return 2
	}

	path := *dbPath
	if path == "" {
		cfg, err := config.LoadStorage()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		path = cfg.Path
	}

	store, err := storage.Open(path, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer store.Close()

	registry := newRegistry(store, os.Stdout)
	c, ok := registry.Get(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		flags.Usage()
		return 2
	}
	if err := c.Run(ctx, &cmd.Invocation{Args: args[1:]}); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", c.Name(), err)
		return 1
	}
	return 0
}
