package core

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/pkg/cmd"
)

type stub struct {
	name, category string
}

func (s stub) Name() string                   { return s.name }
func (s stub) Description() string            { return s.name + " things" }
func (s stub) Category() string               { return s.category }
func (s stub) Run(context.Context, any) error { return nil }
func (s stub) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: s.name}
}

func adapt(s stub) cmd.Command {
	mw := func(c cmd.Command) cmd.Command { return cmd.Wrap(c, c.Run) }
	return cmd.Apply(&command.DiscordAdapter{Cmd: s}, mw)
}

func TestBuildHelpByCategory(t *testing.T) {
	out := buildHelpByCategory([]cmd.Command{
		adapt(stub{"sold", "🛒 Marketplace"}),
		adapt(stub{"zeta", "Custom"}),
		adapt(stub{"help", "🕯️ Information"}),
		&cmd.Func{CommandName: "cli-only"},
	})

	assert.Equal(t, "**🕯️ Information**\n`/help` - help things\n"+
		"\n**🛒 Marketplace**\n`/sold` - sold things\n"+
		"\n**Custom**\n`/zeta` - zeta things\n", out)
}
