package accounts

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
)

type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return command.Text("commands.status.description") }
func (c *StatusCommand) Category() string    { return category }

func (c *StatusCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DescriptionLocalizations: command.Localizations("commands.status.description"),
		DMPermission:             &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:                     discordgo.ApplicationCommandOptionString,
				Name:                     "username",
				Description:              command.Text("commands.status.options.username"),
				DescriptionLocalizations: command.OptionLocalizations("commands.status.options.username"),
				Required:                 true,
			},
		},
	}
}

func (c *StatusCommand) Run(ctx context.Context, data any) error {
	sc, err := slashContext(data)
	if err != nil {
		return err
	}
	s, e, svc := sc.Session, sc.Event, sc.Services

	if err := bot.RespondDeferredEphemeral(s, e); err != nil {
		return err
	}

	req, err := newRequest(sc, false)
	if err != nil {
		return err
	}
	acc, err := svc.Market.Status(ctx, req, stringOption(e.ApplicationCommandData().Options, "username"))
	if err != nil {
		return fail(svc, editReply(sc), err)
	}
	return bot.EditResponseEmbed(s, e, statusEmbed(svc, acc, avatar(ctx, svc, acc.Nick), time.Now()))
}

func init() {
	command.RegisterCommand(&StatusCommand{}, middlewares(false)...)
}
