package accounts

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/internal/market"
)

type InactiveCommand struct{}

func (c *InactiveCommand) Name() string        { return "inactive" }
func (c *InactiveCommand) Description() string { return command.Text("commands.inactive.description") }
func (c *InactiveCommand) Category() string    { return category }

func (c *InactiveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DescriptionLocalizations: command.Localizations("commands.inactive.description"),
		DMPermission:             &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:                     discordgo.ApplicationCommandOptionString,
				Name:                     "reason",
				Description:              command.Text("commands.inactive.options.reason"),
				DescriptionLocalizations: command.OptionLocalizations("commands.inactive.options.reason"),
			},
		},
	}
}

func (c *InactiveCommand) Run(ctx context.Context, data any) error {
	sc, err := slashContext(data)
	if err != nil {
		return err
	}
	s, e, svc := sc.Session, sc.Event, sc.Services

	if err := bot.RespondDeferredEphemeral(s, e); err != nil {
		return err
	}

	req, err := newRequest(sc, true)
	if err != nil {
		return err
	}
	res, err := svc.Market.ToggleInactive(ctx, req, stringOption(e.ApplicationCommandData().Options, "reason"))
	if err != nil {
		return fail(svc, editReply(sc), err)
	}

	key := "commands.inactive.success"
	if res.Outcome == market.OutcomeReactivated {
		key = "commands.inactive.removeInactivity"
	}
	return bot.EditResponse(s, e, svc.Text(key))
}

// inactivity never touches the channel, so no permission check
func init() {
	command.RegisterCommand(&InactiveCommand{}, middlewares(false)...)
}
