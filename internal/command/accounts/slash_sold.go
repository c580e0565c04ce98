package accounts

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
)

type SoldCommand struct{}

func (c *SoldCommand) Name() string        { return "sold" }
func (c *SoldCommand) Description() string { return command.Text("commands.sold.description") }
func (c *SoldCommand) Category() string    { return category }

func (c *SoldCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DescriptionLocalizations: command.Localizations("commands.sold.description"),
		DMPermission:             &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:                     discordgo.ApplicationCommandOptionString,
				Name:                     "buyer",
				Description:              command.Text("commands.sold.options.buyer"),
				DescriptionLocalizations: command.OptionLocalizations("commands.sold.options.buyer"),
				Required:                 true,
			},
		},
	}
}

func (c *SoldCommand) Run(ctx context.Context, data any) error {
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
	res, err := svc.Market.MarkSold(ctx, req, stringOption(e.ApplicationCommandData().Options, "buyer"))
	if err != nil {
		return fail(svc, editReply(sc), err)
	}
	if err := applyEffects(sc, c.Name(), res); err != nil {
		return err
	}
	return bot.EditResponse(s, e, svc.Text("commands.sold.success"))
}

func init() {
	command.RegisterCommand(&SoldCommand{}, middlewares(true)...)
}
