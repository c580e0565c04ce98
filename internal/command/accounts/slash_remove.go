package accounts

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
)

type RemoveCommand struct{}

func (c *RemoveCommand) Name() string        { return "remove" }
func (c *RemoveCommand) Description() string { return command.Text("commands.remove.description") }
func (c *RemoveCommand) Category() string    { return category }

func (c *RemoveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DescriptionLocalizations: command.Localizations("commands.remove.description"),
		DMPermission:             &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:                     discordgo.ApplicationCommandOptionString,
				Name:                     "password",
				Description:              command.Text("commands.remove.options.password"),
				DescriptionLocalizations: command.OptionLocalizations("commands.remove.options.password"),
				Required:                 true,
			},
		},
	}
}

// Run answers before deleting the channel; the reply is ephemeral and would
// otherwise have nowhere to go.
func (c *RemoveCommand) Run(ctx context.Context, data any) error {
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
	res, err := svc.Market.Remove(ctx, req, stringOption(e.ApplicationCommandData().Options, "password"))
	if err != nil {
		return fail(svc, editReply(sc), err)
	}
	if err := bot.EditResponse(s, e, svc.Text("commands.remove.success")); err != nil {
		svc.Log().Warn("Could not confirm removal", "nick", res.Account.Nick, "error", err)
	}
	return applyEffects(sc, c.Name(), res)
}

func init() {
	command.RegisterCommand(&RemoveCommand{}, middlewares(true)...)
}
