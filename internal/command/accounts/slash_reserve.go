package accounts

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/internal/market"
)

type ReserveCommand struct{}

func (c *ReserveCommand) Name() string        { return "reserve" }
func (c *ReserveCommand) Description() string { return command.Text("commands.reserve.description") }
func (c *ReserveCommand) Category() string    { return category }

func (c *ReserveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DescriptionLocalizations: command.Localizations("commands.reserve.description"),
		DMPermission:             &dmPermission,
	}
}

func (c *ReserveCommand) Run(ctx context.Context, data any) error {
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
	res, err := svc.Market.ToggleReserve(ctx, req)
	if err != nil {
		return fail(svc, editReply(sc), err)
	}
	if err := applyEffects(sc, c.Name(), res); err != nil {
		return err
	}

	key := "commands.reserve.success"
	if res.Outcome == market.OutcomeUnreserved {
		key = "commands.reserve.removeReservation"
	}
	return bot.EditResponse(s, e, svc.Text(key))
}

func init() {
	command.RegisterCommand(&ReserveCommand{}, middlewares(true)...)
}
