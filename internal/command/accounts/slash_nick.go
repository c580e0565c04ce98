package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/internal/market"
)

type NickCommand struct{}

func (c *NickCommand) Name() string        { return "nick" }
func (c *NickCommand) Description() string { return command.Text("commands.nick.description") }
func (c *NickCommand) Category() string    { return category }

func (c *NickCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minPrice := 1.0
	minNick := 3
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DescriptionLocalizations: command.Localizations("commands.nick.description"),
		DMPermission:             &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:                     discordgo.ApplicationCommandOptionString,
				Name:                     "username",
				Description:              command.Text("commands.nick.options.username"),
				DescriptionLocalizations: command.OptionLocalizations("commands.nick.options.username"),
				Required:                 true,
				MinLength:                &minNick,
				MaxLength:                16,
			},
			{
				Type:                     discordgo.ApplicationCommandOptionInteger,
				Name:                     "price",
				Description:              command.Text("commands.nick.options.price"),
				DescriptionLocalizations: command.OptionLocalizations("commands.nick.options.price"),
				Required:                 true,
				MinValue:                 &minPrice,
			},
		},
	}
}

func (c *NickCommand) Run(ctx context.Context, data any) error {
	sc, err := slashContext(data)
	if err != nil {
		return err
	}
	s, e, svc := sc.Session, sc.Event, sc.Services

	if err := bot.RespondDeferredEphemeral(s, e); err != nil {
		return err
	}

	opts := e.ApplicationCommandData().Options
	nick := stringOption(opts, "username")
	price := intOption(opts, "price")

	req, err := newRequest(sc, false)
	if err != nil {
		return err
	}
	res, err := svc.Market.ListForSale(ctx, req, nick, price)
	if err != nil {
		return fail(svc, editReply(sc), err)
	}

	channels := bot.NewChannels(s, svc.Log())
	var channelID string
	for _, eff := range res.Effects {
		id, err := channels.Execute(e.GuildID, eff)
		if err != nil {
			if aerr := svc.Market.AbortListing(ctx, res.Account.Nick); aerr != nil {
				err = errors.Join(err, aerr)
			}
			return err
		}
		if _, ok := eff.(market.CreateChannel); ok {
			channelID = id
		}
	}
	if err := svc.Market.CompleteListing(ctx, res.Account.Nick, channelID); err != nil {
		return err
	}

	embed := listedEmbed(svc, res.Account.Nick, avatar(ctx, svc, res.Account.Nick), time.Now())
	return bot.EditResponseEmbed(s, e, embed)
}

func init() {
	command.RegisterCommand(&NickCommand{}, middlewares(true)...)
}
