package accounts

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/internal/market"
)

type ListCommand struct{}

func (c *ListCommand) Name() string        { return "list" }
func (c *ListCommand) Description() string { return command.Text("commands.list.description") }
func (c *ListCommand) Category() string    { return category }

func (c *ListCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DescriptionLocalizations: command.Localizations("commands.list.description"),
		DMPermission:             &dmPermission,
	}
}

func (c *ListCommand) Run(ctx context.Context, data any) error {
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
	accounts, err := svc.Market.ListAccounts(ctx, req)
	if err != nil {
		return fail(svc, editReply(sc), err)
	}
	if len(accounts) == 0 {
		return bot.EditResponse(s, e, svc.Text("commands.list.empty"))
	}

	p := paginate(accounts, 0)
	return bot.EditResponseEmbedComponents(s, e, listEmbed(svc, p), listButtons(svc, p))
}

// Component turns the page. The list is read again on every click so the
// page reflects the store, not the moment /list ran.
func (c *ListCommand) Component(ctx context.Context, cc *command.ComponentInteractionContext) error {
	s, e, svc := cc.Session, cc.Event, cc.Services
	reply := func(msg string) error { return bot.RespondEphemeral(s, e, msg) }

	req := market.Request{
		ActorID:    bot.User(e).ID,
		ActorRoles: bot.MemberRoles(e),
		GuildID:    e.GuildID,
		ChannelID:  e.ChannelID,
	}
	accounts, err := svc.Market.ListAccounts(ctx, req)
	if err != nil {
		return fail(svc, reply, err)
	}

	id := e.MessageComponentData().CustomID
	target, ok, err := parsePagerID(id, pageCount(len(accounts)))
	if err != nil {
		return err
	}
	if !ok {
		key := "commands.list.embed.buttons.nextLimit"
		if target < 0 {
			key = "commands.list.embed.buttons.previousLimit"
		}
		return reply(svc.Text(key))
	}

	p := paginate(accounts, target)
	return bot.UpdateMessage(s, e, listEmbed(svc, p), listButtons(svc, p)...)
}

func init() {
	command.RegisterCommand(&ListCommand{}, middlewares(false)...)
}
