// Package accounts holds the marketplace slash commands.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/internal/market"
	"github.com/keshon/account-market/internal/middleware"
	"github.com/keshon/account-market/pkg/cmd"
)

const category = "🛒 Marketplace"

// middlewares every marketplace command runs behind; channel mutating
// commands add a bot permission check, which only role holders ever reach.
func middlewares(channels bool) []cmd.Middleware {
	mws := []cmd.Middleware{
		middleware.WithCommandLogger(),
		middleware.WithMetrics(),
		middleware.WithRecover(),
		middleware.WithGuildOnly(),
		middleware.WithMarketRole(),
	}
	if channels {
		mws = append(mws, middleware.WithBotPermissions(discordgo.PermissionManageChannels))
	}
	return mws
}

var dmPermission = false

// slashContext unpacks a slash invocation.
func slashContext(data any) (*command.SlashInteractionContext, error) {
	ctx, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil, fmt.Errorf("unsupported context %T", data)
	}
	return ctx, nil
}

// newRequest describes who is acting where. The channel name is only looked
// up for commands that work on the channel's account.
func newRequest(ctx *command.SlashInteractionContext, withChannel bool) (market.Request, error) {
	s, e := ctx.Session, ctx.Event
	req := market.Request{
		ActorID:    bot.User(e).ID,
		ActorRoles: bot.MemberRoles(e),
		GuildID:    e.GuildID,
		ChannelID:  e.ChannelID,
		Categories: bot.GuildCategories{
			GuildID: e.GuildID,
			IDs:     ctx.Services.Categories,
			Channel: bot.SessionLookup(s),
		},
	}
	if withChannel {
		name, err := bot.ChannelName(s, e.ChannelID)
		if err != nil {
			return req, fmt.Errorf("resolving channel %s: %w", e.ChannelID, err)
		}
		req.ChannelName = name
	}
	return req, nil
}

// fail tells the user what went wrong through reply and marks err as reported.
func fail(svc *command.Services, reply func(string) error, err error) error {
	var catErr *market.CategoryError
	if errors.As(err, &catErr) {
		svc.Log().Warn(svc.Format("categoryNotFound", "category", catErr.Category.String(), "command", catErr.Command))
	}
	if rerr := reply(svc.Text(command.MessageKey(err))); rerr != nil {
		return errors.Join(err, rerr)
	}
	return command.Reported(err)
}

// editReply edits the deferred response of a slash command.
func editReply(ctx *command.SlashInteractionContext) func(string) error {
	return func(msg string) error {
		return bot.EditResponse(ctx.Session, ctx.Event, msg)
	}
}

// applyEffects carries out the channel side of a market result. A failure
// leaves the store updated, so the user is told the channel lags behind.
func applyEffects(ctx *command.SlashInteractionContext, commandName string, res market.Result) error {
	channels := bot.NewChannels(ctx.Session, ctx.Services.Log())
	if err := channels.ExecuteAll(ctx.Event.GuildID, res.Effects); err != nil {
		ctx.Services.Log().Error("Channel update failed", "command", commandName, "nick", res.Account.Nick, "error", err)
		if rerr := bot.EditResponse(ctx.Session, ctx.Event, ctx.Services.Text("channelError")); rerr != nil {
			return errors.Join(err, rerr)
		}
		return command.Reported(err)
	}
	return nil
}

// avatar returns the thumbnail URL for nick, empty when no resolver is set.
func avatar(ctx context.Context, svc *command.Services, nick string) string {
	if svc.Profiles == nil {
		return ""
	}
	return svc.Profiles.AvatarURL(svc.Profiles.Resolve(ctx, nick))
}

func stringOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}
	return ""
}

func intOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return o.IntValue()
		}
	}
	return 0
}
