package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/config"
	"github.com/keshon/account-market/internal/market"
)

// ChannelLookup fetches a channel by ID.
type ChannelLookup func(channelID string) (*discordgo.Channel, error)

// SessionLookup reads the state cache and falls back to REST.
func SessionLookup(s *discordgo.Session) ChannelLookup {
	return func(id string) (*discordgo.Channel, error) {
		if s.State != nil {
			if ch, err := s.State.Channel(id); err == nil {
				return ch, nil
			}
		}
		return s.Channel(id)
	}
}

// GuildCategories resolves logical categories to configured IDs and only
// reports those that exist as categories of the guild.
type GuildCategories struct {
	GuildID string
	IDs     config.Categories
	Channel ChannelLookup
}

func (g GuildCategories) Lookup(c market.Category) (string, bool) {
	id, ok := g.IDs.IDs()[c.String()]
	if !ok {
		return "", false
	}
	if g.Channel == nil {
		return id, true
	}
	ch, err := g.Channel(id)
	if err != nil || ch == nil {
		return "", false
	}
	if ch.Type != discordgo.ChannelTypeGuildCategory || (g.GuildID != "" && ch.GuildID != g.GuildID) {
		return "", false
	}
	return id, true
}
