package bot

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/market"
)

// ChannelAPI is the part of *discordgo.Session that manages channels.
type ChannelAPI interface {
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Channels carries out the channel effects of market operations.
type Channels struct {
	api    ChannelAPI
	logger *slog.Logger
}

func NewChannels(api ChannelAPI, logger *slog.Logger) *Channels {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channels{api: api, logger: logger.With("component", "channels")}
}

// Execute runs one effect in guildID. For CreateChannel it returns the ID of
// the new channel.
func (c *Channels) Execute(guildID string, effect market.Effect) (string, error) {
	switch e := effect.(type) {
	case market.CreateChannel:
		ch, err := c.api.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:     e.Name,
			Type:     discordgo.ChannelTypeGuildText,
			ParentID: e.CategoryID,
		})
		if err != nil {
			return "", fmt.Errorf("creating channel %q: %w", e.Name, err)
		}
		c.logger.Info("Channel created", "guild", guildID, "channel", ch.ID, "name", e.Name)
		return ch.ID, nil

	case market.EditChannel:
		edit := &discordgo.ChannelEdit{Name: e.Name, ParentID: e.CategoryID}
		if _, err := c.api.ChannelEdit(e.ChannelID, edit); err != nil {
			return "", fmt.Errorf("editing channel %s: %w", e.ChannelID, err)
		}
		c.logger.Info("Channel updated", "guild", guildID, "channel", e.ChannelID, "name", e.Name, "category", e.CategoryID)
		return e.ChannelID, nil

	case market.DeleteChannel:
		if _, err := c.api.ChannelDelete(e.ChannelID, discordgo.WithAuditLogReason(e.Reason)); err != nil {
			return "", fmt.Errorf("deleting channel %s: %w", e.ChannelID, err)
		}
		c.logger.Info("Channel deleted", "guild", guildID, "channel", e.ChannelID, "reason", e.Reason)
		return e.ChannelID, nil
	}
	return "", fmt.Errorf("unsupported effect %T", effect)
}

// ExecuteAll runs effects in order and stops at the first failure.
func (c *Channels) ExecuteAll(guildID string, effects []market.Effect) error {
	for _, e := range effects {
		if _, err := c.Execute(guildID, e); err != nil {
			return err
		}
	}
	return nil
}
