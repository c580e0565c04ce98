// Package discord runs the gateway session: it keeps guild slash commands in
// sync and dispatches interactions to the command registry.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/internal/config"
	"github.com/keshon/account-market/pkg/cmd"
)

type Bot struct {
	dg       *discordgo.Session
	cfg      config.Discord
	services *command.Services
	registry *cmd.Registry
	commands *commandSync
	logger   *slog.Logger
	ctx      context.Context
}

// New prepares a bot; nothing connects until Run. A nil registry means
// cmd.DefaultRegistry.
func New(cfg config.Discord, services *command.Services, hashes HashStore, registry *cmd.Registry) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if registry == nil {
		registry = cmd.DefaultRegistry
	}
	logger := services.Log().With("component", "discord")
	return &Bot{
		dg:       dg,
		cfg:      cfg,
		services: services,
		registry: registry,
		commands: newCommandSync(dg, hashes, registry, logger),
		logger:   logger,
		ctx:      context.Background(),
	}, nil
}

// Run opens the gateway and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.dg.Identify.Intents = discordgo.IntentsGuilds
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.logger.Info("Shutdown signal received, closing session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Discord bot is running", "user", r.User.Username, "guilds", len(r.Guilds))
}

// onGuildCreate fires for every guild on connect and when the bot joins one.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if b.isGuildBlacklisted(g.ID) {
		b.logger.Info("Leaving blacklisted guild", "guild", g.ID, "name", g.Name)
		if appID, err := b.appID(); err == nil {
			b.commands.removeAll(b.ctx, appID, g.ID)
		}
		if err := s.GuildLeave(g.ID); err != nil {
			b.logger.Error("Failed to leave guild", "guild", g.ID, "error", err)
		}
		return
	}

	if !b.cfg.InitSlashCommands {
		b.logger.Info("Registering slash commands skipped", "guild", g.ID)
		return
	}
	appID, err := b.appID()
	if err != nil {
		b.logger.Error("Failed to resolve application ID", "error", err)
		return
	}
	if err := b.commands.sync(b.ctx, appID, g.ID); err != nil {
		b.logger.Error("Failed to register slash commands", "guild", g.ID, "error", err)
	}
}

func (b *Bot) isGuildBlacklisted(guildID string) bool {
	return slices.Contains(b.cfg.GuildBlacklist, guildID)
}

// appID returns the bot's application ID, fetching it when State has none yet.
func (b *Bot) appID() (string, error) {
	if b.dg.State != nil && b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}
