package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/pkg/cmd"
)

// CommandAPI is the part of *discordgo.Session that manages guild commands.
type CommandAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID, guildID string, c *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// HashStore caches the definition hash of each registered command per guild.
type HashStore interface {
	CommandHashes(ctx context.Context, guildID string) (map[string]string, error)
	SaveCommandHashes(ctx context.Context, guildID string, hashes map[string]string) error
	DeleteCommandHash(ctx context.Context, guildID, name string) error
}

// commandSync registers the slash commands of a registry with a guild,
// deleting obsolete ones and re-creating those whose definition changed.
type commandSync struct {
	api      CommandAPI
	hashes   HashStore
	registry *cmd.Registry
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func newCommandSync(api CommandAPI, hashes HashStore, registry *cmd.Registry, logger *slog.Logger) *commandSync {
	return &commandSync{
		api:      api,
		hashes:   hashes,
		registry: registry,
		limiter:  rate.NewLimiter(rate.Every(time.Second/40), 1),
		logger:   logger,
	}
}

func (s *commandSync) sync(ctx context.Context, appID, guildID string) error {
	remote, err := s.api.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("listing commands of guild %s: %w", guildID, err)
	}
	cached, err := s.hashes.CommandHashes(ctx, guildID)
	if err != nil {
		return err
	}

	local := definitions(s.registry)
	wanted := make(map[string]string, len(local))
	for _, d := range local {
		wanted[d.Name] = hashCommand(d)
	}

	registered := make(map[string]bool, len(remote))
	for _, rc := range remote {
		if _, ok := wanted[rc.Name]; ok {
			registered[rc.Name] = true
			continue
		}
		s.logger.Info("Deleting obsolete command", "guild", guildID, "command", rc.Name)
		if err := s.api.ApplicationCommandDelete(appID, guildID, rc.ID); err != nil {
			s.logger.Error("Failed to delete command", "guild", guildID, "command", rc.Name, "error", err)
			continue
		}
		if err := s.hashes.DeleteCommandHash(ctx, guildID, rc.Name); err != nil {
			return err
		}
	}

	updated := make(map[string]string)
	for _, d := range local {
		h := wanted[d.Name]
		if registered[d.Name] && cached[d.Name] == h {
			continue
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := s.api.ApplicationCommandCreate(appID, guildID, d); err != nil {
			s.logger.Error("Failed to register command", "guild", guildID, "command", d.Name, "error", err)
			continue
		}
		s.logger.Info("Registered command", "guild", guildID, "command", d.Name)
		updated[d.Name] = h
	}

	if len(updated) == 0 {
		s.logger.Debug("Commands up to date", "guild", guildID, "count", len(local))
		return nil
	}
	return s.hashes.SaveCommandHashes(ctx, guildID, updated)
}

// removeAll deletes every command of the bot in guildID.
func (s *commandSync) removeAll(ctx context.Context, appID, guildID string) {
	existing, err := s.api.ApplicationCommands(appID, guildID)
	if err != nil {
		s.logger.Error("Failed to list commands", "guild", guildID, "error", err)
		return
	}
	for _, c := range existing {
		if err := s.api.ApplicationCommandDelete(appID, guildID, c.ID); err != nil {
			s.logger.Error("Failed to delete command", "guild", guildID, "command", c.Name, "error", err)
			continue
		}
		_ = s.hashes.DeleteCommandHash(ctx, guildID, c.Name)
	}
}

func definitions(r *cmd.Registry) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range r.All() {
		if def := commandDefinition(c); def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}

// commandDefinition walks through middleware to the command's slash definition.
func commandDefinition(c cmd.Command) *discordgo.ApplicationCommand {
	slash, ok := cmd.Root(c).(command.SlashProvider)
	if !ok {
		return nil
	}
	def := slash.SlashDefinition()
	if def == nil {
		return nil
	}
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}
