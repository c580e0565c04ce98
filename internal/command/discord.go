// Package command adapts Discord commands to the transport-agnostic core in
// pkg/cmd and defines what a running command can reach.
package command

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/config"
	"github.com/keshon/account-market/internal/i18n"
	"github.com/keshon/account-market/internal/market"
	"github.com/keshon/account-market/internal/profile"
	"github.com/keshon/account-market/internal/telemetry"
	"github.com/keshon/account-market/pkg/cmd"
)

// Services are the process-wide dependencies handed to every command.
type Services struct {
	Market     *market.Service
	Profiles   *profile.Resolver
	Messages   *i18n.Catalog
	Categories config.Categories
	Logger     *slog.Logger
	Metrics    *telemetry.Metrics
}

// Text returns the message for key in the configured locale.
func (s *Services) Text(key string) string {
	if s == nil || s.Messages == nil {
		return defaultMessages.Get(key)
	}
	return s.Messages.Get(key)
}

// Format is Text with $placeholders filled from name, value pairs.
func (s *Services) Format(key string, pairs ...string) string {
	if s == nil || s.Messages == nil {
		return defaultMessages.Format(key, pairs...)
	}
	return s.Messages.Format(key, pairs...)
}

func (s *Services) Log() *slog.Logger {
	if s == nil || s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Discord-specific contexts, passed as cmd.Invocation.Data.

type SlashInteractionContext struct {
	Session  *discordgo.Session
	Event    *discordgo.InteractionCreate
	Services *Services
}

type ComponentInteractionContext struct {
	Session  *discordgo.Session
	Event    *discordgo.InteractionCreate
	Services *Services
}

// Interaction returns the session, event and services of either context.
func Interaction(data any) (*discordgo.Session, *discordgo.InteractionCreate, *Services, bool) {
	switch v := data.(type) {
	case *SlashInteractionContext:
		return v.Session, v.Event, v.Services, true
	case *ComponentInteractionContext:
		return v.Session, v.Event, v.Services, true
	}
	return nil, nil, nil, false
}

// SlashProvider is implemented by commands registered as slash commands.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// ComponentInteractionHandler receives button clicks whose custom ID starts
// with the command name.
type ComponentInteractionHandler interface {
	Component(ctx context.Context, c *ComponentInteractionContext) error
}

// DiscordMeta lets /help read a command's category through middleware.
type DiscordMeta interface {
	Category() string
}

// DiscordCommand is what individual Discord commands implement.
type DiscordCommand interface {
	Name() string
	Description() string
	Category() string
	Run(ctx context.Context, data any) error
}

// DiscordAdapter puts a DiscordCommand into the cmd registry. Component
// contexts are routed to the command's Component method so middleware
// applies to button clicks too.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string        { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string { return a.Cmd.Description() }
func (a *DiscordAdapter) Category() string    { return a.Cmd.Category() }

func (a *DiscordAdapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	if cc, ok := inv.Data.(*ComponentInteractionContext); ok {
		if h, ok := a.Cmd.(ComponentInteractionHandler); ok {
			return h.Component(ctx, cc)
		}
		return nil
	}
	return a.Cmd.Run(ctx, inv.Data)
}

func (a *DiscordAdapter) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := a.Cmd.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// RegisterCommand wraps discordCmd in mws (first runs first) and adds it to
// the default registry.
func RegisterCommand(discordCmd DiscordCommand, mws ...cmd.Middleware) {
	cmd.DefaultRegistry.MustRegister(cmd.Apply(&DiscordAdapter{Cmd: discordCmd}, mws...))
}

// Text returns an English message, used for slash command definitions.
func Text(key string) string {
	return defaultMessages.Get(key)
}

// Localizations returns key in every other embedded locale, keyed by the
// Discord locale it maps to.
func Localizations(key string) *map[discordgo.Locale]string {
	out := make(map[discordgo.Locale]string)
	for locale, catalog := range localizedMessages {
		if msg := catalog.Get(key); msg != key {
			out[locale] = msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &out
}

var defaultMessages = i18n.MustLoad(i18n.DefaultLocale)

var localizedMessages = map[discordgo.Locale]*i18n.Catalog{
	discordgo.SpanishES: i18n.MustLoad("es"),
}

// OptionLocalizations is Localizations for command options, which take the
// map by value.
func OptionLocalizations(key string) map[discordgo.Locale]string {
	if m := Localizations(key); m != nil {
		return *m
	}
	return nil
}
