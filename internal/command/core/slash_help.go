// Package core holds commands that are not about accounts.
package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/internal/config"
	"github.com/keshon/account-market/internal/middleware"
	"github.com/keshon/account-market/pkg/cmd"
)

type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return command.Text("commands.help.description") }
func (c *HelpCommand) Category() string    { return "🕯️ Information" }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DescriptionLocalizations: command.Localizations("commands.help.description"),
	}
}

func (c *HelpCommand) Run(ctx context.Context, data any) error {
	sc, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	return bot.RespondEmbedEphemeral(sc.Session, sc.Event, &discordgo.MessageEmbed{
		Title:       sc.Services.Text("commands.help.title"),
		Description: buildHelpByCategory(cmd.DefaultRegistry.All()),
		Color:       bot.EmbedColor,
	})
}

// buildHelpByCategory lists slash commands under their category, categories
// ordered by config.CategoryWeights and unknown ones last.
func buildHelpByCategory(all []cmd.Command) string {
	byCategory := make(map[string][]cmd.Command)
	for _, c := range all {
		root := cmd.Root(c)
		if _, ok := root.(command.SlashProvider); !ok {
			continue
		}
		cat := "Other"
		if meta, ok := root.(command.DiscordMeta); ok && meta.Category() != "" {
			cat = meta.Category()
		}
		byCategory[cat] = append(byCategory[cat], c)
	}

	cats := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	weight := func(cat string) int {
		if w, ok := config.CategoryWeights[cat]; ok {
			return w
		}
		return 1 << 20
	}
	sort.Slice(cats, func(i, j int) bool {
		if wi, wj := weight(cats[i]), weight(cats[j]); wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})

	var sb strings.Builder
	for i, cat := range cats {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "**%s**\n", cat)
		for _, c := range byCategory[cat] {
			fmt.Fprintf(&sb, "`/%s` - %s\n", c.Name(), c.Description())
		}
	}
	return sb.String()
}

func init() {
	command.RegisterCommand(&HelpCommand{},
		middleware.WithCommandLogger(),
		middleware.WithMetrics(),
		middleware.WithRecover(),
	)
}
