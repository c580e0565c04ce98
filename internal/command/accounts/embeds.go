package accounts

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/account-market/internal/account"
	"github.com/keshon/account-market/internal/bot"
	"github.com/keshon/account-market/internal/command"
)

const createdLayout = "2006-01-02 15:04:05"

func thumbnail(url string) *discordgo.MessageEmbedThumbnail {
	if url == "" {
		return nil
	}
	return &discordgo.MessageEmbedThumbnail{URL: url}
}

// listedEmbed confirms a new listing.
func listedEmbed(svc *command.Services, nick, avatarURL string, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       svc.Text("commands.nick.embed.title"),
		Description: svc.Format("commands.nick.embed.description", "name", nick),
		Color:       account.ForSale.Color(),
		Thumbnail:   thumbnail(avatarURL),
		Timestamp:   now.UTC().Format(time.RFC3339),
	}
}

// statusEmbed is the /status card. Buyer and reason only show for the
// status they belong to.
func statusEmbed(svc *command.Services, acc account.Account, avatarURL string, now time.Time) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: svc.Text("commands.status.embed.status"), Value: acc.Status.String(), Inline: true},
	}
	switch acc.Status {
	case account.Inactive:
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: svc.Text("commands.status.embed.reason"), Value: orDash(acc.InactiveReason), Inline: true,
		})
	case account.Sold:
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: svc.Text("commands.status.embed.buyer"), Value: orDash(acc.Buyer), Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:       svc.Format("commands.status.embed.title", "name", acc.Nick),
		Description: svc.Format("commands.status.embed.description", "name", acc.Nick),
		Color:       acc.Status.Color(),
		Thumbnail:   thumbnail(avatarURL),
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: svc.Format("commands.status.embed.footer", "date", acc.CreatedAt.UTC().Format(createdLayout)),
		},
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// listEmbed renders one page, with a blank line between status groups.
func listEmbed(svc *command.Services, p page) *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString(svc.Format("commands.list.embed.description", "accounts", strconv.Itoa(p.Total)))

	var previous account.Status
	for i, acc := range p.Items {
		if i > 0 && acc.Status != previous {
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(acc.Status.Emoji() + " " + acc.Nick + " - (" + acc.Status.String() + ")")
		previous = acc.Status
	}

	return &discordgo.MessageEmbed{
		Title:       svc.Text("commands.list.embed.title"),
		Description: b.String(),
		Color:       bot.EmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: svc.Format("commands.list.embed.footer",
				"page", strconv.Itoa(p.Index+1),
				"pages", strconv.Itoa(p.Count)),
		},
	}
}

func listButtons(svc *command.Services, p page) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    svc.Text("commands.list.embed.buttons.previous"),
				Style:    discordgo.PrimaryButton,
				CustomID: pagerID(directionPrev, p.Index),
			},
			discordgo.Button{
				Label:    svc.Text("commands.list.embed.buttons.next"),
				Style:    discordgo.PrimaryButton,
				CustomID: pagerID(directionNext, p.Index),
			},
		}},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
