package accounts

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/account-market/internal/account"
	"github.com/keshon/account-market/internal/command"
	"github.com/keshon/account-market/internal/market"
	"github.com/keshon/account-market/pkg/cmd"
)

func accounts(n int) []account.Account {
	out := make([]account.Account, n)
	for i := range out {
		out[i] = account.Account{Nick: fmt.Sprintf("nick%02d", i), Status: account.ForSale, Price: 10}
	}
	return out
}

func TestPaginate(t *testing.T) {
	assert.Equal(t, 1, pageCount(0))
	assert.Equal(t, 1, pageCount(15))
	assert.Equal(t, 2, pageCount(16))

	all := accounts(32)
	p := paginate(all, 0)
	assert.Equal(t, 0, p.Index)
	assert.Equal(t, 3, p.Count)
	assert.Len(t, p.Items, 15)

	p = paginate(all, 2)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, "nick30", p.Items[0].Nick)

	assert.Equal(t, 2, paginate(all, 9).Index, "clamped high")
	assert.Equal(t, 0, paginate(all, -1).Index, "clamped low")
	assert.Empty(t, paginate(nil, 0).Items)
}

func TestPagerID(t *testing.T) {
	tests := []struct {
		id     string
		count  int
		target int
		ok     bool
	}{
		{pagerID(directionNext, 0), 3, 1, true},
		{pagerID(directionNext, 2), 3, 3, false},
		{pagerID(directionPrev, 1), 3, 0, true},
		{pagerID(directionPrev, 0), 3, -1, false},
	}
	for _, tt := range tests {
		target, ok, err := parsePagerID(tt.id, tt.count)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.target, target, tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
	}

	for _, bad := range []string{"list", "list:up:1", "list:next:x", "sold:next:1"} {
		_, _, err := parsePagerID(bad, 3)
		assert.Error(t, err, bad)
	}
}

func TestListEmbedGroupsStatuses(t *testing.T) {
	list := []account.Account{
		{Nick: "Alex", Status: account.ForSale},
		{Nick: "Bob", Status: account.ForSale},
		{Nick: "Cid", Status: account.Sold},
	}
	embed := listEmbed(&command.Services{}, paginate(list, 0))

	assert.Equal(t, "Accounts", embed.Title)
	assert.Equal(t, "Page 1 of 1", embed.Footer.Text)
	lines := strings.Split(embed.Description, "\n")
	assert.Equal(t, []string{
		"Total accounts: 3",
		"🟢 Alex - (FOR SALE)",
		"🟢 Bob - (FOR SALE)",
		"",
		"🔴 Cid - (SOLD)",
	}, lines)
}

func TestListButtons(t *testing.T) {
	rows := listButtons(&command.Services{}, page{Index: 4})
	require.Len(t, rows, 1)
	row := rows[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 2)
	assert.Equal(t, "list:prev:4", row.Components[0].(discordgo.Button).CustomID)
	assert.Equal(t, "list:next:4", row.Components[1].(discordgo.Button).CustomID)
}

func TestStatusEmbed(t *testing.T) {
	svc := &command.Services{}
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	sold := statusEmbed(svc, account.Account{Nick: "Alex", Status: account.Sold, Buyer: "Bob", CreatedAt: created}, "https://img/a", now)
	assert.Equal(t, "Alex", sold.Title)
	assert.Equal(t, "Details of Alex", sold.Description)
	assert.Equal(t, account.Sold.Color(), sold.Color)
	assert.Equal(t, "https://img/a", sold.Thumbnail.URL)
	assert.Equal(t, "Account created on 2024-03-01 12:30:00", sold.Footer.Text)
	require.Len(t, sold.Fields, 2)
	assert.Equal(t, "SOLD", sold.Fields[0].Value)
	assert.Equal(t, "Account Buyer", sold.Fields[1].Name)
	assert.Equal(t, "Bob", sold.Fields[1].Value)

	inactive := statusEmbed(svc, account.Account{Nick: "Alex", Status: account.Inactive, InactiveReason: "Default", Buyer: "stale"}, "", now)
	assert.Nil(t, inactive.Thumbnail)
	require.Len(t, inactive.Fields, 2)
	assert.Equal(t, "Reason for inactivity", inactive.Fields[1].Name)

	forSale := statusEmbed(svc, account.Account{Nick: "Alex", Status: account.ForSale, Buyer: "stale"}, "", now)
	assert.Len(t, forSale.Fields, 1)
}

func TestListedEmbed(t *testing.T) {
	e := listedEmbed(&command.Services{}, "Alex", "https://img/a", time.Unix(0, 0))
	assert.Equal(t, "Account listed", e.Title)
	assert.Equal(t, "Alex is now for sale.", e.Description)
	assert.Equal(t, "1970-01-01T00:00:00Z", e.Timestamp)
}

func TestFail(t *testing.T) {
	var sent []string
	reply := func(msg string) error { sent = append(sent, msg); return nil }

	err := fail(&command.Services{}, reply, market.ErrNoPermission)
	var reported *command.ReportedError
	assert.ErrorAs(t, err, &reported)
	assert.ErrorIs(t, err, market.ErrNoPermission)

	err = fail(&command.Services{}, reply, &market.CategoryError{Category: market.CategorySold, Command: "mark-sold"})
	assert.ErrorIs(t, err, market.ErrCategoryNotFound)

	assert.Equal(t, []string{
		"You do not have permission to use this command.",
		"Something went wrong while running this command.",
	}, sent)

	broken := func(string) error { return errors.New("unknown interaction") }
	err = fail(&command.Services{}, broken, market.ErrAlreadySold)
	assert.False(t, errors.As(err, &reported), "a failed reply is not reported")
}

func TestOptions(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "username", Type: discordgo.ApplicationCommandOptionString, Value: "Alex"},
		{Name: "price", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(25)},
	}
	assert.Equal(t, "Alex", stringOption(opts, "username"))
	assert.Equal(t, int64(25), intOption(opts, "price"))
	assert.Equal(t, "", stringOption(opts, "reason"))
	assert.Equal(t, int64(0), intOption(opts, "username"))
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"nick", "sold", "reserve", "inactive", "list", "status", "remove"} {
		c, ok := cmd.DefaultRegistry.Get(name)
		require.True(t, ok, name)

		slash, ok := cmd.Root(c).(command.SlashProvider)
		require.True(t, ok, name)
		def := slash.SlashDefinition()
		assert.Equal(t, name, def.Name)
		assert.NotEmpty(t, def.Description)
		require.NotNil(t, def.DMPermission)
		assert.False(t, *def.DMPermission)

		meta, ok := cmd.Root(c).(command.DiscordMeta)
		require.True(t, ok)
		assert.Equal(t, category, meta.Category())
	}

	c, _ := cmd.DefaultRegistry.Get("list")
	_, ok := cmd.Root(c).(*command.DiscordAdapter).Cmd.(command.ComponentInteractionHandler)
	assert.True(t, ok, "list pages through buttons")
}
