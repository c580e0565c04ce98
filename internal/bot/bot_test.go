package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/account-market/internal/config"
	"github.com/keshon/account-market/internal/market"
)

// the real session must stay usable as the effect executor's API
var _ ChannelAPI = (*discordgo.Session)(nil)

type call struct {
	op, id, name, parent string
}

type fakeChannels struct {
	calls []call
	fail  string
}

func (f *fakeChannels) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.calls = append(f.calls, call{"create", guildID, data.Name, data.ParentID})
	if f.fail == "create" {
		return nil, errors.New("missing access")
	}
	return &discordgo.Channel{ID: "new-1", Name: data.Name, ParentID: data.ParentID}, nil
}

func (f *fakeChannels) ChannelEdit(channelID string, data *discordgo.ChannelEdit, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.calls = append(f.calls, call{"edit", channelID, data.Name, data.ParentID})
	if f.fail == "edit" {
		return nil, errors.New("missing access")
	}
	return &discordgo.Channel{ID: channelID}, nil
}

func (f *fakeChannels) ChannelDelete(channelID string, opts ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.calls = append(f.calls, call{op: "delete", id: channelID})
	if f.fail == "delete" {
		return nil, errors.New("missing access")
	}
	return &discordgo.Channel{ID: channelID}, nil
}

func TestChannelsExecute(t *testing.T) {
	api := &fakeChannels{}
	c := NewChannels(api, nil)

	id, err := c.Execute("g1", market.CreateChannel{Name: "steve│10│free", CategoryID: "cat-sale"})
	require.NoError(t, err)
	assert.Equal(t, "new-1", id)

	err = c.ExecuteAll("g1", []market.Effect{
		market.EditChannel{ChannelID: "ch-1", Name: "steve│10│reserved", CategoryID: "cat-res"},
		market.DeleteChannel{ChannelID: "ch-2", Reason: "User removed from database"},
	})
	require.NoError(t, err)

	assert.Equal(t, []call{
		{"create", "g1", "steve│10│free", "cat-sale"},
		{"edit", "ch-1", "steve│10│reserved", "cat-res"},
		{op: "delete", id: "ch-2"},
	}, api.calls)
}

func TestChannelsExecuteStopsOnFailure(t *testing.T) {
	api := &fakeChannels{fail: "edit"}
	c := NewChannels(api, nil)

	err := c.ExecuteAll("g1", []market.Effect{
		market.EditChannel{ChannelID: "ch-1", Name: "x"},
		market.DeleteChannel{ChannelID: "ch-2"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ch-1")
	assert.Len(t, api.calls, 1)
}

func TestGuildCategories(t *testing.T) {
	channels := map[string]*discordgo.Channel{
		"cat-sale": {ID: "cat-sale", GuildID: "g1", Type: discordgo.ChannelTypeGuildCategory},
		"cat-sold": {ID: "cat-sold", GuildID: "g1", Type: discordgo.ChannelTypeGuildText},
		"cat-res":  {ID: "cat-res", GuildID: "g2", Type: discordgo.ChannelTypeGuildCategory},
	}
	g := GuildCategories{
		GuildID: "g1",
		IDs:     config.Categories{ForSale: "cat-sale", Sold: "cat-sold", Reservations: "cat-res"},
		Channel: func(id string) (*discordgo.Channel, error) {
			if ch, ok := channels[id]; ok {
				return ch, nil
			}
			return nil, errors.New("unknown channel")
		},
	}

	id, ok := g.Lookup(market.CategoryForSale)
	assert.True(t, ok)
	assert.Equal(t, "cat-sale", id)

	_, ok = g.Lookup(market.CategorySold)
	assert.False(t, ok, "text channel is not a category")

	_, ok = g.Lookup(market.CategoryReservations)
	assert.False(t, ok, "category of another guild")

	g.IDs.ForSale = ""
	_, ok = g.Lookup(market.CategoryForSale)
	assert.False(t, ok, "unconfigured")
}

func TestGuildCategoriesWithoutLookup(t *testing.T) {
	g := GuildCategories{IDs: config.Categories{Sold: "42"}}
	id, ok := g.Lookup(market.CategorySold)
	assert.True(t, ok)
	assert.Equal(t, "42", id)
}

func TestInteractionUser(t *testing.T) {
	member := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "1"}, Roles: []string{"r"}},
	}}
	assert.Equal(t, "1", User(member).ID)
	assert.Equal(t, []string{"r"}, MemberRoles(member))

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "2"}}}
	assert.Equal(t, "2", User(dm).ID)
	assert.Nil(t, MemberRoles(dm))
}
