package market

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/account-market/internal/account"
	"github.com/keshon/account-market/internal/channelname"
	"github.com/keshon/account-market/internal/storage"
)

const (
	roleID   = "role-seller"
	password = "hunter2"
)

type categories map[Category]string

func (c categories) Lookup(cat Category) (string, bool) {
	id, ok := c[cat]
	return id, ok
}

var allCategories = categories{
	CategoryForSale:      "cat-sale",
	CategorySold:         "cat-sold",
	CategoryReservations: "cat-res",
}

func newService(t *testing.T) (*Service, *storage.Storage) {
	t.Helper()
	st, err := storage.Open(filepath.Join(t.TempDir(), "accounts.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st, Options{RoleID: roleID, RemovePassword: password}), st
}

func seller() Request {
	return Request{ActorID: "u1", ActorRoles: []string{"other", roleID}, GuildID: "g1", Categories: allCategories}
}

func inChannel(name string) Request {
	req := seller()
	req.ChannelID = "ch1"
	req.ChannelName = name
	return req
}

// list creates an account through the service and returns its channel name.
func list(t *testing.T, svc *Service, nick string, price int64) string {
	t.Helper()
	res, err := svc.ListForSale(context.Background(), seller(), nick, price)
	require.NoError(t, err)
	require.Len(t, res.Effects, 1)
	create := res.Effects[0].(CreateChannel)
	require.NoError(t, svc.CompleteListing(context.Background(), nick, "ch1"))
	return create.Name
}

func TestAuthorizationComesFirst(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	stranger := Request{ActorID: "u2", ActorRoles: []string{"other"}, Categories: allCategories, ChannelName: "garbage"}

	_, err := svc.ListForSale(ctx, stranger, "x", -1)
	assert.ErrorIs(t, err, ErrNoPermission)
	_, err = svc.MarkSold(ctx, stranger, "")
	assert.ErrorIs(t, err, ErrNoPermission)
	_, err = svc.ToggleReserve(ctx, stranger)
	assert.ErrorIs(t, err, ErrNoPermission)
	_, err = svc.ToggleInactive(ctx, stranger, "")
	assert.ErrorIs(t, err, ErrNoPermission)
	_, err = svc.ListAccounts(ctx, stranger)
	assert.ErrorIs(t, err, ErrNoPermission)
	_, err = svc.Status(ctx, stranger, "!")
	assert.ErrorIs(t, err, ErrNoPermission)
	_, err = svc.Remove(ctx, stranger, password)
	assert.ErrorIs(t, err, ErrNoPermission)

	all, err := st.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListForSale(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	res, err := svc.ListForSale(ctx, seller(), "Steve123", 150)
	require.NoError(t, err)
	assert.Equal(t, OutcomeListed, res.Outcome)
	assert.Equal(t, account.ForSale, res.Account.Status)
	assert.Equal(t, []Effect{CreateChannel{Name: "💲│150-Steve123", CategoryID: "cat-sale"}}, res.Effects)

	require.NoError(t, svc.CompleteListing(ctx, "Steve123", "chan-42"))
	acc, err := st.Get(ctx, "steve123")
	require.NoError(t, err)
	assert.Equal(t, "chan-42", acc.ChannelID)

	t.Run("duplicate in other case", func(t *testing.T) {
		_, err := svc.ListForSale(ctx, seller(), "STEVE123", 10)
		assert.ErrorIs(t, err, account.ErrConflict)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.ListForSale(ctx, seller(), "no", 10)
		assert.ErrorIs(t, err, account.ErrInvalidNick)
		_, err = svc.ListForSale(ctx, seller(), "Alex", 0)
		assert.ErrorIs(t, err, account.ErrInvalidPrice)
	})

	t.Run("missing category creates nothing", func(t *testing.T) {
		req := seller()
		req.Categories = categories{}
		_, err := svc.ListForSale(ctx, req, "Alex", 10)
		assert.ErrorIs(t, err, ErrCategoryNotFound)

		ok, err := st.Exists(ctx, "Alex")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAbortListing(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	_, err := svc.ListForSale(ctx, seller(), "Alex", 10)
	require.NoError(t, err)
	require.NoError(t, svc.AbortListing(ctx, "Alex"))

	ok, err := st.Exists(ctx, "Alex")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkSold(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	name := list(t, svc, "Steve123", 150)

	res, err := svc.MarkSold(ctx, inChannel(name), "  bob ")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSold, res.Outcome)
	assert.Equal(t, []Effect{EditChannel{ChannelID: "ch1", Name: "❌│150-Steve123", CategoryID: "cat-sold"}}, res.Effects)

	acc, err := st.Get(ctx, "Steve123")
	require.NoError(t, err)
	assert.Equal(t, account.Sold, acc.Status)
	assert.Equal(t, "bob", acc.Buyer)

	t.Run("frozen by name", func(t *testing.T) {
		sold := channelname.MarkSold(name)
		_, err := svc.ToggleReserve(ctx, inChannel(sold))
		assert.ErrorIs(t, err, ErrAlreadySold)
		_, err = svc.ToggleInactive(ctx, inChannel(sold), "")
		assert.ErrorIs(t, err, ErrAlreadySold)
		_, err = svc.Remove(ctx, inChannel(sold), password)
		assert.ErrorIs(t, err, ErrAlreadySold)
	})

	t.Run("sold without the marker follows the state machine", func(t *testing.T) {
		_, err := svc.MarkSold(ctx, inChannel(name), "eve")
		assert.ErrorIs(t, err, account.ErrInvalidTransition)
		_, err = svc.ToggleReserve(ctx, inChannel(name))
		assert.ErrorIs(t, err, account.ErrInvalidTransition)

		res, err := svc.ToggleInactive(ctx, inChannel(name), "chargeback")
		require.NoError(t, err)
		assert.Equal(t, OutcomeInactivated, res.Outcome)

		acc, err := st.Get(ctx, "Steve123")
		require.NoError(t, err)
		assert.Equal(t, account.Inactive, acc.Status)
		assert.Equal(t, "chargeback", acc.InactiveReason)
		assert.Equal(t, "bob", acc.Buyer)
	})
}

func TestAuthorize(t *testing.T) {
	svc, st := newService(t)
	assert.NoError(t, svc.Authorize([]string{"x", roleID}))
	assert.ErrorIs(t, svc.Authorize([]string{"x"}), ErrNoPermission)
	assert.ErrorIs(t, svc.Authorize(nil), ErrNoPermission)

	open := New(st, Options{})
	assert.ErrorIs(t, open.Authorize([]string{""}), ErrNoPermission, "no role configured")
}

func TestMarkSoldFromReserved(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	name := list(t, svc, "Alex", 10)

	_, err := svc.ToggleReserve(ctx, inChannel(name))
	require.NoError(t, err)
	_, err = svc.MarkSold(ctx, inChannel(name), "bob")
	require.NoError(t, err)

	acc, err := st.Get(ctx, "Alex")
	require.NoError(t, err)
	assert.Equal(t, account.Sold, acc.Status)
}

func TestMarkSoldRequiresBuyer(t *testing.T) {
	svc, _ := newService(t)
	name := list(t, svc, "Alex", 10)

	_, err := svc.MarkSold(context.Background(), inChannel(name), " ")
	assert.ErrorIs(t, err, ErrMissingBuyer)
	assert.ErrorIs(t, err, account.ErrInvalidInput)
}

func TestToggleReserveRoundTrip(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	name := list(t, svc, "Alex", 10)

	before, err := st.Get(ctx, "Alex")
	require.NoError(t, err)

	res, err := svc.ToggleReserve(ctx, inChannel(name))
	require.NoError(t, err)
	assert.Equal(t, OutcomeReserved, res.Outcome)
	assert.Equal(t, []Effect{EditChannel{ChannelID: "ch1", CategoryID: "cat-res"}}, res.Effects)

	res, err = svc.ToggleReserve(ctx, inChannel(name))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnreserved, res.Outcome)
	assert.Equal(t, []Effect{EditChannel{ChannelID: "ch1", CategoryID: "cat-sale"}}, res.Effects)

	after, err := st.Get(ctx, "Alex")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestToggleReserveMissingCategoryLeavesStatus(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	name := list(t, svc, "Alex", 10)

	req := inChannel(name)
	req.Categories = categories{CategoryForSale: "cat-sale"}
	_, err := svc.ToggleReserve(ctx, req)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	acc, err := st.Get(ctx, "Alex")
	require.NoError(t, err)
	assert.Equal(t, account.ForSale, acc.Status)
}

func TestToggleInactive(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	name := list(t, svc, "Alex", 10)

	res, err := svc.ToggleInactive(ctx, inChannel(name), "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeInactivated, res.Outcome)
	assert.Empty(t, res.Effects)
	assert.Equal(t, DefaultInactiveReason, res.Account.InactiveReason)

	t.Run("inactive rejects other operations", func(t *testing.T) {
		_, err := svc.MarkSold(ctx, inChannel(name), "bob")
		assert.ErrorIs(t, err, account.ErrInactive)
		_, err = svc.ToggleReserve(ctx, inChannel(name))
		assert.ErrorIs(t, err, account.ErrInactive)

		acc, err := st.Get(ctx, "Alex")
		require.NoError(t, err)
		assert.Equal(t, account.Inactive, acc.Status)
		assert.Empty(t, acc.Buyer)
	})

	res, err = svc.ToggleInactive(ctx, inChannel(name), "ignored")
	require.NoError(t, err)
	assert.Equal(t, OutcomeReactivated, res.Outcome)

	acc, err := st.Get(ctx, "Alex")
	require.NoError(t, err)
	assert.Equal(t, account.ForSale, acc.Status)
	// the reason is kept from the last deactivation
	assert.Equal(t, DefaultInactiveReason, acc.InactiveReason)

	_, err = svc.ToggleInactive(ctx, inChannel(name), "banned")
	require.NoError(t, err)
	acc, err = st.Get(ctx, "Alex")
	require.NoError(t, err)
	assert.Equal(t, "banned", acc.InactiveReason)
}

func TestChannelResolution(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	list(t, svc, "Steve123", 150)

	tests := []struct {
		name    string
		channel string
	}{
		{"no dash", "general"},
		{"unknown nick", "💲│150-Nobody"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ToggleReserve(ctx, inChannel(tt.channel))
			assert.ErrorIs(t, err, ErrNotAccountChannel)
		})
	}

	t.Run("nick in other case", func(t *testing.T) {
		res, err := svc.ToggleReserve(ctx, inChannel("💲│150-steve123"))
		require.NoError(t, err)
		assert.Equal(t, "Steve123", res.Account.Nick)
	})
}

func TestRemove(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	name := list(t, svc, "Alex", 10)

	_, err := svc.Remove(ctx, inChannel(name), "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	ok, err := st.Exists(ctx, "Alex")
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := svc.Remove(ctx, inChannel(name), password)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, res.Outcome)
	assert.Equal(t, []Effect{DeleteChannel{ChannelID: "ch1", Reason: removeReason}}, res.Effects)

	ok, err = st.Exists(ctx, "Alex")
	require.NoError(t, err)
	assert.False(t, ok)

	// the channel no longer resolves to an account
	_, err = svc.Remove(ctx, inChannel(name), password)
	assert.ErrorIs(t, err, ErrNotAccountChannel)
}

func TestRemoveWithoutConfiguredPassword(t *testing.T) {
	st, err := storage.Open(filepath.Join(t.TempDir(), "accounts.db"), nil)
	require.NoError(t, err)
	defer st.Close()

	svc := New(st, Options{RoleID: roleID})
	name := list(t, svc, "Alex", 10)

	_, err = svc.Remove(context.Background(), inChannel(name), "")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestListAccountsOrder(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	for nick, price := range map[string]int64{"sale100": 100, "reserved50": 50, "sold200": 200, "inactive10": 10, "sale300": 300} {
		_, err := st.Create(ctx, nick, price)
		require.NoError(t, err)
	}
	require.NoError(t, st.Transition(ctx, "reserved50", account.ForSale, account.Reserved, account.Changes{}))
	require.NoError(t, st.Transition(ctx, "sold200", account.ForSale, account.Sold, account.Changes{}))
	require.NoError(t, st.Transition(ctx, "inactive10", account.ForSale, account.Inactive, account.Changes{}))

	got, err := svc.ListAccounts(ctx, seller())
	require.NoError(t, err)

	var nicks []string
	for _, a := range got {
		nicks = append(nicks, a.Nick)
	}
	assert.Equal(t, []string{"sale300", "sale100", "reserved50", "sold200", "inactive10"}, nicks)
}

func TestStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	list(t, svc, "Alex", 10)

	acc, err := svc.Status(ctx, seller(), "ALEX")
	require.NoError(t, err)
	assert.Equal(t, "Alex", acc.Nick)

	_, err = svc.Status(ctx, seller(), "Nobody")
	assert.ErrorIs(t, err, account.ErrNotFound)

	_, err = svc.Status(ctx, seller(), "a")
	assert.ErrorIs(t, err, account.ErrInvalidInput)
}
