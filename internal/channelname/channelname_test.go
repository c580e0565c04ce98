package channelname

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	nicks map[string]bool
	err   error
}

func (f fakeLookup) Exists(_ context.Context, nick string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.nicks[strings.ToLower(nick)], nil
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "💲│150-Steve123", Encode(150, "Steve123"))
}

func TestMarkSold(t *testing.T) {
	name := Encode(150, "Steve123")
	sold := MarkSold(name)

	assert.Equal(t, "❌│150-Steve123", sold)
	assert.True(t, IsSold(sold))
	assert.False(t, IsSold(name))

	nick, ok := Split(sold)
	require.True(t, ok)
	assert.Equal(t, "Steve123", nick)

	assert.Equal(t, sold, MarkSold(sold))

	renamed := MarkSold("150-steve123")
	assert.True(t, IsSold(renamed))
	nick, ok = Split(renamed)
	require.True(t, ok)
	assert.Equal(t, "steve123", nick)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"💲|150-Steve123", "Steve123", true},
		{"💲│150-steve123", "steve123", true},
		{"general", "", false},
		{"trailing-", "", false},
		{"a-b-c", "b-c", true},
	}
	for _, tt := range tests {
		got, ok := Split(tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestResolve(t *testing.T) {
	r := NewResolver(fakeLookup{nicks: map[string]bool{"steve123": true}})
	ctx := context.Background()

	ok, nick, err := r.Resolve(ctx, "💲|150-Steve123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Steve123", nick)

	// Discord lowercases channel names
	ok, nick, err = r.Resolve(ctx, "💲│150-steve123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "steve123", nick)

	ok, _, err = r.Resolve(ctx, "💲|150-Alex")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _, err = r.Resolve(ctx, "general")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolvePropagatesLookupErrors(t *testing.T) {
	boom := errors.New("db down")
	r := NewResolver(fakeLookup{err: boom})

	ok, _, err := r.Resolve(context.Background(), "💲|150-Steve123")
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}
