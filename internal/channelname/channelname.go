// Package channelname converts between an account and the name of its
// Discord text channel: "<glyph>│<price>-<nick>".
//
// The nick segment is the only part read back; it survives the sold marker
// so a sold channel can still be traced to its account.
package channelname

import (
	"context"
	"strconv"
	"strings"
)

const (
	ForSaleGlyph = "💲"
	SoldGlyph    = "❌"

	// Separator sits between the glyph and the price. Discord rewrites a plain
	// "|" in text channel names, the box-drawing bar is kept as is.
	Separator = "│"

	nickDelimiter = "-"
)

// Encode builds the name of a freshly listed account channel.
func Encode(price int64, nick string) string {
	return ForSaleGlyph + Separator + strconv.FormatInt(price, 10) + nickDelimiter + nick
}

// MarkSold swaps the for-sale glyph for the sold marker. Names that lost the
// glyph get the marker prepended so IsSold holds afterwards.
func MarkSold(name string) string {
	if IsSold(name) {
		return name
	}
	if strings.Contains(name, ForSaleGlyph) {
		return strings.Replace(name, ForSaleGlyph, SoldGlyph, 1)
	}
	return SoldGlyph + Separator + name
}

// IsSold reports whether the name carries the sold marker.
func IsSold(name string) bool {
	return strings.Contains(name, SoldGlyph)
}

// Split returns the nick segment of a channel name: everything after the
// first "-". It does not check that the account exists.
func Split(name string) (string, bool) {
	_, nick, found := strings.Cut(name, nickDelimiter)
	if !found || nick == "" {
		return "", false
	}
	return nick, true
}

// Lookup answers whether an account with the given nick exists, ignoring case.
type Lookup interface {
	Exists(ctx context.Context, nick string) (bool, error)
}

// Resolver maps channel names back to accounts using the store.
type Resolver struct {
	Lookup Lookup
}

// NewResolver returns a Resolver backed by l.
func NewResolver(l Lookup) *Resolver {
	return &Resolver{Lookup: l}
}

// Resolve reports whether name belongs to an account channel and returns the
// nick segment. A well-formed name without a matching account is not an
// account channel. Store failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, name string) (bool, string, error) {
	nick, ok := Split(name)
	if !ok {
		return false, "", nil
	}

	exists, err := r.Lookup.Exists(ctx, nick)
	if err != nil {
		return false, "", err
	}
	if !exists {
		return false, "", nil
	}
	return true, nick, nil
}
