// Package market turns marketplace commands into store mutations and the
// channel changes the Discord side has to carry out afterwards.
//
// Nothing here talks to Discord. Every operation returns a Result whose
// Effects the caller executes in order.
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/account-market/internal/account"
	"github.com/keshon/account-market/internal/channelname"
)

var (
	ErrNoPermission      = errors.New("missing marketplace role")
	ErrNotAccountChannel = errors.New("not an account channel")
	ErrAlreadySold       = errors.New("account channel is frozen after sale")
	ErrCategoryNotFound  = errors.New("channel category not configured")
	ErrInvalidPassword   = errors.New("invalid password")

	ErrMissingBuyer = fmt.Errorf("%w: buyer is required", account.ErrInvalidInput)
)

// Store is the subset of the account store the service needs.
type Store interface {
	channelname.Lookup
	Create(ctx context.Context, nick string, price int64) (account.ID, error)
	Get(ctx context.Context, nick string) (account.Account, error)
	List(ctx context.Context, status *account.Status) ([]account.Account, error)
	LinkChannel(ctx context.Context, nick, channelID string) error
	Transition(ctx context.Context, nick string, from, to account.Status, ch account.Changes) error
	Remove(ctx context.Context, nick string) error
}

// Category is a logical channel category of the marketplace.
type Category int

const (
	CategoryForSale Category = iota + 1
	CategorySold
	CategoryReservations
)

func (c Category) String() string {
	switch c {
	case CategoryForSale:
		return "for-sale"
	case CategorySold:
		return "sold"
	case CategoryReservations:
		return "reservations"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// CategoryError reports which category a command could not find.
type CategoryError struct {
	Category Category
	Command  string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCategoryNotFound, e.Category)
}

func (e *CategoryError) Is(target error) bool { return target == ErrCategoryNotFound }

// CategoryRegistry resolves a logical category to the guild's category ID.
type CategoryRegistry interface {
	Lookup(c Category) (id string, ok bool)
}

// Request is who invoked a command and where.
type Request struct {
	ActorID     string
	ActorRoles  []string
	GuildID     string
	ChannelID   string
	ChannelName string
	Categories  CategoryRegistry
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeListed
	OutcomeSold
	OutcomeReserved
	OutcomeUnreserved
	OutcomeInactivated
	OutcomeReactivated
	OutcomeRemoved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeListed:
		return "listed"
	case OutcomeSold:
		return "sold"
	case OutcomeReserved:
		return "reserved"
	case OutcomeUnreserved:
		return "unreserved"
	case OutcomeInactivated:
		return "inactivated"
	case OutcomeReactivated:
		return "reactivated"
	case OutcomeRemoved:
		return "removed"
	}
	return "none"
}

// Result is a completed mutation plus the channel work still to be done.
type Result struct {
	Outcome Outcome
	Account account.Account
	Effects []Effect
}

// Effect is a channel change requested from the transport.
type Effect interface {
	effect()
}

// CreateChannel asks for a new text channel under CategoryID. The caller
// reports the new channel back through Service.CompleteListing.
type CreateChannel struct {
	Name       string
	CategoryID string
}

// EditChannel renames and/or moves a channel. Empty fields are left as they are.
type EditChannel struct {
	ChannelID  string
	Name       string
	CategoryID string
}

type DeleteChannel struct {
	ChannelID string
	Reason    string
}

func (CreateChannel) effect() {}
func (EditChannel) effect()   {}
func (DeleteChannel) effect() {}
