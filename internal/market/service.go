package market

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/keshon/account-market/internal/account"
	"github.com/keshon/account-market/internal/channelname"
)

// DefaultInactiveReason is stored when an account is deactivated without a reason.
const DefaultInactiveReason = "Default"

const removeReason = "User removed from database"

type Options struct {
	// RoleID is the Discord role every command requires.
	RoleID         string
	RemovePassword string
	Logger         *slog.Logger
}

type Service struct {
	store    Store
	resolver *channelname.Resolver
	roleID   string
	password string
	logger   *slog.Logger
}

func New(store Store, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		resolver: channelname.NewResolver(store),
		roleID:   opts.RoleID,
		password: opts.RemovePassword,
		logger:   logger.With("component", "market"),
	}
}

// ListForSale creates a FOR SALE account and asks for its channel.
func (s *Service) ListForSale(ctx context.Context, req Request, nick string, price int64) (Result, error) {
	if err := s.authorize(req); err != nil {
		return Result{}, err
	}
	if err := account.ValidateListing(nick, price); err != nil {
		return Result{}, err
	}

	exists, err := s.store.Exists(ctx, nick)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Result{}, fmt.Errorf("%w: %s", account.ErrConflict, nick)
	}

	categoryID, err := s.category(req, CategoryForSale, "list-for-sale")
	if err != nil {
		return Result{}, err
	}

	if _, err := s.store.Create(ctx, nick, price); err != nil {
		return Result{}, err
	}
	acc, err := s.store.Get(ctx, nick)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("Account listed", "nick", acc.Nick, "price", acc.Price, "actor", req.ActorID)
	return Result{
		Outcome: OutcomeListed,
		Account: acc,
		Effects: []Effect{CreateChannel{Name: channelname.Encode(acc.Price, acc.Nick), CategoryID: categoryID}},
	}, nil
}

// CompleteListing links the channel created for a listing.
func (s *Service) CompleteListing(ctx context.Context, nick, channelID string) error {
	return s.store.LinkChannel(ctx, nick, channelID)
}

// AbortListing drops a listing whose channel could not be created.
func (s *Service) AbortListing(ctx context.Context, nick string) error {
	s.logger.Warn("Listing aborted, removing account", "nick", nick)
	return s.store.Remove(ctx, nick)
}

// MarkSold records the buyer and freezes the channel.
func (s *Service) MarkSold(ctx context.Context, req Request, buyer string) (Result, error) {
	if err := s.authorize(req); err != nil {
		return Result{}, err
	}
	buyer = strings.TrimSpace(buyer)
	if buyer == "" {
		return Result{}, ErrMissingBuyer
	}

	acc, err := s.channelAccount(ctx, req)
	if err != nil {
		return Result{}, err
	}
	next, err := account.Next(acc.Status, account.OpMarkSold)
	if err != nil {
		return Result{}, err
	}
	categoryID, err := s.category(req, CategorySold, "mark-sold")
	if err != nil {
		return Result{}, err
	}

	if err := s.store.Transition(ctx, acc.Nick, acc.Status, next, account.Changes{Buyer: &buyer}); err != nil {
		return Result{}, err
	}
	acc.Status = next
	acc.Buyer = buyer

	s.logger.Info("Account sold", "nick", acc.Nick, "buyer", buyer, "actor", req.ActorID)
	return Result{
		Outcome: OutcomeSold,
		Account: acc,
		Effects: []Effect{EditChannel{
			ChannelID:  req.ChannelID,
			Name:       channelname.MarkSold(req.ChannelName),
			CategoryID: categoryID,
		}},
	}, nil
}

// ToggleReserve flips between FOR SALE and RESERVED and moves the channel.
func (s *Service) ToggleReserve(ctx context.Context, req Request) (Result, error) {
	if err := s.authorize(req); err != nil {
		return Result{}, err
	}

	acc, err := s.channelAccount(ctx, req)
	if err != nil {
		return Result{}, err
	}
	next, err := account.Next(acc.Status, account.OpToggleReserve)
	if err != nil {
		return Result{}, err
	}

	target, outcome := CategoryForSale, OutcomeUnreserved
	if next == account.Reserved {
		target, outcome = CategoryReservations, OutcomeReserved
	}
	categoryID, err := s.category(req, target, "toggle-reserve")
	if err != nil {
		return Result{}, err
	}

	if err := s.store.Transition(ctx, acc.Nick, acc.Status, next, account.Changes{}); err != nil {
		return Result{}, err
	}
	acc.Status = next

	s.logger.Info("Account reservation toggled", "nick", acc.Nick, "status", next.String(), "actor", req.ActorID)
	return Result{
		Outcome: outcome,
		Account: acc,
		Effects: []Effect{EditChannel{ChannelID: req.ChannelID, CategoryID: categoryID}},
	}, nil
}

// ToggleInactive moves an account into INACTIVE or back to FOR SALE.
// The reason is only written on the way in; it stays in the row afterwards.
func (s *Service) ToggleInactive(ctx context.Context, req Request, reason string) (Result, error) {
	if err := s.authorize(req); err != nil {
		return Result{}, err
	}

	acc, err := s.channelAccount(ctx, req)
	if err != nil {
		return Result{}, err
	}
	next, err := account.Next(acc.Status, account.OpToggleInactive)
	if err != nil {
		return Result{}, err
	}

	var changes account.Changes
	outcome := OutcomeReactivated
	if next == account.Inactive {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			reason = DefaultInactiveReason
		}
		changes.InactiveReason = &reason
		outcome = OutcomeInactivated
	}

	if err := s.store.Transition(ctx, acc.Nick, acc.Status, next, changes); err != nil {
		return Result{}, err
	}
	acc.Status = next
	if changes.InactiveReason != nil {
		acc.InactiveReason = *changes.InactiveReason
	}

	s.logger.Info("Account activity toggled", "nick", acc.Nick, "status", next.String(), "actor", req.ActorID)
	return Result{Outcome: outcome, Account: acc}, nil
}

// ListAccounts returns every account in listing order.
func (s *Service) ListAccounts(ctx context.Context, req Request) ([]account.Account, error) {
	if err := s.authorize(req); err != nil {
		return nil, err
	}
	accounts, err := s.store.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	account.SortForListing(accounts)
	return accounts, nil
}

// Status returns the account named nick.
func (s *Service) Status(ctx context.Context, req Request, nick string) (account.Account, error) {
	if err := s.authorize(req); err != nil {
		return account.Account{}, err
	}
	if err := account.ValidateNick(nick); err != nil {
		return account.Account{}, err
	}
	return s.store.Get(ctx, nick)
}

// Remove deletes the channel's account once the password matches.
func (s *Service) Remove(ctx context.Context, req Request, password string) (Result, error) {
	if err := s.authorize(req); err != nil {
		return Result{}, err
	}

	acc, err := s.channelAccount(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if !s.checkPassword(password) {
		s.logger.Warn("Remove rejected, wrong password", "nick", acc.Nick, "actor", req.ActorID)
		return Result{}, ErrInvalidPassword
	}

	if err := s.store.Remove(ctx, acc.Nick); err != nil {
		return Result{}, err
	}

	s.logger.Info("Account removed", "nick", acc.Nick, "actor", req.ActorID)
	return Result{
		Outcome: OutcomeRemoved,
		Account: acc,
		Effects: []Effect{DeleteChannel{ChannelID: req.ChannelID, Reason: removeReason}},
	}, nil
}

func (s *Service) authorize(req Request) error {
	return s.Authorize(req.ActorRoles)
}

// Authorize reports ErrNoPermission unless roles hold the marketplace role.
func (s *Service) Authorize(roles []string) error {
	if s.roleID == "" || !slices.Contains(roles, s.roleID) {
		return ErrNoPermission
	}
	return nil
}

// channelAccount resolves the invoking channel to its account and rejects
// frozen channels. A channel is frozen once its name carries the sold marker;
// a SOLD row without it is left to the state machine.
func (s *Service) channelAccount(ctx context.Context, req Request) (account.Account, error) {
	ok, nick, err := s.resolver.Resolve(ctx, req.ChannelName)
	if err != nil {
		return account.Account{}, err
	}
	if !ok {
		return account.Account{}, ErrNotAccountChannel
	}
	if channelname.IsSold(req.ChannelName) {
		return account.Account{}, ErrAlreadySold
	}

	return s.store.Get(ctx, nick)
}

func (s *Service) category(req Request, c Category, command string) (string, error) {
	if req.Categories != nil {
		if id, ok := req.Categories.Lookup(c); ok {
			return id, nil
		}
	}
	return "", &CategoryError{Category: c, Command: command}
}

func (s *Service) checkPassword(password string) bool {
	if s.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
}
