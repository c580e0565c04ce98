package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keshon/account-market/internal/account"
)

const accountColumns = `id, nick, status, price, sold_to, reason_inactive, discord_channel_id, created_at`

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// Create inserts a new listing with status FOR SALE.
func (s *Storage) Create(ctx context.Context, nick string, price int64) (id account.ID, err error) {
	defer s.observe("create", time.Now(), &err)

	if err := account.ValidateListing(nick, price); err != nil {
		return 0, err
	}

	exists, err := s.exists(ctx, nick)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%w: %s", account.ErrConflict, nick)
	}

	const q = `
		INSERT INTO accounts (nick, status, price, created_at)
		VALUES (?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, q, nick, account.ForSale.String(), price, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", account.ErrConflict, nick)
		}
		return 0, s.storageErr("create account", err)
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return 0, s.storageErr("create account", err)
	}

	s.logger.Info("Account created", "nick", nick, "price", price, "id", rowID)
	return account.ID(rowID), nil
}

// Exists reports whether an account with nick exists, ignoring case.
func (s *Storage) Exists(ctx context.Context, nick string) (ok bool, err error) {
	defer s.observe("exists", time.Now(), &err)
	return s.exists(ctx, nick)
}

func (s *Storage) exists(ctx context.Context, nick string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE nick = ? COLLATE NOCASE`, nick,
	).Scan(&n)
	if err != nil {
		return false, s.storageErr("check account", err)
	}
	return n > 0, nil
}

// Get returns the account with nick, ignoring case.
func (s *Storage) Get(ctx context.Context, nick string) (a account.Account, err error) {
	defer s.observe("get", time.Now(), &err)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE nick = ? COLLATE NOCASE`, nick,
	)
	a, err = scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return account.Account{}, fmt.Errorf("%w: %s", account.ErrNotFound, nick)
	}
	if err != nil {
		return account.Account{}, s.storageErr("get account", err)
	}
	return a, nil
}

// List returns every account, or only those in status when it is non-nil.
// Order is unspecified.
func (s *Storage) List(ctx context.Context, status *account.Status) (out []account.Account, err error) {
	defer s.observe("list", time.Now(), &err)

	q := `SELECT ` + accountColumns + ` FROM accounts`
	var args []any
	if status != nil {
		forms := status.Forms()
		q += ` WHERE status IN (` + placeholders(len(forms)) + `)`
		for _, f := range forms {
			args = append(args, f)
		}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, s.storageErr("list accounts", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, s.storageErr("scan account", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("list accounts", err)
	}
	return out, nil
}

// SetStatus overwrites the status without checking the current one.
// Commands go through Transition instead.
func (s *Storage) SetStatus(ctx context.Context, nick string, status account.Status) (err error) {
	defer s.observe("set_status", time.Now(), &err)
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %v", account.ErrInvalidInput, status)
	}
	return s.update(ctx, "set status", `UPDATE accounts SET status = ? WHERE nick = ? COLLATE NOCASE`, status.String(), nick)
}

func (s *Storage) SetBuyer(ctx context.Context, nick, buyer string) (err error) {
	defer s.observe("set_buyer", time.Now(), &err)
	return s.update(ctx, "set buyer", `UPDATE accounts SET sold_to = ? WHERE nick = ? COLLATE NOCASE`, buyer, nick)
}

func (s *Storage) SetInactiveReason(ctx context.Context, nick, reason string) (err error) {
	defer s.observe("set_inactive_reason", time.Now(), &err)
	return s.update(ctx, "set inactive reason", `UPDATE accounts SET reason_inactive = ? WHERE nick = ? COLLATE NOCASE`, reason, nick)
}

// LinkChannel records the Discord channel created for the account.
func (s *Storage) LinkChannel(ctx context.Context, nick, channelID string) (err error) {
	defer s.observe("link_channel", time.Now(), &err)
	return s.update(ctx, "link channel", `UPDATE accounts SET discord_channel_id = ? WHERE nick = ? COLLATE NOCASE`, channelID, nick)
}

// Transition moves the account from one status to another in a single
// conditional statement. If the row exists but is no longer in from, nothing
// is written and ErrStatusChanged is returned.
func (s *Storage) Transition(ctx context.Context, nick string, from, to account.Status, ch account.Changes) (err error) {
	defer s.observe("transition", time.Now(), &err)

	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: transition %v -> %v", account.ErrInvalidInput, from, to)
	}

	forms := from.Forms()
	q := `
		UPDATE accounts
		SET status = ?,
			sold_to = COALESCE(?, sold_to),
			reason_inactive = COALESCE(?, reason_inactive)
		WHERE nick = ? COLLATE NOCASE AND status IN (` + placeholders(len(forms)) + `)
	`
	args := []any{to.String(), nullable(ch.Buyer), nullable(ch.InactiveReason), nick}
	for _, f := range forms {
		args = append(args, f)
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return s.storageErr("transition account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.storageErr("transition account", err)
	}
	if n > 0 {
		s.logger.Info("Account status changed", "nick", nick, "from", from.String(), "to", to.String())
		return nil
	}

	exists, err := s.exists(ctx, nick)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", account.ErrNotFound, nick)
	}
	return fmt.Errorf("%w: %s is no longer %s", account.ErrStatusChanged, nick, from)
}

// Remove deletes the account. Removing a missing account is not an error.
func (s *Storage) Remove(ctx context.Context, nick string) (err error) {
	defer s.observe("remove", time.Now(), &err)

	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE nick = ? COLLATE NOCASE`, nick)
	if err != nil {
		return s.storageErr("remove account", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Info("Account removed", "nick", nick)
	}
	return nil
}

func (s *Storage) update(ctx context.Context, op, q string, args ...any) error {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return s.storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.storageErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", account.ErrNotFound, args[len(args)-1])
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (account.Account, error) {
	var (
		a         account.Account
		id        int64
		status    string
		price     sql.NullInt64
		buyer     sql.NullString
		reason    sql.NullString
		channelID sql.NullString
		createdAt any
	)
	if err := row.Scan(&id, &a.Nick, &status, &price, &buyer, &reason, &channelID, &createdAt); err != nil {
		return account.Account{}, err
	}

	st, err := account.ParseStatus(status)
	if err != nil {
		return account.Account{}, err
	}

	a.ID = account.ID(id)
	a.Status = st
	a.Price = price.Int64
	a.Buyer = buyer.String
	a.InactiveReason = reason.String
	a.ChannelID = channelID.String
	a.CreatedAt = parseTime(createdAt)
	return a, nil
}

func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	}
	return time.Time{}
}

func parseTimeString(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
