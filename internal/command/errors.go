package command

import (
	"errors"

	"github.com/keshon/account-market/internal/account"
	"github.com/keshon/account-market/internal/market"
)

var (
	ErrGuildOnly          = errors.New("command used outside a guild")
	ErrMissingPermissions = errors.New("bot lacks guild permissions")
)

// ReportedError marks an error the user has already been told about.
// Dispatch logs it but sends nothing further.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }

// Reported wraps err as already reported; nil stays nil.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &ReportedError{Err: err}
}

type errorClass struct {
	err   error
	label string
	key   string
}

// Order matters: wrapped validation errors are checked before the generic one.
var errorClasses = []errorClass{
	{ErrGuildOnly, "guild_only", "guildOnly"},
	{ErrMissingPermissions, "missing_bot_permissions", "missingBotPerms"},
	{market.ErrNoPermission, "no_permission", "noPerms"},
	{market.ErrNotAccountChannel, "not_account_channel", "noAccountChannel"},
	{market.ErrAlreadySold, "already_sold", "alreadySold"},
	{market.ErrInvalidPassword, "invalid_password", "commands.remove.invalidPassword"},
	{market.ErrCategoryNotFound, "category_not_found", "commandError"},
	{market.ErrMissingBuyer, "invalid_input", "commands.sold.invalidBuyer"},
	{account.ErrInvalidNick, "invalid_input", "invalidUsername"},
	{account.ErrInvalidPrice, "invalid_input", "commands.nick.invalidPrice"},
	{account.ErrInvalidInput, "invalid_input", "commandError"},
	{account.ErrConflict, "conflict", "commands.nick.accountExists"},
	{account.ErrNotFound, "not_found", "commands.status.accountNotFound"},
	{account.ErrInactive, "inactive", "inactiveAccount"},
	{account.ErrInvalidTransition, "invalid_transition", "invalidTransition"},
	{account.ErrStatusChanged, "stale", "statusChanged"},
	{account.ErrStorage, "storage_error", "commandError"},
}

// OutcomeLabel names the class of err for metrics and logs.
func OutcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.label
		}
	}
	return "error"
}

// MessageKey is the i18n key of the reply for err. Unknown errors get the
// generic message so nothing internal leaks to users.
func MessageKey(err error) string {
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.key
		}
	}
	return "commandError"
}

// Expected reports whether err is a user-facing rejection rather than a fault.
func Expected(err error) bool {
	switch OutcomeLabel(err) {
	case "ok", "error", "storage_error", "category_not_found", "missing_bot_permissions":
		return false
	}
	return true
}
