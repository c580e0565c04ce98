// Package account holds the marketplace listing model: the Account record,
// its status enum, the status state machine and input validation.
package account

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("account already exists")
	ErrNotFound          = errors.New("account not found")
	ErrStatusChanged     = errors.New("account status changed concurrently")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInactive          = errors.New("account is inactive")
	ErrStorage           = errors.New("storage failure")
)

// ID is the store-assigned surrogate key.
type ID int64

// Account is one listing, identified by its nickname.
type Account struct {
	ID             ID
	Nick           string
	Status         Status
	Price          int64
	Buyer          string // set when Status == Sold
	InactiveReason string // set when Status == Inactive, may be stale afterwards
	ChannelID      string
	CreatedAt      time.Time
}

// Changes are the optional fields written together with a status change.
// Nil leaves the stored value as it is.
type Changes struct {
	Buyer          *string
	InactiveReason *string
}

// Linked reports whether a Discord channel has been attached to the account.
func (a Account) Linked() bool { return a.ChannelID != "" }
