package account

import (
	"fmt"
	"strings"
)

// Status is the listing state of an account.
type Status int

const (
	ForSale Status = iota + 1
	Reserved
	Sold
	Inactive
)

// Statuses lists every status in listing priority order.
var Statuses = []Status{ForSale, Reserved, Sold, Inactive}

var statusNames = map[Status]string{
	ForSale:  "FOR SALE",
	Reserved: "RESERVED",
	Sold:     "SOLD",
	Inactive: "INACTIVE",
}

// legacy spellings written by earlier versions of the bot
var statusAliases = map[string]Status{
	"RESERVERD": Reserved,
	"FOR_SALE":  ForSale,
}

// String returns the persisted form of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Forms returns every persisted spelling of the status, canonical first.
func (s Status) Forms() []string {
	forms := []string{s.String()}
	for alias, st := range statusAliases {
		if st == s {
			forms = append(forms, alias)
		}
	}
	return forms
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Rank is the position of the status in the listing order.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return len(Statuses)
}

// Emoji is the marker used in the accounts list.
func (s Status) Emoji() string {
	switch s {
	case ForSale:
		return "🟢"
	case Reserved:
		return "🟠"
	case Sold:
		return "🔴"
	case Inactive:
		return "⚪"
	}
	return "⚫"
}

// Color is the embed colour of the status card.
func (s Status) Color() int {
	switch s {
	case ForSale:
		return 0x2ecc71
	case Reserved:
		return 0xad1457
	case Sold:
		return 0xa84300
	case Inactive:
		return 0x992d22
	}
	return 0
}

// ParseStatus converts the persisted form back into a Status.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	for st, name := range statusNames {
		if name == norm {
			return st, nil
		}
	}
	if st, ok := statusAliases[norm]; ok {
		return st, nil
	}
	return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}
