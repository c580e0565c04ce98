package account

import "fmt"

// Operation is a command that moves an account between statuses.
type Operation int

const (
	OpMarkSold Operation = iota + 1
	OpToggleReserve
	OpToggleInactive
)

func (op Operation) String() string {
	switch op {
	case OpMarkSold:
		return "mark-sold"
	case OpToggleReserve:
		return "toggle-reserve"
	case OpToggleInactive:
		return "toggle-inactive"
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// Next returns the status an account in from ends up in after op.
// Inactive accounts only accept OpToggleInactive.
func Next(from Status, op Operation) (Status, error) {
	if !from.Valid() {
		return 0, fmt.Errorf("%w: unknown status %v", ErrInvalidTransition, from)
	}

	if from == Inactive && op != OpToggleInactive {
		return 0, ErrInactive
	}

	switch op {
	case OpMarkSold:
		switch from {
		case ForSale, Reserved:
			return Sold, nil
		}
	case OpToggleReserve:
		switch from {
		case ForSale:
			return Reserved, nil
		case Reserved:
			return ForSale, nil
		}
	case OpToggleInactive:
		if from == Inactive {
			return ForSale, nil
		}
		return Inactive, nil
	}

	return 0, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, from)
}
