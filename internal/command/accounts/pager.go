package accounts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/keshon/account-market/internal/account"
)

const pageSize = 15

// page is one screen of the accounts list. Index is zero-based.
type page struct {
	Index int
	Count int
	Total int
	Items []account.Account
}

func pageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// paginate cuts page index out of accounts, clamping index into range.
func paginate(accounts []account.Account, index int) page {
	count := pageCount(len(accounts))
	index = max(0, min(index, count-1))
	start := index * pageSize
	end := min(start+pageSize, len(accounts))
	return page{Index: index, Count: count, Total: len(accounts), Items: accounts[start:end]}
}

const (
	directionPrev = "prev"
	directionNext = "next"
)

// pagerID is the custom ID of a pager button: "list:<direction>:<current>".
func pagerID(direction string, current int) string {
	return fmt.Sprintf("list:%s:%d", direction, current)
}

// parsePagerID returns the page a button leads to and whether it stays in
// range of count pages.
func parsePagerID(id string, count int) (target int, ok bool, err error) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 || parts[0] != "list" {
		return 0, false, fmt.Errorf("malformed pager id %q", id)
	}
	current, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false, fmt.Errorf("malformed pager id %q: %w", id, err)
	}
	switch parts[1] {
	case directionPrev:
		target = current - 1
	case directionNext:
		target = current + 1
	default:
		return 0, false, fmt.Errorf("unknown pager direction %q", parts[1])
	}
	return target, target >= 0 && target < count, nil
}
