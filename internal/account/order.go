package account

import (
	"sort"
	"strings"
)

// SortForListing orders accounts the way the accounts list shows them:
// grouped by status (for sale, reserved, sold, inactive), most expensive first
// inside a group. The slice is sorted in place and returned.
func SortForListing(accounts []Account) []Account {
	sort.SliceStable(accounts, func(i, j int) bool {
		a, b := accounts[i], accounts[j]
		if ra, rb := a.Status.Rank(), b.Status.Rank(); ra != rb {
			return ra < rb
		}
		if a.Price != b.Price {
			return a.Price > b.Price
		}
		return strings.ToLower(a.Nick) < strings.ToLower(b.Nick)
	})
	return accounts
}
