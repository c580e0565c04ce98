package config

// CategoryWeights orders command groups in /help. Unknown groups sort last.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🛒 Marketplace":  10,
}

// IDs returns the configured category IDs keyed by their logical name.
// Unset categories are omitted.
func (c Categories) IDs() map[string]string {
	out := make(map[string]string, 3)
	for name, id := range map[string]string{
		"for-sale":     c.ForSale,
		"sold":         c.Sold,
		"reservations": c.Reservations,
	} {
		if id != "" {
			out[name] = id
		}
	}
	return out
}
