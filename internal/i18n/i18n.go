// Package i18n serves user-facing message templates from embedded YAML
// catalogues, one file per locale under locales/.
//
// Keys are dotted paths into the YAML tree ("commands.nick.accountExists").
// Templates use $name placeholders filled by Format.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale backs every other locale for missing keys.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

type Catalog struct {
	locale   string
	messages map[string]string
	fallback map[string]string
}

// Load returns the catalogue for locale. Unknown locales are an error.
func Load(locale string) (*Catalog, error) {
	fallback, err := readLocale(DefaultLocale)
	if err != nil {
		return nil, err
	}
	if locale == "" || locale == DefaultLocale {
		return &Catalog{locale: DefaultLocale, messages: fallback, fallback: fallback}, nil
	}

	messages, err := readLocale(locale)
	if err != nil {
		return nil, err
	}
	return &Catalog{locale: locale, messages: messages, fallback: fallback}, nil
}

// MustLoad is Load for locales known to be embedded.
func MustLoad(locale string) *Catalog {
	c, err := Load(locale)
	if err != nil {
		panic(err)
	}
	return c
}

// Locales lists the embedded locales.
func Locales() []string {
	entries, _ := localeFS.ReadDir("locales")
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Locale() string { return c.locale }

// Get returns the template for key, or the key itself when no locale has it.
func (c *Catalog) Get(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	if msg, ok := c.fallback[key]; ok {
		return msg
	}
	return key
}

// Format fills $placeholders in the template for key. Pairs are given as
// name, value, name, value...
func (c *Catalog) Format(key string, pairs ...string) string {
	msg := c.Get(key)
	if len(pairs) < 2 {
		return msg
	}
	names := make([]int, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		names = append(names, i)
	}
	// longest name first, so $page never eats the front of $pages
	sort.SliceStable(names, func(a, b int) bool {
		return len(pairs[names[a]]) > len(pairs[names[b]])
	})
	oldnew := make([]string, 0, len(pairs))
	for _, i := range names {
		oldnew = append(oldnew, "$"+pairs[i], pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(msg)
}

func readLocale(locale string) (map[string]string, error) {
	data, err := localeFS.ReadFile("locales/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q", locale)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	out := make(map[string]string)
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
