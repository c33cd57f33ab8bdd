package query

import (
	"strings"

	"github.com/kailas-cloud/assetdex/internal/domain/facet"
)

// Scoped is a raw search box input split into free text and field-scoped selections.
type Scoped struct {
	FreeText   string
	Selections []facet.Selection
}

// ParseScoped splits input like "lebron tags: nike type: video" into free text
// ("lebron") and selections (tag=nike, media_kind=video). A scope runs until the next
// recognized "field:" token; unrecognized prefixes stay in the free text.
func ParseScoped(raw string) Scoped {
	var out Scoped
	var text []string
	var cur *facet.Selection
	var value []string

	flush := func() {
		if cur == nil {
			return
		}
		if v := strings.Join(value, " "); v != "" {
			cur.Value = v
			out.Selections = append(out.Selections, *cur)
		}
		cur, value = nil, nil
	}

	for _, tok := range strings.Fields(raw) {
		if name, rest, ok := strings.Cut(tok, ":"); ok && name != "" {
			if f, err := facet.ParseField(name); err == nil {
				flush()
				cur = &facet.Selection{Field: f}
				if rest != "" {
					value = append(value, rest)
				}
				continue
			}
		}
		if cur != nil {
			value = append(value, tok)
			continue
		}
		text = append(text, tok)
	}
	flush()

	out.FreeText = strings.Join(text, " ")
	return out
}
