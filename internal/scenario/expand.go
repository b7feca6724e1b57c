package scenario

import "fmt"

// Unit is one concrete benchmark case: a category/variant pair at a record
// limit. Immutable once expanded; the triple is its identity.
type Unit struct {
	Category    string
	Variant     string
	RecordLimit int
}

// ID returns a stable identifier derived from the triple.
func (u Unit) ID() string {
	return fmt.Sprintf("%s/%s@%d", u.Category, u.Variant, u.RecordLimit)
}

// DisplayName returns a human-readable label for progress output.
func (u Unit) DisplayName() string {
	return fmt.Sprintf("%s %s (limit %d)", u.Category, u.Variant, u.RecordLimit)
}

// Selection narrows the expansion: explicit variant or limit choices override
// the defaults of "all variants" and "the configured record limit".
type Selection struct {
	Variants    []string
	Limits      []int
	RecordLimit int
}

// Expand produces the full variants × limits product for each enabled
// category, in category, then variant, then limit order. Variant names with
// no library entry are skipped silently: they are treated as stale
// configuration, not a fatal error.
func Expand(lib *Library, categories []string, sel Selection) []Unit {
	limits := sel.Limits
	if len(limits) == 0 {
		limits = []int{sel.RecordLimit}
	}

	var units []Unit
	for _, category := range categories {
		if !lib.HasCategory(category) {
			continue
		}
		variants := sel.Variants
		if len(variants) == 0 {
			variants = lib.Variants(category)
		}
		for _, variant := range variants {
			if _, ok := lib.Lookup(category, variant); !ok {
				continue
			}
			for _, limit := range limits {
				units = append(units, Unit{
					Category:    category,
					Variant:     variant,
					RecordLimit: limit,
				})
			}
		}
	}
	return units
}
