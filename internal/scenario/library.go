package scenario

import "sort"

// Library maps category names to their variant specs.
type Library struct {
	categories map[string]map[string]Spec
}

// NewLibrary builds a library from specs. Later specs with the same
// category/variant pair replace earlier ones.
func NewLibrary(specs ...Spec) *Library {
	lib := &Library{categories: make(map[string]map[string]Spec)}
	for _, spec := range specs {
		variants, ok := lib.categories[spec.Category]
		if !ok {
			variants = make(map[string]Spec)
			lib.categories[spec.Category] = variants
		}
		variants[spec.Variant] = spec
	}
	return lib
}

// Lookup returns the spec for a category/variant pair.
func (l *Library) Lookup(category, variant string) (Spec, bool) {
	variants, ok := l.categories[category]
	if !ok {
		return Spec{}, false
	}
	spec, ok := variants[variant]
	return spec, ok
}

// Variants returns the variant names of a category in sorted order so
// expansion is deterministic across runs.
func (l *Library) Variants(category string) []string {
	variants, ok := l.categories[category]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasCategory reports whether the library knows the category.
func (l *Library) HasCategory(category string) bool {
	_, ok := l.categories[category]
	return ok
}

// DefaultLibrary is the built-in scenario matrix shipped with the tool.
func DefaultLibrary() *Library {
	return NewLibrary(
		Spec{
			Category: "accounts",
			Variant:  "baseline",
			Single: &Single{Call: Call{
				Resource: "account",
				Fields:   []string{"id", "name", "created_at"},
			}},
		},
		Spec{
			Category: "accounts",
			Variant:  "wide",
			Single: &Single{Call: Call{
				Resource: "account",
				Fields:   []string{"id", "name", "industry", "revenue", "owner_id", "created_at", "updated_at"},
			}},
		},
		Spec{
			Category: "accounts",
			Variant:  "filtered",
			Single: &Single{Call: Call{
				Resource: "account",
				Fields:   []string{"id", "name", "revenue"},
				Filter:   "revenue gt 100000",
			}},
		},
		Spec{
			Category: "orders",
			Variant:  "recent",
			Single: &Single{Call: Call{
				Resource: "order",
				Fields:   []string{"id", "account_id", "total", "placed_at"},
				Filter:   "placed_at gt @last30d",
			}},
		},
		Spec{
			Category: "orders",
			Variant:  "by_status",
			Single: &Single{Call: Call{
				Resource: "order",
				Fields:   []string{"id", "status", "total"},
				Filter:   "status eq 'open'",
			}},
		},
		Spec{
			Category: "overview",
			Variant:  "dashboard",
			Composite: &Composite{
				Resources: 3,
				Calls: []Call{
					{Resource: "account", Fields: []string{"id", "name"}},
					{Resource: "order", Fields: []string{"id", "total"}},
					{Resource: "contact", Fields: []string{"id", "email"}},
				},
			},
		},
	)
}
