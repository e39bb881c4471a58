package domain

// CategoryKind distinguishes the fixed default categories from
// user-defined ones.
type CategoryKind string

const (
	CategoryDefault CategoryKind = "default"
	CategoryCustom  CategoryKind = "custom"
)

// Category is a classification for people in the graph. Default
// categories have a fixed label; their color can be overridden and they
// can be hidden (a "delete" that is restorable). Custom categories are
// fully user-defined and deletion removes them.
type Category struct {
	Key    string       `json:"key"`
	Label  string       `json:"label"`
	Color  string       `json:"color"`
	Kind   CategoryKind `json:"kind"`
	Hidden bool         `json:"hidden,omitempty"`
}

// FallbackCategoryKey is the default category that absorbs members of a
// deleted category. It can never be hidden or deleted.
const FallbackCategoryKey = "friends"

// defaultCategories is the fixed default set. Order is stable and is
// the order categories are presented in.
var defaultCategories = []Category{
	{Key: "family", Label: "Family", Color: "#e76f51", Kind: CategoryDefault},
	{Key: "friends", Label: "Friends", Color: "#2a9d8f", Kind: CategoryDefault},
	{Key: "work", Label: "Work", Color: "#457b9d", Kind: CategoryDefault},
	{Key: "school", Label: "School", Color: "#e9c46a", Kind: CategoryDefault},
	{Key: "community", Label: "Community", Color: "#9b5de5", Kind: CategoryDefault},
}

// DefaultCategories returns a copy of the fixed default set.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// IsDefaultCategoryKey reports whether key names a default category.
func IsDefaultCategoryKey(key string) bool {
	for _, c := range defaultCategories {
		if c.Key == key {
			return true
		}
	}
	return false
}

// MergeCategories produces the effective category table from the four
// persisted pieces: the fixed defaults, per-key color overrides, custom
// definitions, and the set of hidden default keys. The fallback
// category is never hidden, even if listed.
func MergeCategories(colorOverrides map[string]string, custom []Category, deletedDefaults []string) []Category {
	hidden := make(map[string]bool, len(deletedDefaults))
	for _, k := range deletedDefaults {
		if k != FallbackCategoryKey {
			hidden[k] = true
		}
	}

	out := make([]Category, 0, len(defaultCategories)+len(custom))
	for _, c := range defaultCategories {
		if color, ok := colorOverrides[c.Key]; ok && color != "" {
			c.Color = color
		}
		c.Hidden = hidden[c.Key]
		out = append(out, c)
	}
	for _, c := range custom {
		c.Kind = CategoryCustom
		c.Hidden = false
		out = append(out, c)
	}
	return out
}

// CategoryByKey looks up a category in an effective table.
func CategoryByKey(categories []Category, key string) *Category {
	for i := range categories {
		if categories[i].Key == key {
			return &categories[i]
		}
	}
	return nil
}

// VisibleGroupKey resolves the group a person should render under: its
// own category when visible, the fallback otherwise.
func VisibleGroupKey(categories []Category, group string) string {
	c := CategoryByKey(categories, group)
	if c == nil || c.Hidden {
		return FallbackCategoryKey
	}
	return c.Key
}
