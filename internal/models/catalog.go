package models

import "strings"

// Category is one of the fixed product categories.
type Category string

const (
	CategoryElectronics    Category = "Electronics"
	CategoryFurniture      Category = "Furniture"
	CategoryClothing       Category = "Clothing"
	CategoryBooks          Category = "Books"
	CategoryToys           Category = "Toys"
	CategoryBeauty         Category = "Beauty"
	CategorySports         Category = "Sports"
	CategoryHomeDecor      Category = "Home Decor"
	CategoryHomeAppliances Category = "Home Appliances"
	CategoryOthers         Category = "Others"
)

var categories = []Category{
	CategoryElectronics,
	CategoryFurniture,
	CategoryClothing,
	CategoryBooks,
	CategoryToys,
	CategoryBeauty,
	CategorySports,
	CategoryHomeDecor,
	CategoryHomeAppliances,
	CategoryOthers,
}

// Categories returns the categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Slug is the lower-case, hyphenated value used by the category filter menu.
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "-")
}

// Status is the publication state of a product.
type Status string

const (
	StatusPublished Status = "Published"
	StatusInactive  Status = "Inactive"
	StatusDraft     Status = "Draft"
)

// Badge describes how a status is presented in the table.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Glyph string `json:"glyph"`
}

var statuses = []Status{StatusPublished, StatusInactive, StatusDraft}

// Statuses returns the statuses in display order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Badge returns the color-coded badge for the status. Unknown values fall
// back to the draft styling.
func (s Status) Badge() Badge {
	switch s {
	case StatusPublished:
		return Badge{Label: string(s), Color: "green", Glyph: "check"}
	case StatusInactive:
		return Badge{Label: string(s), Color: "red", Glyph: "close"}
	default:
		return Badge{Label: string(s), Color: "gray", Glyph: "inbox"}
	}
}

// Glyph is an entry of the icon catalog offered by the icon picker.
type Glyph struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

var glyphs = []Glyph{
	{Name: "package"},
	{Name: "laptop", Selected: true},
	{Name: "phone"},
	{Name: "headphones"},
	{Name: "camera"},
	{Name: "chair"},
	{Name: "shirt"},
	{Name: "book"},
	{Name: "toy"},
	{Name: "lipstick"},
	{Name: "ball"},
	{Name: "lamp"},
	{Name: "blender"},
	{Name: "gift"},
}

// Glyphs returns the icon catalog.
func Glyphs() []Glyph {
	out := make([]Glyph, len(glyphs))
	copy(out, glyphs)
	return out
}

// DefaultGlyph is the first glyph flagged as selected in the catalog.
func DefaultGlyph() string {
	for _, g := range glyphs {
		if g.Selected {
			return g.Name
		}
	}
	return glyphs[0].Name
}

// ValidGlyph reports whether name is in the icon catalog.
func ValidGlyph(name string) bool {
	for _, g := range glyphs {
		if g.Name == name {
			return true
		}
	}
	return false
}
