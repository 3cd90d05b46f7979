// Package filters holds the multi-select category and status predicates used
// by the product table.
package filters

import (
	"fmt"
	"strings"

	"inventory/internal/models"

	"golang.org/x/text/cases"
)

// normalize folds case and treats spaces and hyphens alike, so the menu slug
// "home-decor" selects products in "Home Decor". Casers are stateful, so one
// is built per call.
func normalize(v string) string {
	return strings.ReplaceAll(cases.Fold().String(strings.TrimSpace(v)), " ", "-")
}

// Selection is an ordered set of selected filter values.
type Selection struct {
	values []string
}

// NewSelection builds a selection from values, dropping blanks and duplicates.
func NewSelection(values ...string) Selection {
	var s Selection
	for _, v := range values {
		if strings.TrimSpace(v) == "" || s.Contains(v) {
			continue
		}
		s.values = append(s.values, v)
	}
	return s
}

// Toggle adds v when it is not selected and removes it otherwise.
func (s *Selection) Toggle(v string) {
	for i, existing := range s.values {
		if existing == v {
			s.values = append(s.values[:i:i], s.values[i+1:]...)
			return
		}
	}
	s.values = append(s.values[:len(s.values):len(s.values)], v)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.values = nil
}

// Values returns a copy of the selected values in selection order.
func (s Selection) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of selected values.
func (s Selection) Len() int {
	return len(s.values)
}

// Contains reports whether v is selected exactly as given.
func (s Selection) Contains(v string) bool {
	for _, existing := range s.values {
		if existing == v {
			return true
		}
	}
	return false
}

// Matches reports whether a field value passes the selection. An empty
// selection admits everything.
func (s Selection) Matches(value string) bool {
	if len(s.values) == 0 {
		return true
	}
	target := normalize(value)
	for _, v := range s.values {
		if normalize(v) == target {
			return true
		}
	}
	return false
}

// Predicate combines the category and status dimensions with AND.
type Predicate struct {
	Categories Selection
	Statuses   Selection
}

// Match reports whether p passes both dimensions.
func (f Predicate) Match(p models.Product) bool {
	return f.Categories.Matches(string(p.Category)) && f.Statuses.Matches(string(p.Status))
}

// Active reports whether any dimension has a selection.
func (f Predicate) Active() bool {
	return f.Categories.Len() > 0 || f.Statuses.Len() > 0
}

// Reset clears both dimensions.
func (f *Predicate) Reset() {
	f.Categories.Clear()
	f.Statuses.Clear()
}

// Apply returns the products that pass the predicate, keeping their order.
func (f Predicate) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Group is the badge group shown for one active filter dimension.
type Group struct {
	Dimension string   `json:"dimension"`
	Badges    []string `json:"badges"`
}

// Summary is the active-filter strip shown above the table.
type Summary struct {
	Groups    []Group `json:"groups"`
	ShowReset bool    `json:"show_reset"`
}

// maxListedBadges is how many values are listed before collapsing into a count.
const maxListedBadges = 2

// Summary describes the active selections.
func (f Predicate) Summary() Summary {
	var sum Summary
	if f.Statuses.Len() > 0 {
		sum.Groups = append(sum.Groups, Group{Dimension: "status", Badges: badges(f.Statuses)})
	}
	if f.Categories.Len() > 0 {
		sum.Groups = append(sum.Groups, Group{Dimension: "category", Badges: badges(f.Categories)})
	}
	sum.ShowReset = f.Active()
	return sum
}

func badges(s Selection) []string {
	if s.Len() > maxListedBadges {
		return []string{fmt.Sprintf("%d Selected", s.Len())}
	}
	return s.Values()
}
