// Package table composes sorting, filtering and pagination over the product
// collection and renders the visible page.
package table

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"inventory/internal/filters"
	"inventory/internal/models"
)

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 8

var (
	// ErrUnknownColumn is returned for a column ID the table does not have.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotSortable is returned when sorting is requested on the actions column.
	ErrNotSortable = errors.New("column is not sortable")
	// ErrInvalidPageSize is returned for page sizes below one.
	ErrInvalidPageSize = errors.New("page size must be positive")
)

// Options configures a Table.
type Options struct {
	PageSize int
	// ResetPageOnFilterChange moves back to the first page whenever the name
	// search or a multi-select filter changes.
	ResetPageOnFilterChange bool
	// Location is used to format the created-at column. Nil means time.Local.
	Location *time.Location
}

// DefaultOptions returns eight rows per page with page reset enabled.
func DefaultOptions() Options {
	return Options{PageSize: DefaultPageSize, ResetPageOnFilterChange: true}
}

// Sort is the single active sort. A zero Column means unsorted.
type Sort struct {
	Column ColumnID `json:"column,omitempty"`
	Desc   bool     `json:"desc"`
}

// Direction returns "asc", "desc" or "" for col.
func (s Sort) Direction(col ColumnID) string {
	switch {
	case s.Column != col:
		return ""
	case s.Desc:
		return "desc"
	default:
		return "asc"
	}
}

// DefaultSort orders rows newest first.
var DefaultSort = Sort{Column: ColumnCreatedAt, Desc: true}

// Table holds the view state for one product table. It is not safe for
// concurrent use.
type Table struct {
	opts       Options
	data       []models.Product
	sort       Sort
	nameFilter string
	predicate  filters.Predicate
	pageIndex  int
	pageSize   int
}

// New returns a table sorted by creation time, newest first.
func New(opts Options) *Table {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Table{
		opts:     opts,
		sort:     DefaultSort,
		pageSize: opts.PageSize,
	}
}

// SetData replaces the rows the table works on. The slice is not copied.
func (t *Table) SetData(products []models.Product) {
	t.data = products
}

// Sort returns the active sort.
func (t *Table) Sort() Sort {
	return t.sort
}

// SetSort makes col the active sort column.
func (t *Table) SetSort(col ColumnID, desc bool) error {
	if err := sortableColumn(col); err != nil {
		return err
	}
	t.sort = Sort{Column: col, Desc: desc}
	return nil
}

// ToggleSort cycles col through ascending, descending and unsorted.
func (t *Table) ToggleSort(col ColumnID) error {
	if err := sortableColumn(col); err != nil {
		return err
	}
	switch {
	case t.sort.Column != col:
		t.sort = Sort{Column: col}
	case !t.sort.Desc:
		t.sort.Desc = true
	default:
		t.sort = Sort{}
	}
	return nil
}

// ClearSort leaves the rows in input order.
func (t *Table) ClearSort() {
	t.sort = Sort{}
}

func sortableColumn(col ColumnID) error {
	c, ok := lookupColumn(col)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	if !c.Sortable {
		return fmt.Errorf("%w: %q", ErrNotSortable, col)
	}
	return nil
}

// NameFilter returns the current name search text.
func (t *Table) NameFilter() string {
	return t.nameFilter
}

// SetNameFilter sets the case-sensitive substring matched against names.
func (t *Table) SetNameFilter(s string) {
	if s == t.nameFilter {
		return
	}
	t.nameFilter = s
	t.filtersChanged()
}

// Filters returns a copy of the multi-select predicate.
func (t *Table) Filters() filters.Predicate {
	return t.predicate
}

// SetFilters replaces the multi-select predicate.
func (t *Table) SetFilters(p filters.Predicate) {
	t.predicate = p
	t.filtersChanged()
}

// ToggleStatus toggles v in the status selection.
func (t *Table) ToggleStatus(v string) {
	t.predicate.Statuses.Toggle(v)
	t.filtersChanged()
}

// ToggleCategory toggles v in the category selection.
func (t *Table) ToggleCategory(v string) {
	t.predicate.Categories.Toggle(v)
	t.filtersChanged()
}

// ClearStatuses empties the status selection.
func (t *Table) ClearStatuses() {
	t.predicate.Statuses.Clear()
	t.filtersChanged()
}

// ClearCategories empties the category selection.
func (t *Table) ClearCategories() {
	t.predicate.Categories.Clear()
	t.filtersChanged()
}

// ResetFilters clears both multi-select dimensions. The name search stays.
func (t *Table) ResetFilters() {
	t.predicate.Reset()
	t.filtersChanged()
}

func (t *Table) filtersChanged() {
	if t.opts.ResetPageOnFilterChange {
		t.pageIndex = 0
	}
}

// Rows returns every row passing the filters, sorted. Sorting is stable so
// equal keys keep their input order.
func (t *Table) Rows() []models.Product {
	rows := make([]models.Product, 0, len(t.data))
	for _, p := range t.data {
		if t.nameFilter != "" && !strings.Contains(p.Name, t.nameFilter) {
			continue
		}
		if !t.predicate.Match(p) {
			continue
		}
		rows = append(rows, p)
	}
	if t.sort.Column == "" {
		return rows
	}
	col, ok := lookupColumn(t.sort.Column)
	if !ok || col.compare == nil {
		return rows
	}
	slices.SortStableFunc(rows, func(a, b models.Product) int {
		if t.sort.Desc {
			return col.compare(b, a)
		}
		return col.compare(a, b)
	})
	return rows
}

// PageRows returns the rows of the current page. An out-of-range page index
// yields no rows.
func (t *Table) PageRows() []models.Product {
	return t.page(t.Rows())
}

func (t *Table) page(rows []models.Product) []models.Product {
	start := t.pageIndex * t.pageSize
	if start >= len(rows) {
		return nil
	}
	end := min(start+t.pageSize, len(rows))
	return rows[start:end]
}
