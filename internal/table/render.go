package table

import (
	"fmt"

	"inventory/internal/filters"
	"inventory/internal/models"

	"github.com/shopspring/decimal"
)

// DateLayout is the long-date format of the created-at column.
const DateLayout = "January 2, 2006"

// EmptyMessage is shown in place of rows when nothing passes the filters.
const EmptyMessage = "No results."

// HeaderCell is one column header.
type HeaderCell struct {
	ID       ColumnID `json:"id"`
	Label    string   `json:"label"`
	Sortable bool     `json:"sortable"`
	Sorted   string   `json:"sorted,omitempty"`
}

// Row is one rendered product row.
type Row struct {
	ID        string       `json:"id"`
	Icon      string       `json:"icon"`
	Name      string       `json:"name"`
	SKU       string       `json:"sku"`
	CreatedAt string       `json:"created_at"`
	Price     string       `json:"price"`
	Category  string       `json:"category"`
	Status    models.Badge `json:"status"`
	Quantity  int          `json:"quantity_in_stock"`
	Supplier  string       `json:"supplier"`
	Actions   []string     `json:"actions"`
}

// View is everything needed to draw the table for the current state.
type View struct {
	Header        string          `json:"header"`
	Columns       []HeaderCell    `json:"columns"`
	Rows          []Row           `json:"rows"`
	EmptyMessage  string          `json:"empty_message,omitempty"`
	NameFilter    string          `json:"name_filter"`
	Filters       filters.Summary `json:"filters"`
	Sort          Sort            `json:"sort"`
	PageIndex     int             `json:"page_index"`
	PageSize      int             `json:"page_size"`
	PageCount     int             `json:"page_count"`
	PageLabel     string          `json:"page_label"`
	CanPrevious   bool            `json:"can_previous"`
	CanNext       bool            `json:"can_next"`
	FilteredCount int             `json:"filtered_count"`
	TotalCount    int             `json:"total_count"`
}

// FormatPrice renders a price as dollars with two decimals.
func FormatPrice(price float64) string {
	return "$" + decimal.NewFromFloat(price).StringFixed(2)
}

// CountLabel is the product count shown above the table.
func CountLabel(n int) string {
	return fmt.Sprintf("%d products", n)
}

// Render builds the view of the current page.
func (t *Table) Render() View {
	rows := t.Rows()
	count := pageCount(len(rows), t.pageSize)

	v := View{
		Header:        CountLabel(len(t.data)),
		NameFilter:    t.nameFilter,
		Filters:       t.predicate.Summary(),
		Sort:          t.sort,
		PageIndex:     t.pageIndex,
		PageSize:      t.pageSize,
		PageCount:     count,
		PageLabel:     fmt.Sprintf("Page %d of %d", t.pageIndex+1, count),
		CanPrevious:   t.pageIndex > 0,
		CanNext:       t.pageIndex+1 < count,
		FilteredCount: len(rows),
		TotalCount:    len(t.data),
	}
	for _, c := range columns {
		v.Columns = append(v.Columns, HeaderCell{
			ID:       c.ID,
			Label:    c.Label,
			Sortable: c.Sortable,
			Sorted:   t.sort.Direction(c.ID),
		})
	}

	visible := t.page(rows)
	v.Rows = make([]Row, 0, len(visible))
	for _, p := range visible {
		v.Rows = append(v.Rows, t.renderRow(p))
	}
	if len(v.Rows) == 0 {
		v.EmptyMessage = EmptyMessage
	}
	return v
}

func (t *Table) renderRow(p models.Product) Row {
	return Row{
		ID:        p.ID,
		Icon:      p.Icon,
		Name:      p.Name,
		SKU:       p.SKU,
		CreatedAt: p.CreatedAt.In(t.opts.Location).Format(DateLayout),
		Price:     FormatPrice(p.Price),
		Category:  string(p.Category),
		Status:    p.Status.Badge(),
		Quantity:  p.QuantityInStock,
		Supplier:  p.Supplier,
		Actions:   []string{"edit", "delete"},
	}
}
