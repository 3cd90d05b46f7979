package table

import (
	"cmp"
	"strings"

	"inventory/internal/models"
)

// ColumnID names a table column.
type ColumnID string

const (
	ColumnName      ColumnID = "name"
	ColumnSKU       ColumnID = "sku"
	ColumnCreatedAt ColumnID = "created_at"
	ColumnPrice     ColumnID = "price"
	ColumnCategory  ColumnID = "category"
	ColumnStatus    ColumnID = "status"
	ColumnQuantity  ColumnID = "quantity_in_stock"
	ColumnSupplier  ColumnID = "supplier"
	ColumnActions   ColumnID = "actions"
)

// Column describes one column of the product table.
type Column struct {
	ID       ColumnID
	Label    string
	Sortable bool
	compare  func(a, b models.Product) int
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

var columns = []Column{
	{ID: ColumnName, Label: "Name", Sortable: true, compare: func(a, b models.Product) int {
		return compareText(a.Name, b.Name)
	}},
	{ID: ColumnSKU, Label: "SKU", Sortable: true, compare: func(a, b models.Product) int {
		return compareText(a.SKU, b.SKU)
	}},
	{ID: ColumnCreatedAt, Label: "Created At", Sortable: true, compare: func(a, b models.Product) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	}},
	{ID: ColumnPrice, Label: "Price", Sortable: true, compare: func(a, b models.Product) int {
		return cmp.Compare(a.Price, b.Price)
	}},
	{ID: ColumnCategory, Label: "Category", Sortable: true, compare: func(a, b models.Product) int {
		return compareText(string(a.Category), string(b.Category))
	}},
	{ID: ColumnStatus, Label: "Status", Sortable: true, compare: func(a, b models.Product) int {
		return compareText(string(a.Status), string(b.Status))
	}},
	{ID: ColumnQuantity, Label: "Quantity In Stock", Sortable: true, compare: func(a, b models.Product) int {
		return cmp.Compare(a.QuantityInStock, b.QuantityInStock)
	}},
	{ID: ColumnSupplier, Label: "Supplier", Sortable: true, compare: func(a, b models.Product) int {
		return compareText(a.Supplier, b.Supplier)
	}},
	{ID: ColumnActions, Label: ""},
}

// Columns returns the table columns in display order.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

func lookupColumn(id ColumnID) (Column, bool) {
	for _, c := range columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}
