package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCatalog(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 10)
	assert.Equal(t, CategoryElectronics, cats[0])
	assert.Equal(t, CategoryOthers, cats[9])

	cats[0] = "Mutated"
	assert.Equal(t, CategoryElectronics, Categories()[0])

	assert.True(t, CategoryHomeDecor.Valid())
	assert.False(t, Category("home-decor").Valid())
	assert.Equal(t, "home-decor", CategoryHomeDecor.Slug())
	assert.Equal(t, "books", CategoryBooks.Slug())
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, []Status{StatusPublished, StatusInactive, StatusDraft}, Statuses())
	assert.Equal(t, Badge{Label: "Published", Color: "green", Glyph: "check"}, StatusPublished.Badge())
	assert.Equal(t, Badge{Label: "Inactive", Color: "red", Glyph: "close"}, StatusInactive.Badge())
	assert.Equal(t, Badge{Label: "Draft", Color: "gray", Glyph: "inbox"}, StatusDraft.Badge())
	assert.False(t, Status("Archived").Valid())
}

func TestGlyphs(t *testing.T) {
	assert.Equal(t, "laptop", DefaultGlyph())
	assert.True(t, ValidGlyph("lamp"))
	assert.False(t, ValidGlyph("rocket"))
	assert.NotEmpty(t, Glyphs())
}

func TestProductValidation(t *testing.T) {
	v := NewValidator()
	valid := Product{
		ID:              "p1",
		Name:            "Table Lamp",
		SKU:             "HD-LAMP_08",
		Supplier:        "Brightco",
		Category:        CategoryHomeDecor,
		Status:          StatusPublished,
		QuantityInStock: 3,
		Price:           54.2,
		Icon:            "lamp",
		CreatedAt:       time.Now(),
	}
	assert.NoError(t, v.Struct(valid))

	tests := []struct {
		name   string
		mutate func(p *Product)
	}{
		{"bad sku", func(p *Product) { p.SKU = "HD LAMP" }},
		{"unknown category", func(p *Product) { p.Category = "Garden" }},
		{"unknown status", func(p *Product) { p.Status = "Archived" }},
		{"unknown icon", func(p *Product) { p.Icon = "rocket" }},
		{"negative quantity", func(p *Product) { p.QuantityInStock = -1 }},
		{"negative price", func(p *Product) { p.Price = -0.5 }},
		{"price beyond column", func(p *Product) { p.Price = 1e11 }},
		{"quantity beyond int32", func(p *Product) { p.QuantityInStock = 1 << 31 }},
		{"missing name", func(p *Product) { p.Name = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.Error(t, v.Struct(p))
		})
	}
}
