package dialog

import (
	"inventory/internal/form"
	"inventory/internal/models"
)

// Option is one entry of a picker.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// View is the dialog as the client draws it.
type View struct {
	Open        bool             `json:"open"`
	Mode        string           `json:"mode"`
	Title       string           `json:"title"`
	SubmitLabel string           `json:"submit_label"`
	ProductID   string           `json:"product_id,omitempty"`
	Form        form.ProductForm `json:"form"`
	Errors      form.FieldErrors `json:"errors,omitempty"`
	Categories  []Option         `json:"categories"`
	Statuses    []Option         `json:"statuses"`
	Icons       []Option         `json:"icons"`
}

// Render returns the dialog view. loading is the store state.
func (c *Controller) Render(loading bool) View {
	f := c.Form()
	v := View{
		Open:        c.IsOpen(),
		Mode:        c.state.String(),
		Title:       c.Title(),
		SubmitLabel: c.SubmitLabel(loading),
		Form:        f,
		Errors:      c.Errors(),
	}
	if c.selected != nil {
		v.ProductID = c.selected.ID
	}
	for _, cat := range models.Categories() {
		v.Categories = append(v.Categories, Option{
			Value:    cat.Slug(),
			Label:    string(cat),
			Selected: cat == f.Category,
		})
	}
	for _, s := range models.Statuses() {
		v.Statuses = append(v.Statuses, Option{
			Value:    string(s),
			Label:    string(s),
			Selected: s == f.Status,
		})
	}
	for _, g := range models.Glyphs() {
		v.Icons = append(v.Icons, Option{
			Value:    g.Name,
			Label:    g.Name,
			Selected: g.Name == f.Icon,
		})
	}
	return v
}
