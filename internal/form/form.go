// Package form holds the validated product form shared by the create and
// edit flows.
package form

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"inventory/internal/models"

	"github.com/go-playground/validator/v10"
)

// ProductForm is the user-editable part of a product. Category, status and
// icon are validated together with the text fields.
type ProductForm struct {
	ProductName string          `json:"product_name" validate:"required,max=100"`
	SKU         string          `json:"sku" validate:"required,sku"`
	Supplier    string          `json:"supplier" validate:"required,max=100"`
	Quantity    *float64        `json:"quantity" validate:"required,whole,gte=0,lte=2147483647"`
	Price       PriceInput      `json:"price" validate:"required"`
	Category    models.Category `json:"category" validate:"required,category"`
	Status      models.Status   `json:"status" validate:"required,status"`
	Icon        string          `json:"icon" validate:"required,glyph"`
}

// MaxQuantity is the largest stock count a form accepts.
const MaxQuantity = math.MaxInt32

// QuantityOf returns a quantity field holding n.
func QuantityOf(n int) *float64 {
	f := float64(n)
	return &f
}

// Defaults is the blank form shown when adding a product.
func Defaults() ProductForm {
	return ProductForm{
		Quantity: QuantityOf(0),
		Price:    PriceOf(0),
		Category: models.CategoryElectronics,
		Status:   models.StatusPublished,
		Icon:     models.DefaultGlyph(),
	}
}

// FromProduct pre-fills the form with an existing record.
func FromProduct(p models.Product) ProductForm {
	return ProductForm{
		ProductName: p.Name,
		SKU:         p.SKU,
		Supplier:    p.Supplier,
		Quantity:    QuantityOf(p.QuantityInStock),
		Price:       PriceOf(p.Price),
		Category:    p.Category,
		Status:      p.Status,
		Icon:        p.Icon,
	}
}

// Values is a form that passed validation, with the price rounded.
type Values struct {
	Name     string
	SKU      string
	Supplier string
	Quantity int
	Price    float64
	Category models.Category
	Status   models.Status
	Icon     string
}

// NewProduct builds a fresh record from the values.
func (v Values) NewProduct(id string, now time.Time) models.Product {
	return v.ApplyTo(models.Product{ID: id, CreatedAt: now})
}

// ApplyTo overwrites the editable fields of existing, keeping its ID and
// creation time.
func (v Values) ApplyTo(existing models.Product) models.Product {
	existing.Name = v.Name
	existing.SKU = v.SKU
	existing.Supplier = v.Supplier
	existing.QuantityInStock = v.Quantity
	existing.Price = v.Price
	existing.Category = v.Category
	existing.Status = v.Status
	existing.Icon = v.Icon
	return existing
}

// FieldErrors maps a form field to the message shown beneath it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var messages = map[string]string{
	"product_name.required": "Product Name is required",
	"product_name.max":      "Product Name must be 100 characters or less",
	"sku.required":          "SKU is required",
	"sku.sku":               "SKU must be alphanumeric",
	"supplier.required":     "Supplier is required",
	"supplier.max":          "Supplier name must be 100 characters or less",
	"quantity.required":     "Quantity is required",
	"quantity.whole":        "Quantity must be an integer",
	"quantity.gte":          "Quantity cannot be negative",
	"quantity.lte":          "Quantity is too large",
	"price.required":        "Price is required",
	"category.required":     "Category is required",
	"category.category":     "Category must be one of the listed categories",
	"status.required":       "Status is required",
	"status.status":         "Status must be Published, Inactive or Draft",
	"icon.required":         "Icon is required",
	"icon.glyph":            "Icon must be one of the listed icons",
}

// Validator checks product forms.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator with the form tags registered.
func NewValidator() *Validator {
	v := models.NewValidator()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "whole", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Trunc(f) == f
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func priceMessage(err error) string {
	switch {
	case errors.Is(err, ErrPriceNegative):
		return "Price cannot be negative"
	case errors.Is(err, ErrPriceTooLarge):
		return fmt.Sprintf("Price must be %s or less", MaxPrice.StringFixed(2))
	case errors.Is(err, ErrPriceTooLong):
		return fmt.Sprintf("Price must be %d characters or less", maxPriceLength)
	}
	return "Price must be a number"
}

// Validate checks f. On failure the error is a FieldErrors with one message
// per failing field and nothing should be submitted. The price is parsed
// once, after the tag checks.
func (v *Validator) Validate(f ProductForm) (Values, error) {
	fieldErrors := FieldErrors{}
	if err := v.validate.Struct(f); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return Values{}, fmt.Errorf("failed to validate product form: %w", err)
		}
		for _, e := range validationErrors {
			key := e.Field() + "." + e.Tag()
			msg, ok := messages[key]
			if !ok {
				msg = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			}
			fieldErrors[e.Field()] = msg
		}
	}

	var price float64
	if _, failed := fieldErrors["price"]; !failed {
		amount, err := f.Price.Amount()
		if err != nil {
			fieldErrors["price"] = priceMessage(err)
		}
		price = amount
	}
	if len(fieldErrors) > 0 {
		return Values{}, fieldErrors
	}

	return Values{
		Name:     f.ProductName,
		SKU:      f.SKU,
		Supplier: f.Supplier,
		Quantity: int(*f.Quantity),
		Price:    price,
		Category: f.Category,
		Status:   f.Status,
		Icon:     f.Icon,
	}, nil
}
