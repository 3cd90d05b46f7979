package models

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var skuPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidSKU reports whether s only holds letters, digits, hyphens and underscores.
func ValidSKU(s string) bool {
	return skuPattern.MatchString(s)
}

// RegisterValidations installs the inventory tags (sku, category, status,
// glyph) on v.
func RegisterValidations(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"sku": func(fl validator.FieldLevel) bool {
			return ValidSKU(fl.Field().String())
		},
		"category": func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		},
		"status": func(fl validator.FieldLevel) bool {
			return Status(fl.Field().String()).Valid()
		},
		"glyph": func(fl validator.FieldLevel) bool {
			return ValidGlyph(fl.Field().String())
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return nil
}

// NewValidator returns a validator with the inventory tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}
