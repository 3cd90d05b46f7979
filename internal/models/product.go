package models

import "time"

// Product represents one record in the inventory.
type Product struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"required"`
	Name            string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	SKU             string    `json:"sku" gorm:"type:varchar(64);index" validate:"required,sku"`
	Supplier        string    `json:"supplier" gorm:"type:varchar(100)" validate:"required,max=100"`
	Category        Category  `json:"category" gorm:"type:varchar(32);index" validate:"category"`
	Status          Status    `json:"status" gorm:"type:varchar(16);index" validate:"status"`
	QuantityInStock int       `json:"quantity_in_stock" validate:"gte=0,lte=2147483647"`
	Price           float64   `json:"price" gorm:"type:decimal(12,2)" validate:"gte=0,lte=9999999999.99"`
	Icon            string    `json:"icon" gorm:"type:varchar(32)" validate:"glyph"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
