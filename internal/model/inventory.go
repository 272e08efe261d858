package model

import "time"

// Unit is the unit of measure the backend attaches to a quantity.
type Unit string

const (
	UnitGram       Unit = "G"
	UnitMilliliter Unit = "ML"
	UnitPiece      Unit = "PCS"
)

type Product struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type InventoryItem struct {
	ID         string     `json:"id"`
	Quantity   float64    `json:"quantity"`
	Unit       Unit       `json:"unit"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	Product    *Product   `json:"product,omitempty"`
}

// Name returns the product name, or an empty string for unnamed stock.
func (i InventoryItem) Name() string {
	if i.Product == nil {
		return ""
	}
	return i.Product.Name
}

// InventoryInput is the payload for adding or updating stock.
type InventoryInput struct {
	ProductName string     `json:"productName,omitempty"`
	Quantity    float64    `json:"quantity"`
	Unit        Unit       `json:"unit"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
}
