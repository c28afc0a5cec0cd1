package models

import "time"

// Product is a top-level catalog category ("Vegetables", "Fruits", ...).
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Variety is a sellable sub-category of a Product ("Red Cabbage" under "Vegetables").
// StockOnHand is a derived running total maintained by the stock ledger; it is
// never written directly by callers.
type Variety struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	StockOnHand float64   `json:"stock_on_hand"`
	CreatedAt   time.Time `json:"created_at"`
}
