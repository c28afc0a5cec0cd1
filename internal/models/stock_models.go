package models

import "time"

// EventKind identifies one of the three stock event tables.
type EventKind string

const (
	KindHarvest EventKind = "harvest"
	KindSale    EventKind = "sale"
	KindLoss    EventKind = "loss"
)

// StockSign is the contribution sign of an event kind towards stock_on_hand:
// harvests add stock, sales and losses remove it.
func (k EventKind) StockSign() float64 {
	if k == KindHarvest {
		return 1
	}
	return -1
}

// StockEvent is the kind-independent shape of a persisted event row,
// used by the ledger when editing or deleting events.
type StockEvent struct {
	ID         int64
	Kind       EventKind
	VarietyID  int64
	QuantityKg float64
}

// HarvestRecord is a harvest history row with joined catalog names.
type HarvestRecord struct {
	ID          int64     `json:"id"`
	VarietyID   int64     `json:"variety_id"`
	VarietyName string    `json:"variety_name"`
	ProductName string    `json:"product_name"`
	QuantityKg  float64   `json:"quantity_kg"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// SaleRecord is a sale history row with joined catalog names and line total.
type SaleRecord struct {
	ID          int64     `json:"id"`
	VarietyID   int64     `json:"variety_id"`
	VarietyName string    `json:"variety_name"`
	ProductName string    `json:"product_name"`
	QuantityKg  float64   `json:"quantity_kg"`
	UnitPrice   float64   `json:"unit_price"`
	Total       float64   `json:"total"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// LossRecord is a loss history row with joined catalog names.
type LossRecord struct {
	ID          int64     `json:"id"`
	VarietyID   int64     `json:"variety_id"`
	VarietyName string    `json:"variety_name"`
	ProductName string    `json:"product_name"`
	QuantityKg  float64   `json:"quantity_kg"`
	Reason      *string   `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
