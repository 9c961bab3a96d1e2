package models

// Item is an inventory line. Description doubles as the display key that
// freeform bill and purchase lines are matched against.
type Item struct {
	ID               string   `json:"id"`
	Description      string   `json:"description"`
	Unit             string   `json:"unit"`
	HSN              string   `json:"hsn"`
	Rate             float64  `json:"rate"`
	Category         string   `json:"category"`
	Stock            int      `json:"stock"`
	MinStock         int      `json:"minStock"`
	SellingRate      *float64 `json:"sellingRate,omitempty"`
	PurchaseRate     *float64 `json:"purchaseRate,omitempty"`
	LastPurchaseDate string   `json:"lastPurchaseDate,omitempty"`
	CreatedAt        string   `json:"createdAt,omitempty"`
}

// RecordID implements Record.
func (i Item) RecordID() string { return i.ID }

// IsLowStock reports whether the item is at or below its reorder threshold.
func (i Item) IsLowStock() bool {
	return i.Stock <= i.MinStock
}

// Record is implemented by every value stored in a ledger collection.
type Record interface {
	RecordID() string
}
