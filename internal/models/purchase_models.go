package models

// PurchaseItem is one line of a supplier purchase.
type PurchaseItem struct {
	ID              string  `json:"id"`
	InventoryItemID string  `json:"inventoryItemId,omitempty"`
	Description     string  `json:"description"`
	Qty             int     `json:"qty"`
	Rate            float64 `json:"rate"`
	Amount          float64 `json:"amount"`
	HSN             string  `json:"hsn"`
}

// IsLinked reports whether the line references an inventory item by id.
func (i PurchaseItem) IsLinked() bool {
	return i.InventoryItemID != ""
}

// Purchase is a committed supplier bill. Unlike Bill it carries no rounding.
type Purchase struct {
	ID            string         `json:"id"`
	Date          string         `json:"date"`
	SupplierName  string         `json:"supplierName"`
	SupplierGSTIN string         `json:"supplierGSTIN"`
	BillNo        string         `json:"billNo"`
	Items         []PurchaseItem `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	CGST          float64        `json:"cgst"`
	SGST          float64        `json:"sgst"`
	IGST          float64        `json:"igst"`
	GrandTotal    float64        `json:"grandTotal"`
	IsIGST        bool           `json:"isIGST"`
	CreatedAt     string         `json:"createdAt"`
}

// RecordID implements Record.
func (p Purchase) RecordID() string { return p.ID }

// TotalGST is the input tax paid on the purchase.
func (p Purchase) TotalGST() float64 {
	return p.CGST + p.SGST + p.IGST
}

// PurchaseDraft is a purchase being composed.
type PurchaseDraft struct {
	Date          string         `json:"date"`
	SupplierName  string         `json:"supplierName"`
	SupplierGSTIN string         `json:"supplierGSTIN"`
	BillNo        string         `json:"billNo"`
	Items         []PurchaseItem `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	CGST          float64        `json:"cgst"`
	SGST          float64        `json:"sgst"`
	IGST          float64        `json:"igst"`
	GrandTotal    float64        `json:"grandTotal"`
	IsIGST        bool           `json:"isIGST"`
}

// PurchaseCommitResult lists the stock items touched by a purchase.
type PurchaseCommitResult struct {
	Purchase     Purchase `json:"purchase"`
	UpdatedItems []Item   `json:"updatedItems"`
	CreatedItems []Item   `json:"createdItems"`
}
