package models

// BillItem is one line of a bill. Amount is always Qty x Rate as computed by the composer.
type BillItem struct {
	ID string `json:"id"`
	// InventoryItemID links the line to a stock item. Empty means a freeform line,
	// which falls back to matching the inventory by exact description.
	InventoryItemID string  `json:"inventoryItemId,omitempty"`
	Description     string  `json:"description"`
	Unit            string  `json:"unit"`
	HSN             string  `json:"hsn"`
	Qty             int     `json:"qty"`
	Rate            float64 `json:"rate"`
	Amount          float64 `json:"amount"`
}

// IsLinked reports whether the line references an inventory item by id.
func (i BillItem) IsLinked() bool {
	return i.InventoryItemID != ""
}

// Bill is a committed tax invoice. Bills are never updated after commit.
type Bill struct {
	ID            string     `json:"id"`
	BillNo        string     `json:"billNo"`
	Date          string     `json:"date"` // YYYY-MM-DD
	ClientID      string     `json:"clientId"`
	ClientName    string     `json:"clientName"`
	ClientGSTIN   string     `json:"clientGSTIN"`
	ClientAddress string     `json:"clientAddress"`
	PONumber      string     `json:"poNumber"`
	SiteAddress   string     `json:"siteAddress"`
	Items         []BillItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	CGST          float64    `json:"cgst"`
	SGST          float64    `json:"sgst"`
	IGST          float64    `json:"igst"`
	RoundOff      float64    `json:"roundOff"`
	GrandTotal    float64    `json:"grandTotal"`
	AmountInWords string     `json:"amountInWords"`
	IsIGST        bool       `json:"isIGST"`
	UserID        string     `json:"userId"`
	CreatedAt     string     `json:"createdAt"` // RFC3339
}

// RecordID implements Record.
func (b Bill) RecordID() string { return b.ID }

// TotalGST is the sum of all three tax heads.
func (b Bill) TotalGST() float64 {
	return b.CGST + b.SGST + b.IGST
}

// BillDraft is a bill still being composed. Totals are recomputed on every
// item or tax-mode change, so a draft is always internally consistent.
type BillDraft struct {
	BillNo        string     `json:"billNo"`
	Date          string     `json:"date"`
	ClientID      string     `json:"clientId"`
	ClientName    string     `json:"clientName"`
	ClientGSTIN   string     `json:"clientGSTIN"`
	ClientAddress string     `json:"clientAddress"`
	PONumber      string     `json:"poNumber"`
	SiteAddress   string     `json:"siteAddress"`
	Items         []BillItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	CGST          float64    `json:"cgst"`
	SGST          float64    `json:"sgst"`
	IGST          float64    `json:"igst"`
	RoundOff      float64    `json:"roundOff"`
	GrandTotal    float64    `json:"grandTotal"`
	AmountInWords string     `json:"amountInWords"`
	IsIGST        bool       `json:"isIGST"`
}

// StockSkip records a bill line whose stock decrement was not applied.
type StockSkip struct {
	LineID          string `json:"lineId"`
	Description     string `json:"description"`
	InventoryItemID string `json:"inventoryItemId,omitempty"`
	Requested       int    `json:"requested"`
	Available       int    `json:"available"`
	Reason          string `json:"reason"` // "not_found" or "insufficient_stock"
}

// BillCommitResult is what a successful bill commit produced.
type BillCommitResult struct {
	Bill          Bill        `json:"bill"`
	CreatedClient *Client     `json:"createdClient,omitempty"`
	StockSkips    []StockSkip `json:"stockSkips"`
}
