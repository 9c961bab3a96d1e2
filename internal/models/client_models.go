package models

// Client is a billed party. GSTIN is the natural dedup key.
// TotalBilled and LastBillDate are the values captured when the client was
// created; the live figures come from ClientStatement.
type Client struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	GSTIN         string   `json:"gstin"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
	ContactPerson string   `json:"contactPerson,omitempty"`
	PONumbers     []string `json:"poNumbers,omitempty"`
	SiteAddress   string   `json:"siteAddress,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	LastBillDate  string   `json:"lastBillDate,omitempty"`
	TotalBilled   float64  `json:"totalBilled"`
}

// RecordID implements Record.
func (c Client) RecordID() string { return c.ID }

// ClientStatement is a client with billing figures recomputed from the bill ledger.
type ClientStatement struct {
	Client       Client  `json:"client"`
	Bills        []Bill  `json:"bills"`
	TotalBilled  float64 `json:"totalBilled"`
	TotalOrders  int     `json:"totalOrders"`
	LastBillDate string  `json:"lastBillDate,omitempty"`
}
