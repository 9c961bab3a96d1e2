package models

// CompanyProfile is the seller block printed on exported documents.
type CompanyProfile struct {
	Name         string   `json:"name"`
	AddressLines []string `json:"addressLines"`
	Phone        string   `json:"phone"`
	PAN          string   `json:"pan"`
	GSTIN        string   `json:"gstin"`
	State        string   `json:"state"`
	BankDetails  []string `json:"bankDetails"`
}
