package models

// Technician report types.
const (
	ReportTypeInstallation = "installation"
	ReportTypeMaintenance  = "maintenance"
	ReportTypeRepair       = "repair"
	ReportTypeInspection   = "inspection"
)

// Technician report statuses.
const (
	ReportStatusPending      = "pending"
	ReportStatusAcknowledged = "acknowledged"
	ReportStatusCompleted    = "completed"
)

// TechnicianReport is a field visit logged by a technician.
type TechnicianReport struct {
	ID             string   `json:"id"`
	TechnicianName string   `json:"technicianName"`
	ClientID       string   `json:"clientId,omitempty"`
	ClientName     string   `json:"clientName"`
	SiteAddress    string   `json:"siteAddress"`
	ReportType     string   `json:"reportType"`
	Description    string   `json:"description"`
	Images         []string `json:"images"`
	Status         string   `json:"status"`
	AcknowledgedBy string   `json:"acknowledgedBy,omitempty"`
	AcknowledgedAt string   `json:"acknowledgedAt,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	WorkHours      float64  `json:"workHours,omitempty"`
	MaterialUsed   []string `json:"materialUsed,omitempty"`
}

// RecordID implements Record.
func (r TechnicianReport) RecordID() string { return r.ID }

// IsPending reports whether the report still awaits acknowledgement.
func (r TechnicianReport) IsPending() bool {
	return r.Status == ReportStatusPending
}
