package models

import "time"

// Status is the workflow state of an audit request. The string values are
// part of the wire contract and must match the persisted identifiers exactly.
type Status string

const (
	// StatusSubmittedByCSP is the unique initial state.
	StatusSubmittedByCSP Status = "Submitted_by_CSP"
	// StatusForwardedToSTQC follows a MeitY Reviewer forwarding the request.
	StatusForwardedToSTQC Status = "Forwarded_to_STQC"
	// StatusAuditCompletedBySTQC follows the STQC Auditor finishing the audit.
	StatusAuditCompletedBySTQC Status = "Audit_Completed_by_STQC"
	// StatusApprovedByScientistF is the terminal approval state.
	StatusApprovedByScientistF Status = "Approved_by_ScientistF"
	// StatusRejectedByScientistF is the terminal rejection state.
	StatusRejectedByScientistF Status = "Rejected_by_ScientistF"
)

// Statuses lists every workflow state in happy-path order.
var Statuses = []Status{
	StatusSubmittedByCSP,
	StatusForwardedToSTQC,
	StatusAuditCompletedBySTQC,
	StatusApprovedByScientistF,
	StatusRejectedByScientistF,
}

// Valid reports whether s is one of the five workflow states.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Display returns the human-readable status label used in remarks and UIs.
func (s Status) Display() string {
	switch s {
	case StatusSubmittedByCSP:
		return "Submitted by CSP"
	case StatusForwardedToSTQC:
		return "Forwarded to STQC for Audit"
	case StatusAuditCompletedBySTQC:
		return "Audit Completed by STQC"
	case StatusApprovedByScientistF:
		return "Approved by Scientist F"
	case StatusRejectedByScientistF:
		return "Rejected by Scientist F"
	default:
		return string(s)
	}
}

// AuditRequest is the aggregate root of the workflow. Status is only ever
// written through the transition engine in AuditRequestService; documents and
// remarks are owned by the request and removed with it.
type AuditRequest struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	UUID  string `json:"uuid" gorm:"uniqueIndex"`
	CSPID uint   `json:"-" gorm:"index"`
	CSP   User   `json:"csp" gorm:"foreignKey:CSPID"`

	ServiceProviderName string `json:"service_provider_name"`
	DataCenterLocation  string `json:"data_center_location"`
	Description         string `json:"description"`
	Status              Status `json:"status" gorm:"default:'Submitted_by_CSP'"`

	// CertificateOfEmpanelment is an opaque blob reference, independent of
	// the Document sub-lifecycle.
	CertificateOfEmpanelment string `json:"certificate_of_empanelment,omitempty"`

	Documents []Document `json:"documents,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Remarks   []Remark   `json:"remarks,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"request_date"`
	UpdatedAt time.Time `json:"last_updated"`
}

// StatusDisplay is serialized alongside the raw identifier for presentation.
func (r *AuditRequest) StatusDisplay() string { return r.Status.Display() }
