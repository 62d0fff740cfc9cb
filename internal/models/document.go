package models

import "time"

// DocumentType classifies an uploaded attachment. The identifiers are part of
// the wire contract.
type DocumentType string

const (
	DocumentTypeCSPSubmission DocumentType = "CSP_Submission"
	DocumentTypeAuditReport   DocumentType = "Audit_Report"
	DocumentTypeOther         DocumentType = "Other"
)

// DocumentTypes lists the allowed attachment classifications.
var DocumentTypes = []DocumentType{DocumentTypeCSPSubmission, DocumentTypeAuditReport, DocumentTypeOther}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Display returns the human-readable document type label.
func (t DocumentType) Display() string {
	switch t {
	case DocumentTypeCSPSubmission:
		return "CSP Submission"
	case DocumentTypeAuditReport:
		return "Audit Report"
	case DocumentTypeOther:
		return "Other"
	default:
		return string(t)
	}
}

// Document is a file attached to exactly one audit request. The owning
// request and the uploader are fixed at creation; only the uploader may
// delete it, regardless of request status.
type Document struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	UUID           string `json:"uuid" gorm:"uniqueIndex"`
	AuditRequestID uint   `json:"audit_request_id" gorm:"index"`
	UploadedByID   uint   `json:"-"`
	UploadedBy     User   `json:"uploaded_by" gorm:"foreignKey:UploadedByID"`

	DocumentType DocumentType `json:"document_type"`
	File         string       `json:"-"` // opaque blob reference
	FileName     string       `json:"file_name"`
	Description  string       `json:"description"`

	CreatedAt time.Time `json:"upload_date"`
}
