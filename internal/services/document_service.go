package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pranay9392/meity-audit-v2/internal/logger"
	"github.com/Pranay9392/meity-audit-v2/internal/metrics"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
	"github.com/Pranay9392/meity-audit-v2/internal/storage"
	"github.com/Pranay9392/meity-audit-v2/internal/workflow"
)

// DocumentService handles the attachment sub-lifecycle: uploads gated by
// role and request status, deletion restricted to the uploader. Every
// accepted mutation appends one remark to the owning request's audit trail.
type DocumentService struct {
	db    *gorm.DB
	blobs storage.BlobStore
}

func NewDocumentService(db *gorm.DB, blobs storage.BlobStore) *DocumentService {
	return &DocumentService{db: db, blobs: blobs}
}

// Upload stores the file and attaches it to the request. The blob is fully
// received and written before the transaction opens so no lock is held
// across upload streaming; an orphaned blob is removed if the commit fails.
func (s *DocumentService) Upload(actor *models.User, requestID string, docType models.DocumentType, filename, description string, file io.Reader) (*models.Document, error) {
	if !docType.Valid() {
		return nil, &ValidationError{Field: "document_type", Reason: fmt.Sprintf("unknown document type '%s'", docType)}
	}

	var request models.AuditRequest
	if err := s.db.Where("uuid = ?", requestID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditRequestNotFound
		}
		return nil, err
	}
	if !workflow.CanUploadDocument(actor, &request) {
		return nil, &workflow.AuthorizationError{Role: actor.Role, Action: "upload documents", Status: request.Status}
	}

	ref, err := s.blobs.Save("audit_documents", filename, file)
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	doc := models.Document{
		UUID:           uuid.NewString(),
		AuditRequestID: request.ID,
		UploadedByID:   actor.ID,
		DocumentType:   docType,
		File:           ref,
		FileName:       filename,
		Description:    description,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		remark := models.Remark{
			AuditRequestID: request.ID,
			AuthorID:       actor.ID,
			Comment:        uploadRemark(actor.Role, docType),
		}
		return tx.Create(&remark).Error
	})
	if err != nil {
		if delErr := s.blobs.Delete(ref); delErr != nil {
			logger.Log().WithError(delErr).Warn("failed to clean up orphaned document blob")
		}
		return nil, err
	}

	metrics.IncDocumentUploaded()
	doc.UploadedBy = *actor
	return &doc, nil
}

// uploadRemark derives the audit-trail wording for an accepted upload.
func uploadRemark(role models.Role, docType models.DocumentType) string {
	actor := "User"
	switch role {
	case models.RoleCSP:
		actor = "CSP"
	case models.RoleSTQCAuditor:
		actor = "STQC Auditor"
	}
	return fmt.Sprintf("%s uploaded a document of type '%s'.", actor, docType)
}

// Delete removes a document. Only its uploader may delete it, at any time,
// independent of the owning request's status; the request's status is not
// touched. The blob is removed after the row commit, best effort.
func (s *DocumentService) Delete(actor *models.User, documentID string) error {
	var doc models.Document
	if err := s.db.Where("uuid = ?", documentID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	if doc.UploadedByID != actor.ID {
		return &workflow.AuthorizationError{Role: actor.Role, Action: "delete this document"}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Document{}, doc.ID).Error; err != nil {
			return err
		}
		remark := models.Remark{
			AuditRequestID: doc.AuditRequestID,
			AuthorID:       actor.ID,
			Comment:        fmt.Sprintf("Document of type '%s' deleted by %s.", doc.DocumentType, actor.Username),
		}
		return tx.Create(&remark).Error
	})
	if err != nil {
		return err
	}

	metrics.IncDocumentDeleted()
	if delErr := s.blobs.Delete(doc.File); delErr != nil {
		logger.Log().WithError(delErr).WithField("document", doc.UUID).Warn("failed to remove document blob")
	}
	return nil
}

// Open streams a document's contents, applying the owning request's
// detail-view access rule: a CSP may only fetch attachments of its own
// requests, the reviewing roles may fetch any.
func (s *DocumentService) Open(actor *models.User, documentID string) (io.ReadCloser, *models.Document, error) {
	var doc models.Document
	if err := s.db.Where("uuid = ?", documentID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, err
	}

	var request models.AuditRequest
	if err := s.db.First(&request, doc.AuditRequestID).Error; err != nil {
		return nil, nil, err
	}
	if actor.IsCSP() {
		if request.CSPID != actor.ID {
			return nil, nil, &workflow.AuthorizationError{Role: actor.Role, Action: "download this document"}
		}
	} else if !actor.Role.IsReviewer() {
		return nil, nil, &workflow.AuthorizationError{Role: actor.Role, Action: "download documents"}
	}

	rc, err := s.blobs.Open(doc.File)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, err
	}
	return rc, &doc, nil
}
