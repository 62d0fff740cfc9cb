package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pranay9392/meity-audit-v2/internal/logger"
	"github.com/Pranay9392/meity-audit-v2/internal/metrics"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
	"github.com/Pranay9392/meity-audit-v2/internal/storage"
	"github.com/Pranay9392/meity-audit-v2/internal/util"
	"github.com/Pranay9392/meity-audit-v2/internal/workflow"
)

// AuditRequestService owns the lifecycle of audit requests: creation, detail
// updates, the status transition engine and the role-based visibility filter.
// The status column is written here and nowhere else.
type AuditRequestService struct {
	db       *gorm.DB
	blobs    storage.BlobStore
	notifier *NotificationService
}

func NewAuditRequestService(db *gorm.DB, blobs storage.BlobStore, notifier *NotificationService) *AuditRequestService {
	return &AuditRequestService{db: db, blobs: blobs, notifier: notifier}
}

// CreateAuditRequestInput carries the CSP-supplied descriptive fields.
type CreateAuditRequestInput struct {
	ServiceProviderName string
	DataCenterLocation  string
	Description         string
}

// Create opens a new request in the initial state for the acting CSP and
// records the submission in the audit trail. Only CSPs may create requests.
func (s *AuditRequestService) Create(actor *models.User, in CreateAuditRequestInput) (*models.AuditRequest, error) {
	if !actor.IsCSP() {
		return nil, &workflow.AuthorizationError{Role: actor.Role, Action: "create audit requests"}
	}
	if strings.TrimSpace(in.ServiceProviderName) == "" {
		return nil, &ValidationError{Field: "service_provider_name", Reason: "required"}
	}
	if strings.TrimSpace(in.DataCenterLocation) == "" {
		return nil, &ValidationError{Field: "data_center_location", Reason: "required"}
	}

	request := models.AuditRequest{
		UUID:                uuid.NewString(),
		CSPID:               actor.ID,
		ServiceProviderName: in.ServiceProviderName,
		DataCenterLocation:  in.DataCenterLocation,
		Description:         in.Description,
		Status:              models.StatusSubmittedByCSP,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		remark := models.Remark{
			AuditRequestID: request.ID,
			AuthorID:       actor.ID,
			Comment:        fmt.Sprintf("Audit request submitted by CSP: %s.", actor.Username),
		}
		return tx.Create(&remark).Error
	})
	if err != nil {
		return nil, err
	}

	request.CSP = *actor
	logger.WithFields(map[string]interface{}{
		"request": request.UUID,
		"csp":     util.SanitizeForLog(actor.Username),
	}).Info("audit request created")
	return &request, nil
}

// UpdateDetailsInput carries optional replacements for the descriptive
// fields; nil means leave unchanged.
type UpdateDetailsInput struct {
	ServiceProviderName *string
	DataCenterLocation  *string
	Description         *string
}

// UpdateDetails lets the owning CSP amend the descriptive fields, but only
// while the request is still in the initial state. Each accepted update
// appends a remark.
func (s *AuditRequestService) UpdateDetails(actor *models.User, id string, in UpdateDetailsInput) (*models.AuditRequest, error) {
	var request models.AuditRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", id).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAuditRequestNotFound
			}
			return err
		}
		if !actor.IsCSP() || request.CSPID != actor.ID || request.Status != models.StatusSubmittedByCSP {
			return &workflow.AuthorizationError{Role: actor.Role, Action: "update this audit request", Status: request.Status}
		}

		if in.ServiceProviderName != nil {
			if strings.TrimSpace(*in.ServiceProviderName) == "" {
				return &ValidationError{Field: "service_provider_name", Reason: "required"}
			}
			request.ServiceProviderName = *in.ServiceProviderName
		}
		if in.DataCenterLocation != nil {
			if strings.TrimSpace(*in.DataCenterLocation) == "" {
				return &ValidationError{Field: "data_center_location", Reason: "required"}
			}
			request.DataCenterLocation = *in.DataCenterLocation
		}
		if in.Description != nil {
			request.Description = *in.Description
		}

		if err := tx.Save(&request).Error; err != nil {
			return err
		}
		remark := models.Remark{
			AuditRequestID: request.ID,
			AuthorID:       actor.ID,
			Comment:        fmt.Sprintf("CSP updated details for request #%d.", request.ID),
		}
		return tx.Create(&remark).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// AttemptTransition applies one role-gated status change. Validation is a
// pure table lookup; the write is a conditional UPDATE guarded on the status
// read in the same transaction, so a lost race surfaces as
// ErrConcurrencyConflict instead of silently overwriting. The status write
// and the remark append commit together or not at all.
func (s *AuditRequestService) AttemptTransition(actor *models.User, id string, target models.Status) (*models.AuditRequest, error) {
	if !target.Valid() {
		metrics.IncTransitionRejected("validation")
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status '%s'", target)}
	}

	var request models.AuditRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", id).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAuditRequestNotFound
			}
			return err
		}
		if err := workflow.Validate(actor.Role, request.Status, target); err != nil {
			return err
		}
		return s.casStatus(tx, &request, request.Status, target, actor)
	})
	if err != nil {
		metrics.IncTransitionRejected(rejectionReason(err))
		return nil, err
	}

	metrics.IncTransitionAccepted()
	logger.WithFields(map[string]interface{}{
		"request": request.UUID,
		"actor":   util.SanitizeForLog(actor.Username),
		"role":    actor.Role,
		"status":  request.Status,
	}).Info("audit request status changed")

	if workflow.IsTerminal(request.Status) && s.notifier != nil {
		s.notifier.DecisionMade(&request, actor)
	}
	return &request, nil
}

// casStatus performs the guarded status write plus the remark append inside
// tx. RowsAffected == 0 means another writer got there first.
func (s *AuditRequestService) casStatus(tx *gorm.DB, request *models.AuditRequest, from, to models.Status, actor *models.User) error {
	res := tx.Model(&models.AuditRequest{}).
		Where("id = ? AND status = ?", request.ID, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConcurrencyConflict
	}

	remark := models.Remark{
		AuditRequestID: request.ID,
		AuthorID:       actor.ID,
		Comment:        workflow.TransitionRemark(actor.Role, to),
	}
	if err := tx.Create(&remark).Error; err != nil {
		return err
	}
	request.Status = to
	return nil
}

func rejectionReason(err error) string {
	var authErr *workflow.AuthorizationError
	var transErr *workflow.InvalidTransitionError
	switch {
	case errors.As(err, &authErr):
		return "authorization"
	case errors.As(err, &transErr):
		return "invalid_transition"
	case errors.Is(err, ErrConcurrencyConflict):
		return "conflict"
	case errors.Is(err, ErrAuditRequestNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// ListVisible returns the requests the actor may enumerate, most recently
// updated first with the request id breaking ties. Unknown roles see nothing.
func (s *AuditRequestService) ListVisible(actor *models.User) ([]models.AuditRequest, error) {
	statuses, ok := workflow.VisibleStatuses(actor.Role)
	if !ok {
		return []models.AuditRequest{}, nil
	}

	q := s.db.Preload("CSP").Order("updated_at desc, id desc")
	if actor.IsCSP() {
		q = q.Where("csp_id = ?", actor.ID)
	}
	if statuses != nil {
		q = q.Where("status IN ?", statuses)
	}

	requests := []models.AuditRequest{}
	if err := q.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetDetail loads one request with its documents and remarks. A CSP may only
// open a request it owns; the reviewing roles may open any request; unknown
// roles are denied.
func (s *AuditRequestService) GetDetail(actor *models.User, id string) (*models.AuditRequest, error) {
	var request models.AuditRequest
	err := s.db.Preload("CSP").
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc").Preload("UploadedBy")
		}).
		Preload("Remarks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc").Preload("Author")
		}).
		Where("uuid = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditRequestNotFound
		}
		return nil, err
	}

	if actor.IsCSP() {
		if request.CSPID != actor.ID {
			return nil, &workflow.AuthorizationError{Role: actor.Role, Action: "view this audit request"}
		}
	} else if !actor.Role.IsReviewer() {
		return nil, &workflow.AuthorizationError{Role: actor.Role, Action: "view audit requests"}
	}
	return &request, nil
}

// UploadCertificate attaches or replaces the certificate of empanelment.
// Only the owning CSP may do so, and only while the request is still in the
// initial state. The blob is fully stored before the transactional write, and
// the write itself is guarded on the initial status like casStatus: a
// transition committed while the blob streamed surfaces as
// ErrConcurrencyConflict instead of clobbering the newer row.
func (s *AuditRequestService) UploadCertificate(actor *models.User, id, filename string, file io.Reader) (*models.AuditRequest, error) {
	var request models.AuditRequest
	if err := s.db.Where("uuid = ?", id).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditRequestNotFound
		}
		return nil, err
	}
	if !actor.IsCSP() || request.CSPID != actor.ID || request.Status != models.StatusSubmittedByCSP {
		return nil, &workflow.AuthorizationError{Role: actor.Role, Action: "upload a certificate of empanelment", Status: request.Status}
	}

	ref, err := s.blobs.Save("certificates", filename, file)
	if err != nil {
		return nil, fmt.Errorf("store certificate: %w", err)
	}

	var previous string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var current models.AuditRequest
		if err := tx.First(&current, request.ID).Error; err != nil {
			return err
		}
		previous = current.CertificateOfEmpanelment

		res := tx.Model(&models.AuditRequest{}).
			Where("id = ? AND status = ?", request.ID, models.StatusSubmittedByCSP).
			Updates(map[string]interface{}{"certificate_of_empanelment": ref, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}

		remark := models.Remark{
			AuditRequestID: request.ID,
			AuthorID:       actor.ID,
			Comment:        "CSP uploaded Certificate of Empanelment.",
		}
		return tx.Create(&remark).Error
	})
	if err != nil {
		if delErr := s.blobs.Delete(ref); delErr != nil {
			logger.Log().WithError(delErr).Warn("failed to clean up orphaned certificate blob")
		}
		return nil, err
	}

	if previous != "" && previous != ref {
		if delErr := s.blobs.Delete(previous); delErr != nil {
			logger.Log().WithError(delErr).Warn("failed to remove replaced certificate blob")
		}
	}
	request.CertificateOfEmpanelment = ref
	return &request, nil
}

// OpenCertificate streams the stored certificate, applying the same access
// rule as the detail view.
func (s *AuditRequestService) OpenCertificate(actor *models.User, id string) (io.ReadCloser, error) {
	request, err := s.GetDetail(actor, id)
	if err != nil {
		return nil, err
	}
	if request.CertificateOfEmpanelment == "" {
		return nil, ErrDocumentNotFound
	}
	return s.blobs.Open(request.CertificateOfEmpanelment)
}
