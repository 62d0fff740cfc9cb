package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Pranay9392/meity-audit-v2/internal/metrics"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
	"github.com/Pranay9392/meity-audit-v2/internal/workflow"
)

// RemarkService adds free-text commentary to a request's audit trail. Unlike
// the deterministic remarks written by the other services, these carry
// caller-supplied text; only the reviewing roles may add them, and they have
// no status side effect.
type RemarkService struct {
	db *gorm.DB
}

func NewRemarkService(db *gorm.DB) *RemarkService {
	return &RemarkService{db: db}
}

// Add appends one remark authored by the actor. The comment is stored
// verbatim.
func (s *RemarkService) Add(actor *models.User, requestID, comment string) (*models.Remark, error) {
	if !actor.Role.IsReviewer() {
		return nil, &workflow.AuthorizationError{Role: actor.Role, Action: "add remarks"}
	}
	if strings.TrimSpace(comment) == "" {
		return nil, &ValidationError{Field: "comment", Reason: "required"}
	}

	var request models.AuditRequest
	if err := s.db.Where("uuid = ?", requestID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditRequestNotFound
		}
		return nil, err
	}

	remark := models.Remark{
		AuditRequestID: request.ID,
		AuthorID:       actor.ID,
		Comment:        comment,
	}
	if err := s.db.Create(&remark).Error; err != nil {
		return nil, err
	}

	metrics.IncRemarkAdded()
	remark.Author = *actor
	return &remark, nil
}

// ListForRequest returns a request's remarks in causal order: timestamp
// ascending, insertion order breaking ties.
func (s *RemarkService) ListForRequest(requestID uint) ([]models.Remark, error) {
	var remarks []models.Remark
	err := s.db.Preload("Author").
		Where("audit_request_id = ?", requestID).
		Order("created_at asc, id asc").
		Find(&remarks).Error
	if err != nil {
		return nil, err
	}
	return remarks, nil
}
