package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/Pranay9392/meity-audit-v2/internal/logger"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
)

// StaleRequestService periodically flags requests that have been sitting in
// a non-terminal state for too long, so reviewers notice forgotten work. It
// only reads and reports; it never moves a request through the workflow.
type StaleRequestService struct {
	db       *gorm.DB
	notifier *NotificationService
	maxAge   time.Duration
	cron     *cron.Cron
}

func NewStaleRequestService(db *gorm.DB, notifier *NotificationService, maxAge time.Duration) *StaleRequestService {
	return &StaleRequestService{db: db, notifier: notifier, maxAge: maxAge}
}

// Start schedules an hourly sweep. Call Stop on shutdown.
func (s *StaleRequestService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc("@hourly", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduled sweeps.
func (s *StaleRequestService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep finds non-terminal requests untouched for longer than maxAge, logs
// them and pings the external channels once per sweep.
func (s *StaleRequestService) Sweep() {
	cutoff := time.Now().Add(-s.maxAge)

	var stale []models.AuditRequest
	err := s.db.
		Where("status NOT IN ?", []models.Status{
			models.StatusApprovedByScientistF,
			models.StatusRejectedByScientistF,
		}).
		Where("updated_at < ?", cutoff).
		Order("updated_at asc").
		Find(&stale).Error
	if err != nil {
		logger.Log().WithError(err).Error("stale request sweep failed")
		return
	}
	if len(stale) == 0 {
		return
	}

	for _, request := range stale {
		logger.WithFields(map[string]interface{}{
			"request":      request.UUID,
			"status":       request.Status,
			"last_updated": request.UpdatedAt,
		}).Warn("audit request awaiting action")
	}
	if s.notifier != nil {
		s.notifier.StaleRequests(len(stale), &stale[0])
	}
}
