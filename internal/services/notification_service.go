package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"

	"github.com/Pranay9392/meity-audit-v2/internal/logger"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
)

// NotificationService pushes workflow events to external channels via
// shoutrrr URLs (Discord, Slack, email, ...). Delivery is fire-and-forget:
// a failed ping is logged, never surfaced to the caller, and never blocks
// the transactional write that triggered it.
type NotificationService struct {
	urls []string
}

func NewNotificationService(urls []string) *NotificationService {
	return &NotificationService{urls: urls}
}

// DecisionMade announces a Scientist F final decision on a request.
func (s *NotificationService) DecisionMade(request *models.AuditRequest, actor *models.User) {
	title := fmt.Sprintf("Audit request #%d: %s", request.ID, request.Status.Display())
	message := fmt.Sprintf("Scientist F %s decided on the audit request for %s. Final status: %s.",
		actor.Username, request.ServiceProviderName, request.Status.Display())
	s.send(title, message)
}

// StaleRequests announces the result of a stale-request sweep.
func (s *NotificationService) StaleRequests(count int, oldest *models.AuditRequest) {
	title := fmt.Sprintf("%d audit request(s) awaiting action", count)
	message := title + "."
	if oldest != nil {
		message = fmt.Sprintf("%s Oldest: #%d (%s), in '%s' since %s.",
			message, oldest.ID, oldest.ServiceProviderName, oldest.Status.Display(),
			oldest.UpdatedAt.Format("2006-01-02"))
	}
	s.send(title, message)
}

func (s *NotificationService) send(title, message string) {
	for _, url := range s.urls {
		go func(dest string) {
			// Newline between title and body formats better in chat apps.
			if err := shoutrrr.Send(dest, fmt.Sprintf("%s\n\n%s", title, message)); err != nil {
				logger.Log().WithError(err).Warn("failed to send external notification")
			}
		}(url)
	}
}
