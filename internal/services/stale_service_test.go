package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pranay9392/meity-audit-v2/internal/models"
)

func TestStaleSweepOnlyFlagsOldNonTerminalRequests(t *testing.T) {
	db := setupTestDB(t)
	requests := NewAuditRequestService(db, setupBlobStore(t), nil)
	csp, _, _, _ := workflowActors(t, db)

	fresh, err := requests.Create(csp, CreateAuditRequestInput{
		ServiceProviderName: "CloudCorp", DataCenterLocation: "Mumbai",
	})
	require.NoError(t, err)

	stale, err := requests.Create(csp, CreateAuditRequestInput{
		ServiceProviderName: "CloudCorp", DataCenterLocation: "Pune",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.AuditRequest{}).Where("id = ?", stale.ID).
		Update("updated_at", time.Now().Add(-30*24*time.Hour)).Error)

	terminal, err := requests.Create(csp, CreateAuditRequestInput{
		ServiceProviderName: "CloudCorp", DataCenterLocation: "Delhi",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.AuditRequest{}).Where("id = ?", terminal.ID).
		Updates(map[string]interface{}{
			"status":     models.StatusApprovedByScientistF,
			"updated_at": time.Now().Add(-30 * 24 * time.Hour),
		}).Error)

	// Sweep must not fail or touch any request; it only reads and reports.
	sweeper := NewStaleRequestService(db, nil, 7*24*time.Hour)
	sweeper.Sweep()

	var reloadedStale models.AuditRequest
	require.NoError(t, db.First(&reloadedStale, stale.ID).Error)
	require.Equal(t, models.StatusSubmittedByCSP, reloadedStale.Status)
	var reloadedFresh models.AuditRequest
	require.NoError(t, db.First(&reloadedFresh, fresh.ID).Error)
	require.Equal(t, models.StatusSubmittedByCSP, reloadedFresh.Status)
}
