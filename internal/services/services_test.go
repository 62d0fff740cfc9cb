package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Pranay9392/meity-audit-v2/internal/models"
	"github.com/Pranay9392/meity-audit-v2/internal/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AuditRequest{},
		&models.Document{},
		&models.Remark{},
	))
	return db
}

func setupBlobStore(t *testing.T) *storage.FilesystemStore {
	t.Helper()
	blobs, err := storage.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	return blobs
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		UUID:     uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, user.SetPassword("test-password-1"))
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// workflowActors seeds one account per role.
func workflowActors(t *testing.T, db *gorm.DB) (csp, reviewer, auditor, scientist *models.User) {
	t.Helper()
	csp = createUser(t, db, "alice", models.RoleCSP)
	reviewer = createUser(t, db, "bob", models.RoleMeitYReviewer)
	auditor = createUser(t, db, "carol", models.RoleSTQCAuditor)
	scientist = createUser(t, db, "dan", models.RoleScientistF)
	return
}

func remarksFor(t *testing.T, db *gorm.DB, requestID uint) []models.Remark {
	t.Helper()
	var remarks []models.Remark
	require.NoError(t, db.Where("audit_request_id = ?", requestID).
		Order("created_at asc, id asc").Find(&remarks).Error)
	return remarks
}
