package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pranay9392/meity-audit-v2/internal/config"
	"github.com/Pranay9392/meity-audit-v2/internal/database"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
)

// Seeds one account per workflow role plus a sample request, so a fresh
// checkout can exercise the whole pipeline without manual registration.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.AuditRequest{},
		&models.Document{},
		&models.Remark{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	users := []struct {
		username     string
		email        string
		role         models.Role
		organization string
	}{
		{"alice", "alice@cloudcorp.example", models.RoleCSP, "CloudCorp Pvt Ltd"},
		{"bob", "bob@meity.example", models.RoleMeitYReviewer, "MeitY"},
		{"carol", "carol@stqc.example", models.RoleSTQCAuditor, "STQC"},
		{"dan", "dan@meity.example", models.RoleScientistF, "MeitY"},
	}

	var csp models.User
	for _, u := range users {
		user := models.User{
			UUID:         uuid.NewString(),
			Username:     u.username,
			Email:        u.email,
			Role:         u.role,
			Organization: u.organization,
		}
		if err := user.SetPassword("changeme123"); err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.username, err)
		}

		result := db.Where("username = ?", u.username).FirstOrCreate(&user)
		if result.Error != nil {
			log.Printf("Failed to seed user %s: %v", u.username, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			fmt.Printf("✓ Created user: %s (%s)\n", user.Username, user.Role.Display())
		} else {
			fmt.Printf("  User already exists: %s\n", user.Username)
		}
		if user.Role == models.RoleCSP {
			csp = user
		}
	}

	request := models.AuditRequest{
		UUID:                uuid.NewString(),
		CSPID:               csp.ID,
		ServiceProviderName: "CloudCorp Pvt Ltd",
		DataCenterLocation:  "Mumbai, Maharashtra",
		Description:         "Empanelment audit for the Mumbai region data center.",
		Status:              models.StatusSubmittedByCSP,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("csp_id = ? AND service_provider_name = ?", request.CSPID, request.ServiceProviderName).
			FirstOrCreate(&request)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			fmt.Printf("  Audit request already exists: %s\n", request.ServiceProviderName)
			return nil
		}
		fmt.Printf("✓ Created audit request: %s (%s)\n", request.ServiceProviderName, request.Status.Display())
		remark := models.Remark{
			AuditRequestID: request.ID,
			AuthorID:       csp.ID,
			Comment:        fmt.Sprintf("Audit request submitted by CSP: %s.", csp.Username),
		}
		return tx.Create(&remark).Error
	})
	if err != nil {
		log.Fatal("Failed to seed audit request:", err)
	}

	fmt.Println("\n✓ Database seeding completed successfully!")
	fmt.Println("  Default password for all seeded accounts: changeme123")
}
