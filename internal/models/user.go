package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role identifies which side of the audit workflow an account acts for.
// Roles are mutually exclusive and fixed at account creation.
type Role string

const (
	// RoleCSP is a Cloud Service Provider, the requester role.
	RoleCSP Role = "CSP"
	// RoleMeitYReviewer forwards submitted requests to STQC.
	RoleMeitYReviewer Role = "MeitY_Reviewer"
	// RoleSTQCAuditor performs the audit on forwarded requests.
	RoleSTQCAuditor Role = "STQC_Auditor"
	// RoleScientistF is the governing authority making the final decision.
	RoleScientistF Role = "Scientist_F"
)

// Roles lists every known role. Anything outside this set is treated as
// having no workflow capabilities at all.
var Roles = []Role{RoleCSP, RoleMeitYReviewer, RoleSTQCAuditor, RoleScientistF}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Display returns the human-readable role name used in remarks and UIs.
func (r Role) Display() string {
	switch r {
	case RoleCSP:
		return "Cloud Service Provider"
	case RoleMeitYReviewer:
		return "MeitY Reviewer"
	case RoleSTQCAuditor:
		return "STQC Auditor"
	case RoleScientistF:
		return "Scientist F (Governing Authority)"
	default:
		return string(r)
	}
}

// IsReviewer reports whether the role belongs to the reviewing/auditing side
// of the workflow (everyone except the CSP requester).
func (r Role) IsReviewer() bool {
	return r == RoleMeitYReviewer || r == RoleSTQCAuditor || r == RoleScientistF
}

// User is an authenticated actor. The role never changes after creation;
// there is no promotion flow.
type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	UUID                string     `json:"uuid" gorm:"uniqueIndex"`
	Username            string     `json:"username" gorm:"uniqueIndex"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"` // Never serialize password hash
	Role                Role       `json:"role" gorm:"default:'CSP'"`
	Organization        string     `json:"organization,omitempty"` // E.g. AWS, Azure, MeitY, STQC
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LockedUntil         *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsCSP reports whether the user is a Cloud Service Provider.
func (u *User) IsCSP() bool { return u.Role == RoleCSP }

// IsMeitYReviewer reports whether the user is a MeitY Reviewer.
func (u *User) IsMeitYReviewer() bool { return u.Role == RoleMeitYReviewer }

// IsSTQCAuditor reports whether the user is an STQC Auditor.
func (u *User) IsSTQCAuditor() bool { return u.Role == RoleSTQCAuditor }

// IsScientistF reports whether the user is Scientist F.
func (u *User) IsScientistF() bool { return u.Role == RoleScientistF }
