package models

import "time"

// Remark is one append-only audit-trail entry on a request. Remarks are never
// edited or deleted; every accepted mutation of a request writes exactly one,
// in the same transaction as the mutation itself. CreatedAt plus the
// auto-increment ID give a per-request total order even on timestamp ties.
type Remark struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	AuditRequestID uint   `json:"audit_request_id" gorm:"index"`
	AuthorID       uint   `json:"-"`
	Author         User   `json:"author" gorm:"foreignKey:AuthorID"`
	Comment        string `json:"comment"`

	CreatedAt time.Time `json:"timestamp"`
}
