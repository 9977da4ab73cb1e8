package models

import "time"

// AuditFields holds the standard bookkeeping columns shared by all tables.
type AuditFields struct {
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
