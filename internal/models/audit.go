package models

import "time"

// AuditLog mirrors the audit_logs table. Old/new payloads are stored as
// JSONB and surface here as raw bytes.
type AuditLog struct {
	AuditID     string
	TableName   string
	Action      string
	RecordID    string
	OldData     []byte
	NewData     []byte
	ActorUserID string
	ActorRole   string
	Description string
	CreatedAt   time.Time
}
