package dto

import (
	"encoding/json"
	"time"

	"github.com/gochicken/gochicken_backend/internal/core/domain"
)

// ListAuditParams carries the query parameters for listing audit entries.
type ListAuditParams struct {
	TableName string
	Action    string
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

// AuditEntryResponse is one audit entry as returned to clients.
type AuditEntryResponse struct {
	AuditID     string          `json:"auditID"`
	TableName   string          `json:"tableName"`
	Action      string          `json:"action"`
	RecordID    string          `json:"recordID"`
	OldData     json.RawMessage `json:"oldData,omitempty"`
	NewData     json.RawMessage `json:"newData,omitempty"`
	ActorUserID string          `json:"actorUserID"`
	ActorRole   string          `json:"actorRole"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ListAuditResponse is a page of audit entries plus the next-page token.
type ListAuditResponse struct {
	Entries   []AuditEntryResponse `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ToAuditEntryResponse converts a domain.AuditEntry to its response DTO.
func ToAuditEntryResponse(e *domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		AuditID:     e.AuditID,
		TableName:   e.TableName,
		Action:      string(e.Action),
		RecordID:    e.RecordID,
		OldData:     e.OldData,
		NewData:     e.NewData,
		ActorUserID: e.ActorUserID,
		ActorRole:   string(e.ActorRole),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// ToAuditEntryResponses converts a slice of domain audit entries.
func ToAuditEntryResponses(entries []domain.AuditEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToAuditEntryResponse(&entries[i])
	}
	return responses
}
