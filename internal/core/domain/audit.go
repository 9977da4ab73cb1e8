package domain

import (
	"encoding/json"
	"time"
)

// AuditAction is the kind of mutation an audit entry records.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// Audited table names. Audit entries reference the business table they
// describe so the read side can filter per table.
const (
	AuditTableSales          = "sale_transactions"
	AuditTableExpenses       = "expenses"
	AuditTableMaterialUsages = "material_usages"
)

// AuditEntry is one immutable change record. Exactly one entry is written per
// committed ledger mutation, inside the same unit of work; it is never
// modified or deleted individually (bulk clear is administrative).
type AuditEntry struct {
	AuditID     string          `json:"auditID"` // Primary key (UUID)
	TableName   string          `json:"tableName"`
	Action      AuditAction     `json:"action"`
	RecordID    string          `json:"recordID"`
	OldData     json.RawMessage `json:"oldData,omitempty"`
	NewData     json.RawMessage `json:"newData,omitempty"`
	ActorUserID string          `json:"actorUserID"`
	ActorRole   Role            `json:"actorRole"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SaleSnapshot is the structured audit payload for sale mutations: the full
// transaction with its lines plus the per-line stock movement.
type SaleSnapshot struct {
	Sale           SaleTransaction `json:"sale"`
	StockMovements []StockMovement `json:"stockMovements,omitempty"`
}

// ExpenseSnapshot is the structured audit payload for expense mutations.
// StockMovements is empty for expense types without a stock effect.
type ExpenseSnapshot struct {
	Expense         Expense         `json:"expense"`
	ExpenseTypeName string          `json:"expenseTypeName"`
	StockMovements  []StockMovement `json:"stockMovements,omitempty"`
}

// UsageSnapshot is the structured audit payload for material usage mutations.
type UsageSnapshot struct {
	Usage         MaterialUsageRecord `json:"usage"`
	StockMovement *StockMovement      `json:"stockMovement,omitempty"`
}

// NewAuditEntry assembles an entry with marshalled old/new snapshots. Nil
// snapshots stay null in the record.
func NewAuditEntry(auditID, tableName string, action AuditAction, recordID string, oldData, newData any, actor Actor, description string, now time.Time) (AuditEntry, error) {
	entry := AuditEntry{
		AuditID:     auditID,
		TableName:   tableName,
		Action:      action,
		RecordID:    recordID,
		ActorUserID: actor.UserID,
		ActorRole:   actor.Role,
		Description: description,
		CreatedAt:   now,
	}
	if oldData != nil {
		raw, err := json.Marshal(oldData)
		if err != nil {
			return AuditEntry{}, err
		}
		entry.OldData = raw
	}
	if newData != nil {
		raw, err := json.Marshal(newData)
		if err != nil {
			return AuditEntry{}, err
		}
		entry.NewData = raw
	}
	return entry, nil
}
