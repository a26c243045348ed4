package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records a ledger mutation for administrative review.
type AuditLog struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionAccountCreate     AuditAction = "account.create"
	AuditActionAccountDelete     AuditAction = "account.delete"
	AuditActionTransactionCreate AuditAction = "transaction.create"
	AuditActionTransactionUpdate AuditAction = "transaction.update"
	AuditActionTransactionDelete AuditAction = "transaction.delete"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
