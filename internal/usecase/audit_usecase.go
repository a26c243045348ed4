package usecase

import (
	"context"

	"github.com/iho/investledger/internal/domain"
)

// AuditResourceType values accepted by the audit trail read path.
const (
	AuditResourceAccount     = "account"
	AuditResourceTransaction = "transaction"
)

// AuditUseCase exposes the audit trail for administrative review.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// ListAuditLogsInput represents input for reading a resource's audit trail.
type ListAuditLogsInput struct {
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}

// ListAuditLogs returns the audit entries recorded for one resource,
// newest first.
func (uc *AuditUseCase) ListAuditLogs(ctx context.Context, input ListAuditLogsInput) ([]*domain.AuditLog, error) {
	switch input.ResourceType {
	case AuditResourceAccount, AuditResourceTransaction:
	default:
		return nil, domain.ErrInvalidResourceType
	}

	return uc.auditRepo.ListByResource(ctx, input.ResourceType, input.ResourceID, clampPageSize(input.Limit), input.Offset)
}
