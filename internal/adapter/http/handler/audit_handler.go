package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/investledger/internal/adapter/http/dto"
	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	ListAuditLogs(ctx context.Context, input usecase.ListAuditLogsInput) ([]*domain.AuditLog, error)
}

// AuditHandler serves the audit trail. Admin only; the router enforces
// the role check.
type AuditHandler struct {
	auditUC AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC AuditService) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// ListByResource returns the audit entries recorded for one resource,
// newest first.
func (h *AuditHandler) ListByResource(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")
	if resourceID == "" {
		writeError(w, http.StatusBadRequest, "missing resource ID", "")
		return
	}

	logs, err := h.auditUC.ListAuditLogs(r.Context(), usecase.ListAuditLogsInput{
		ResourceType: chi.URLParam(r, "resourceType"),
		ResourceID:   resourceID,
		Limit:        parseIntQuery(r, "limit", 20),
		Offset:       parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list audit logs", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAuditLogsResponse{
		AuditLogs: dto.AuditLogsFromDomain(logs),
		Total:     int64(len(logs)),
	})
}
