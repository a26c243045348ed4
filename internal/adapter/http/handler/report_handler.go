package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/investledger/internal/adapter/http/dto"
	"github.com/iho/investledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	UserTransactions(ctx context.Context, input usecase.UserTransactionsInput) (*usecase.UserTransactionsReport, error)
}

// ReportHandler handles admin reporting requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// UserTransactions returns every transaction across a user's accounts
// within a date range, oldest first, plus the signed total. Admin only;
// the router enforces the role check. Bare dates are accepted and a bare
// "to" date covers the whole day.
func (h *ReportHandler) UserTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	from, _, err := parseTimeQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	to, bareDate, err := parseTimeQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}
	if bareDate {
		to = to.AddDate(0, 0, 1).Add(-1)
	}

	input := usecase.UserTransactionsInput{
		UserID: userID,
		From:   from,
		To:     to,
	}

	report, err := h.reportUC.UserTransactions(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to build report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(input, report))
}
