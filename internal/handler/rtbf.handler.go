package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"rtbf-service/internal/domain"
	"rtbf-service/pkg/response"
	"rtbf-service/pkg/xerrors"

	"go.uber.org/zap"
)

// Analyzer and Executor are the two RTBF operations this handler fronts.
type Analyzer interface {
	Analyze(ctx context.Context, userID string) (*domain.AnalysisReport, error)
}

type Executor interface {
	Execute(ctx context.Context, userID string, req domain.ExecuteRequest) (*domain.DeletionReceipt, error)
}

type RTBFHandler struct {
	analyzer Analyzer
	executor Executor
	logger   *zap.Logger
}

func NewRTBFHandler(analyzer Analyzer, executor Executor, logger *zap.Logger) *RTBFHandler {
	return &RTBFHandler{
		analyzer: analyzer,
		executor: executor,
		logger:   logger,
	}
}

func (h *RTBFHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// HandleAnalyze computes the dry-run impact report. All-or-nothing: a read
// failure surfaces as a bare 500, never a partial report.
func (h *RTBFHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.getUserFromContext(r)
	if !ok {
		response.Raw(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	report, err := h.analyzer.Analyze(r.Context(), userID)
	if err != nil {
		h.logger.Error("rtbf analysis failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		response.Raw(w, http.StatusInternalServerError, map[string]string{"error": "Analysis failed"})
		return
	}

	response.Raw(w, http.StatusOK, report)
}

// HandleExecute runs the irreversible deletion pipeline. Confirmation
// violations return 400 with zero mutations; a step failure returns 500
// carrying the partial deletion log.
func (h *RTBFHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.getUserFromContext(r)
	if !ok {
		response.Raw(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req domain.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Raw(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	receipt, err := h.executor.Execute(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, xerrors.ErrInvalidConfirmation) || errors.Is(err, xerrors.ErrDualControlRequired) {
			response.Raw(w, http.StatusBadRequest, map[string]string{
				"error": "Invalid confirmation. Deletion requires the exact confirmation phrase and dual-control verification.",
			})
			return
		}

		h.logger.Error("rtbf execution failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)

		deletionLog := []domain.StepLogEntry{}
		if receipt != nil {
			deletionLog = receipt.DeletionLog
		}
		response.Raw(w, http.StatusInternalServerError, executeFailureBody{
			Error:       "Deletion process failed",
			DeletionLog: deletionLog,
			Status:      domain.ReceiptFailed,
		})
		return
	}

	response.Raw(w, http.StatusOK, receipt)
}

type executeFailureBody struct {
	Error       string                `json:"error"`
	DeletionLog []domain.StepLogEntry `json:"deletion_log"`
	Status      domain.ReceiptStatus  `json:"status"`
}
