// Package httpapi 轻量 HTTP 入口
// 只有提交反馈、手动触发周报和健康检查三个端点，不做版本化路由
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"feedback-pipeline/internal/apperrors"
	"feedback-pipeline/internal/ingest"
	"feedback-pipeline/internal/report"

	"go.uber.org/zap"
)

// submitRequest 提交反馈请求体
type submitRequest struct {
	Description string `json:"description"`
	Rating      *int   `json:"rating"`
}

// Handler HTTP 入口
type Handler struct {
	ingestSvc *ingest.Service
	reportSvc *report.Service
	logger    *zap.Logger
}

// NewHandler 创建 HTTP 入口
func NewHandler(ingestSvc *ingest.Service, reportSvc *report.Service, logger *zap.Logger) *Handler {
	return &Handler{
		ingestSvc: ingestSvc,
		reportSvc: reportSvc,
		logger:    logger,
	}
}

// Router 组装路由
func (h *Handler) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/feedbacks", h.SubmitFeedback)
	mux.HandleFunc("/reports/run", h.RunReport)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// SubmitFeedback 提交一条反馈
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.ingestSvc.Submit(r.Context(), req.Description, req.Rating)
	if err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		h.logger.Error("Failed to submit feedback", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to submit feedback")
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// RunReport 显式触发一次报表周期
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := h.reportSvc.Run(r.Context()); err != nil {
		h.logger.Error("Report cycle failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "report cycle failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
