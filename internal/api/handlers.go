package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/inovspin/inovspin/internal/decision"
	"github.com/inovspin/inovspin/internal/model"
	"github.com/inovspin/inovspin/internal/risk"
	"github.com/inovspin/inovspin/internal/store"
)

// maxBodyBytes bounds a predict request body.
const maxBodyBytes = 1 << 16

// Handler adapts the decision service to HTTP.
type Handler struct {
	svc    Predictor
	logger *slog.Logger
}

type historyResponse struct {
	History []store.Entry `json:"history"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Predict handles POST /predict.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var rd risk.Reading
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rd); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid reading: %v", err))
		return
	}

	d, err := h.svc.Predict(r.Context(), rd)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("predict failed", "error", err)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// History handles GET /history?limit=N.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := decision.DefaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", s))
			return
		}
		limit = n
	}

	entries, err := h.svc.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("history failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{History: entries})
}

// Health handles GET /healthz. It reports the model state but stays 200
// while history can still be served.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", ModelLoaded: h.svc.ModelLoaded()})
}

func statusFor(err error) int {
	var unavailable *model.ErrModelUnavailable
	if errors.As(err, &unavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
