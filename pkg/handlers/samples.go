package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/apperrors"
	"github.com/zhgao/banking-metadata-description-ai/pkg/services"
)

// SamplesHandler serves the demo generate-request payloads used by the
// interactive walkthrough.
type SamplesHandler struct {
	store  *services.SampleStore
	logger *zap.Logger
}

// NewSamplesHandler creates a new samples handler.
func NewSamplesHandler(store *services.SampleStore, logger *zap.Logger) *SamplesHandler {
	return &SamplesHandler{store: store, logger: logger}
}

// RegisterRoutes registers the samples handler's routes on the given mux.
func (h *SamplesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/demo/samples", h.List)
	mux.HandleFunc("GET /v1/demo/sample", h.Get)
}

// List handles GET /v1/demo/samples
func (h *SamplesHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, map[string]any{"samples": h.store.List()}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /v1/demo/sample?name=<sample>. An empty name returns the
// first configured sample.
func (h *SamplesHandler) Get(w http.ResponseWriter, r *http.Request) {
	payload, err := h.store.Get(r.URL.Query().Get("name"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSampleNotFound):
			h.writeError(w, http.StatusNotFound, "sample_not_found", err.Error())
		case errors.Is(err, apperrors.ErrNoSamplesConfigured):
			h.writeError(w, http.StatusNotFound, "no_samples", err.Error())
		default:
			h.logger.Error("Failed to read sample", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "sample_failed", "Failed to read sample")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *SamplesHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
