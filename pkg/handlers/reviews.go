package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/apperrors"
	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
	"github.com/zhgao/banking-metadata-description-ai/pkg/services"
)

// dictionaryCSVHeaders is the column order of the dictionary export.
var dictionaryCSVHeaders = []string{
	"timestamp",
	"table_name",
	"column_name",
	"column_description",
	"business_meaning",
	"pii_flag",
	"confidence",
	"source",
}

// ReviewsHandler handles review submissions and the approved-descriptions
// dictionary built from them.
type ReviewsHandler struct {
	store  *services.ReviewStore
	logger *zap.Logger
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(store *services.ReviewStore, logger *zap.Logger) *ReviewsHandler {
	return &ReviewsHandler{store: store, logger: logger}
}

// RegisterRoutes registers the reviews handler's routes on the given mux.
func (h *ReviewsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/reviews/submit", h.Submit)
	mux.HandleFunc("GET /v1/reviews", h.ListReviews)
	mux.HandleFunc("GET /v1/dictionary", h.ListDictionary)
	mux.HandleFunc("GET /v1/dictionary/export.csv", h.ExportDictionaryCSV)
}

// Submit handles POST /v1/reviews/submit
func (h *ReviewsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.TableName == "" || len(req.Decisions) == 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "table_name and at least one decision are required")
		return
	}

	resp, err := h.store.Save(&req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidReviewAction) {
			h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.logger.Error("Failed to save review",
			zap.String("table", req.TableName),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "review_failed", "Failed to save review")
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListReviews handles GET /v1/reviews
func (h *ReviewsHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.store.Reviews()
	if err != nil {
		h.logger.Error("Failed to read reviews", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "reviews_failed", "Failed to read reviews")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"reviews": reviews}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListDictionary handles GET /v1/dictionary
func (h *ReviewsHandler) ListDictionary(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.Dictionary()
	if err != nil {
		h.logger.Error("Failed to read dictionary", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "dictionary_failed", "Failed to read dictionary")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]any{"entries": entries}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ExportDictionaryCSV handles GET /v1/dictionary/export.csv
func (h *ReviewsHandler) ExportDictionaryCSV(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.Dictionary()
	if err != nil {
		h.logger.Error("Failed to read dictionary", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "dictionary_failed", "Failed to read dictionary")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=dictionary.csv`)

	writer := csv.NewWriter(w)
	if err := writer.Write(dictionaryCSVHeaders); err != nil {
		h.logger.Error("Failed to write CSV response", zap.Error(err))
		return
	}
	for _, entry := range entries {
		record := []string{
			entry.Timestamp.Format(time.RFC3339),
			entry.TableName,
			entry.ColumnName,
			entry.ColumnDescription,
			entry.BusinessMeaning,
			strconv.FormatBool(entry.PIIFlag),
			strconv.FormatFloat(entry.Confidence, 'f', 2, 64),
			string(entry.Source),
		}
		if err := writer.Write(record); err != nil {
			h.logger.Error("Failed to write CSV response", zap.Error(err))
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Error("Failed to write CSV response", zap.Error(err))
	}
}

func (h *ReviewsHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
