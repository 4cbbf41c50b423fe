package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/apperrors"
	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
	"github.com/zhgao/banking-metadata-description-ai/pkg/services"
)

// descriptionColumn is the CSV output column appended by the batch flow.
// An existing column with this header is replaced, not duplicated.
const descriptionColumn = "column_description"

// maxCSVUploadBytes bounds the multipart upload size.
const maxCSVUploadBytes = 10 << 20 // 10 MiB

// ============================================================================
// Request/Response Types
// ============================================================================

// CompareRequest for POST /v1/descriptions/compare
type CompareRequest struct {
	ModelA string             `json:"model_a"`
	ModelB string             `json:"model_b"`
	Rows   []models.SchemaRow `json:"rows"`
}

// GenerationMeta describes which provider served one side of a comparison.
type GenerationMeta struct {
	ModelVersion string          `json:"model_version"`
	Provider     models.Provider `json:"provider"`
	UsedLLM      bool            `json:"used_llm"`
}

// CompareResponse for POST /v1/descriptions/compare
type CompareResponse struct {
	models.ComparisonResult
	ModelAGeneration GenerationMeta `json:"model_a_generation"`
	ModelBGeneration GenerationMeta `json:"model_b_generation"`
}

// ============================================================================
// Handler
// ============================================================================

// DescriptionsHandler handles description generation, CSV annotation,
// model comparison, and validation requests.
type DescriptionsHandler struct {
	descriptionSvc services.DescriptionService
	validationSvc  *services.ValidationService
	logger         *zap.Logger
}

// NewDescriptionsHandler creates a new descriptions handler.
func NewDescriptionsHandler(
	descriptionSvc services.DescriptionService,
	validationSvc *services.ValidationService,
	logger *zap.Logger,
) *DescriptionsHandler {
	return &DescriptionsHandler{
		descriptionSvc: descriptionSvc,
		validationSvc:  validationSvc,
		logger:         logger,
	}
}

// RegisterRoutes registers the descriptions handler's routes on the given mux.
func (h *DescriptionsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/descriptions/generate", h.Generate)
	mux.HandleFunc("POST /v1/descriptions/generate-csv", h.GenerateCSV)
	mux.HandleFunc("POST /v1/descriptions/compare", h.Compare)
	mux.HandleFunc("POST /v1/descriptions/validate", h.Validate)
}

// Generate handles POST /v1/descriptions/generate
func (h *DescriptionsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.TableName == "" || len(req.Columns) == 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "table_name and at least one column are required")
		return
	}

	resp, err := h.descriptionSvc.Generate(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to generate descriptions",
			zap.String("table", req.TableName),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "generate_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GenerateCSV handles POST /v1/descriptions/generate-csv.
// Accepts a multipart CSV with table_name and column_name headers and
// returns the same rows with a column_description column appended.
func (h *DescriptionsHandler) GenerateCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCSVUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Upload a CSV file in the 'file' form field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Upload a CSV file")
		return
	}

	headers, records, err := readCSV(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_csv", err.Error())
		return
	}
	if len(records) == 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_csv", apperrors.ErrEmptyCSV.Error())
		return
	}

	tableIdx := indexOf(headers, "table_name")
	columnIdx := indexOf(headers, "column_name")
	if tableIdx < 0 || columnIdx < 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_csv", apperrors.ErrMissingCSVHeaders.Error())
		return
	}

	rows := make([]models.SchemaRow, 0, len(records))
	for i, record := range records {
		if tableIdx >= len(record) || columnIdx >= len(record) {
			h.writeError(w, http.StatusBadRequest, "invalid_csv",
				fmt.Sprintf("row %d has %d fields, expected at least %d", i+2, len(record), max(tableIdx, columnIdx)+1))
			return
		}
		rows = append(rows, models.SchemaRow{
			TableName:  strings.TrimSpace(record[tableIdx]),
			ColumnName: strings.TrimSpace(record[columnIdx]),
		})
	}

	result, err := h.descriptionSvc.GenerateForRows(r.Context(), rows, r.FormValue("model"))
	if err != nil {
		h.logger.Error("Failed to generate row descriptions", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "generate_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=descriptions.csv`)
	w.Header().Set("X-Model-Version", result.ModelVersion)
	w.Header().Set("X-Provider", string(result.Provider))
	w.Header().Set("X-Used-LLM", fmt.Sprintf("%t", result.UsedLLM))

	if err := writeAnnotatedCSV(w, headers, records, result.Descriptions); err != nil {
		h.logger.Error("Failed to write CSV response", zap.Error(err))
	}
}

// Compare handles POST /v1/descriptions/compare.
// Runs the generation chain independently for both models, scores both
// outputs, and declares a winner. Ties favor model A.
func (h *DescriptionsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if req.ModelA == "" || req.ModelB == "" || len(req.Rows) == 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "model_a, model_b, and at least one row are required")
		return
	}

	resultA, err := h.descriptionSvc.GenerateForRows(r.Context(), req.Rows, req.ModelA)
	if err != nil {
		h.logger.Error("Failed to generate for model A", zap.String("model", req.ModelA), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "generate_failed", err.Error())
		return
	}
	resultB, err := h.descriptionSvc.GenerateForRows(r.Context(), req.Rows, req.ModelB)
	if err != nil {
		h.logger.Error("Failed to generate for model B", zap.String("model", req.ModelB), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "generate_failed", err.Error())
		return
	}

	comparison := services.CompareModels(req.ModelA, req.ModelB, resultA.Descriptions, resultB.Descriptions)

	response := CompareResponse{
		ComparisonResult: comparison,
		ModelAGeneration: GenerationMeta{
			ModelVersion: resultA.ModelVersion,
			Provider:     resultA.Provider,
			UsedLLM:      resultA.UsedLLM,
		},
		ModelBGeneration: GenerationMeta{
			ModelVersion: resultB.ModelVersion,
			Provider:     resultB.Provider,
			UsedLLM:      resultB.UsedLLM,
		},
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Validate handles POST /v1/descriptions/validate
func (h *DescriptionsHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := WriteJSON(w, http.StatusOK, h.validationSvc.Validate(&req)); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *DescriptionsHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// ============================================================================
// CSV Helpers
// ============================================================================

// readCSV parses an uploaded CSV into its header row and data records,
// tolerating a UTF-8 byte order mark.
func readCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("malformed CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("CSV is empty")
	}

	headers := all[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
	return headers, all[1:], nil
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// writeAnnotatedCSV writes the original rows with column_description
// appended as the last column. An existing column_description column is
// dropped so the header is never duplicated.
func writeAnnotatedCSV(w io.Writer, headers []string, records [][]string, descriptions []string) error {
	dropIdx := indexOf(headers, descriptionColumn)

	outHeaders := make([]string, 0, len(headers)+1)
	for i, h := range headers {
		if i == dropIdx {
			continue
		}
		outHeaders = append(outHeaders, h)
	}
	outHeaders = append(outHeaders, descriptionColumn)

	writer := csv.NewWriter(w)
	if err := writer.Write(outHeaders); err != nil {
		return err
	}

	for i, record := range records {
		out := make([]string, 0, len(outHeaders))
		for j, value := range record {
			if j == dropIdx || j >= len(headers) {
				continue
			}
			out = append(out, value)
		}
		// Pad short records so every row has the full header set.
		for len(out) < len(outHeaders)-1 {
			out = append(out, "")
		}
		out = append(out, descriptions[i])
		if err := writer.Write(out); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
