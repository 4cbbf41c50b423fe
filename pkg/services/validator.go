package services

import (
	"fmt"
	"strings"

	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
)

// Validation issue codes.
const (
	issueEmptyTableDesc  = "EMPTY_TABLE_DESC"
	issueEmptyColumnDesc = "EMPTY_COLUMN_DESC"
	issueLowConfidence   = "LOW_CONFIDENCE"
)

// highRiskPIIColumns is the column count at which a table's PII exposure
// is classified as high.
const highRiskPIIColumns = 3

// ValidationService checks generated payloads for completeness and
// low-confidence columns, and summarizes PII exposure.
type ValidationService struct {
	confidenceThreshold float64
}

// NewValidationService creates a validator with the given review threshold.
func NewValidationService(confidenceThreshold float64) *ValidationService {
	return &ValidationService{confidenceThreshold: confidenceThreshold}
}

// Validate inspects a generated payload. It never fails; problems are
// reported as issues on the response.
func (s *ValidationService) Validate(req *models.ValidateRequest) *models.ValidateResponse {
	issues := []models.ValidationIssue{}
	payload := req.GeneratedPayload

	if strings.TrimSpace(payload.TableDescription) == "" {
		issues = append(issues, models.ValidationIssue{
			Code:    issueEmptyTableDesc,
			Message: "Table description is empty",
		})
	}

	piiColumns := []string{}
	for _, col := range payload.Columns {
		if strings.TrimSpace(col.ColumnDescription) == "" {
			issues = append(issues, models.ValidationIssue{
				Code:    issueEmptyColumnDesc,
				Message: "Column description is empty",
				Target:  col.ColumnName,
			})
		}
		if col.Confidence < s.confidenceThreshold {
			issues = append(issues, models.ValidationIssue{
				Code:    issueLowConfidence,
				Message: fmt.Sprintf("Confidence below threshold %v", s.confidenceThreshold),
				Target:  col.ColumnName,
			})
		}
		if col.PIIFlag {
			piiColumns = append(piiColumns, col.ColumnName)
		}
	}

	risk := models.RiskLow
	switch {
	case len(piiColumns) >= highRiskPIIColumns:
		risk = models.RiskHigh
	case len(piiColumns) > 0:
		risk = models.RiskMedium
	}

	return &models.ValidateResponse{
		Valid:  len(issues) == 0,
		Issues: issues,
		PIISummary: models.PIISummary{
			PIIColumns: piiColumns,
			RiskLevel:  risk,
		},
	}
}
