package models

// ValidateRequest asks for quality checks on a previously generated payload.
type ValidateRequest struct {
	TableName        string           `json:"table_name"`
	GeneratedPayload GenerateResponse `json:"generated_payload"`
}

// ValidationIssue is one problem found in a generated payload.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Target  string `json:"target,omitempty"`
}

// RiskLevel classifies the PII exposure of a table.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// PIISummary lists flagged columns and the resulting table risk level.
type PIISummary struct {
	PIIColumns []string  `json:"pii_columns"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

// ValidateResponse is the validation verdict for a generated payload.
type ValidateResponse struct {
	Valid      bool              `json:"valid"`
	Issues     []ValidationIssue `json:"issues"`
	PIISummary PIISummary        `json:"pii_summary"`
}
