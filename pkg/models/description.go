// Package models defines the request, response, and persistence types for
// the banking metadata description service.
package models

// ColumnInput describes a single column submitted for description generation.
// DataType, constraints, and sample values are optional; the CSV flow supplies
// table_name and column_name only.
type ColumnInput struct {
	ColumnName   string   `json:"column_name"`
	DataType     string   `json:"data_type,omitempty"`
	Nullable     bool     `json:"nullable"`
	Constraints  []string `json:"constraints,omitempty"`
	SampleValues []string `json:"sample_values,omitempty"`
}

// GenerateRequest is a full-table description request.
type GenerateRequest struct {
	TableName    string        `json:"table_name"`
	TableContext string        `json:"table_context,omitempty"`
	Columns      []ColumnInput `json:"columns"`
}

// ColumnDescription is the generated annotation for one column. It is
// created once per generation call and never mutated; review edits produce
// new dictionary entries instead.
type ColumnDescription struct {
	ColumnName        string  `json:"column_name"`
	ColumnDescription string  `json:"column_description"`
	BusinessMeaning   string  `json:"business_meaning"`
	PIIFlag           bool    `json:"pii_flag"`
	Confidence        float64 `json:"confidence"`
}

// GenerateResponse is the full-table generation result.
type GenerateResponse struct {
	TableDescription string              `json:"table_description"`
	Columns          []ColumnDescription `json:"columns"`
	ModelVersion     string              `json:"model_version"`
	NeedsReview      bool                `json:"needs_review"`
}

// Provider identifies which source of generated text answered a request.
type Provider string

const (
	// ProviderLocal is a self-hosted OpenAI-compatible model endpoint.
	ProviderLocal Provider = "local"
	// ProviderRemote is the managed Anthropic API.
	ProviderRemote Provider = "remote"
	// ProviderRules is the deterministic rule engine. It never fails.
	ProviderRules Provider = "rules"
)

// RuleModelVersion tags results produced entirely by the rule engine.
const RuleModelVersion = "rules-v1"

// SchemaRow is one (table, column) pair from the CSV flow.
type SchemaRow struct {
	TableName  string `json:"table_name"`
	ColumnName string `json:"column_name"`
}

// RowGenerationResult is the batch CSV generation result. Descriptions is
// always the same length and order as the input rows, regardless of which
// provider answered.
type RowGenerationResult struct {
	Descriptions []string `json:"descriptions"`
	ModelVersion string   `json:"model_version"`
	Provider     Provider `json:"provider"`
	UsedLLM      bool     `json:"used_llm"`
}
