// Package prompts builds the system and user prompts for description
// generation. Both providers share the same prompt contract.
package prompts

import (
	"encoding/json"

	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
)

// RowDescriptionsSystem is the system prompt for the batch CSV flow. The
// response contract is a JSON object with a single "descriptions" array,
// one string per input row, in order.
const RowDescriptionsSystem = "You are a banking data dictionary expert. " +
	"Given a list of table_name and column_name pairs, return a JSON object with a single key 'descriptions': " +
	"an array of strings, one per row in the same order. " +
	"Each string is a concise business-facing column description (1-2 sentences) for that column in that table. " +
	"Use banking terminology and be consistent. Output only valid JSON, no markdown."

// TableDescriptionsSystem is the system prompt for the full-table flow.
const TableDescriptionsSystem = "You are a banking data dictionary expert. " +
	"Return strict JSON with keys table_description and columns. " +
	"Each column must include column_name, column_description, business_meaning, pii_flag, confidence. " +
	"confidence is a number in [0, 1]. Output only valid JSON, no markdown."

// BuildRowDescriptionsPrompt serializes the (table, column) rows as the
// user message for the batch flow.
func BuildRowDescriptionsPrompt(rows []models.SchemaRow) (string, error) {
	payload, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// tableColumnPayload is one column in the full-table prompt, carrying
// matched glossary terms alongside raw metadata.
type tableColumnPayload struct {
	ColumnName   string            `json:"column_name"`
	MatchedTerms map[string]string `json:"matched_terms,omitempty"`
	Metadata     columnMetadata    `json:"metadata"`
}

type columnMetadata struct {
	DataType     string   `json:"data_type"`
	Nullable     bool     `json:"nullable"`
	Constraints  []string `json:"constraints"`
	SampleValues []string `json:"sample_values"`
}

type tablePayload struct {
	TableName    string               `json:"table_name"`
	TableContext string               `json:"table_context,omitempty"`
	Columns      []tableColumnPayload `json:"columns"`
}

// TermMatcher looks up glossary terms contained in a column name.
type TermMatcher interface {
	MatchTerms(text string) map[string]string
}

// BuildTableDescriptionsPrompt serializes a full-table request as the user
// message, truncating sample values to maxSamples per column.
func BuildTableDescriptionsPrompt(req *models.GenerateRequest, matcher TermMatcher, maxSamples int) (string, error) {
	payload := tablePayload{
		TableName:    req.TableName,
		TableContext: req.TableContext,
		Columns:      make([]tableColumnPayload, 0, len(req.Columns)),
	}

	for _, col := range req.Columns {
		samples := col.SampleValues
		if maxSamples >= 0 && len(samples) > maxSamples {
			samples = samples[:maxSamples]
		}
		payload.Columns = append(payload.Columns, tableColumnPayload{
			ColumnName:   col.ColumnName,
			MatchedTerms: matcher.MatchTerms(col.ColumnName),
			Metadata: columnMetadata{
				DataType:     col.DataType,
				Nullable:     col.Nullable,
				Constraints:  col.Constraints,
				SampleValues: samples,
			},
		})
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
