package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/zhgao/banking-metadata-description-ai/pkg/domain"
	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
	"github.com/zhgao/banking-metadata-description-ai/pkg/naming"
)

// Business meaning texts emitted by the rule engine, in precedence order.
// PII short-circuits everything else.
const (
	meaningSensitive = "Contains potentially sensitive customer information and should follow data protection controls."
	meaningDate      = "Represents a lifecycle event date for reporting and controls."
	meaningAmount    = "Represents a monetary value used in transaction and balance calculations."
	meaningStatus    = "Represents a business process status or coded classification."
	meaningGeneric   = "Used in analytics and operational reporting."
)

// builtinPIIKeywords always flag a column as PII, independent of the
// configured domain keyword list.
var builtinPIIKeywords = []string{
	"name", "ssn", "email", "phone", "mobile",
	"dob", "birth", "address", "passport", "tax_id",
}

// Confidence model: a base plus bonuses for metadata completeness. This is
// a proxy for how much evidence the rules had, not model certainty.
const (
	confidenceBase        = 0.55
	confidenceTokensBonus = 0.10 // identifier splits into >= 2 tokens
	confidenceConstraints = 0.10
	confidenceSamples     = 0.15
	confidenceDataType    = 0.10
	confidenceCeiling     = 0.99
)

// RuleEngine is the deterministic description generator used as the final
// fallback. It never fails: every input yields a complete result.
type RuleEngine struct {
	knowledge *domain.Knowledge
}

// NewRuleEngine creates a rule engine backed by the given domain knowledge.
func NewRuleEngine(knowledge *domain.Knowledge) *RuleEngine {
	return &RuleEngine{knowledge: knowledge}
}

// RowDescription produces the minimal one-line description used by the
// batch CSV flow.
func (e *RuleEngine) RowDescription(tableName, columnName string) string {
	return fmt.Sprintf("%s in `%s`.", naming.Capitalize(naming.Humanize(columnName)), tableName)
}

// TableDescription produces a one-line table summary.
func (e *RuleEngine) TableDescription(req *models.GenerateRequest) string {
	base := fmt.Sprintf("Stores %s attributes for banking operations", naming.Humanize(req.TableName))
	if ctx := strings.TrimSpace(req.TableContext); ctx != "" {
		return base + fmt.Sprintf(". Context: %s.", ctx)
	}
	return base + "."
}

// DescribeColumn produces a full annotation for one column from metadata
// alone. No I/O, fully deterministic.
func (e *RuleEngine) DescribeColumn(tableName string, col models.ColumnInput) models.ColumnDescription {
	readable := naming.Humanize(col.ColumnName)
	lowered := strings.ToLower(col.ColumnName)
	dtype := strings.ToLower(col.DataType)

	piiFlag := e.IsPII(col.ColumnName)

	var meaning string
	switch {
	case piiFlag:
		meaning = meaningSensitive
	case suggestsDate(lowered, dtype):
		meaning = meaningDate
	case suggestsAmount(lowered, readable, dtype):
		meaning = meaningAmount
	case suggestsStatus(lowered):
		meaning = meaningStatus
	default:
		meaning = meaningGeneric
	}

	return models.ColumnDescription{
		ColumnName:        col.ColumnName,
		ColumnDescription: e.RowDescription(tableName, col.ColumnName),
		BusinessMeaning:   meaning,
		PIIFlag:           piiFlag,
		Confidence:        estimateConfidence(col),
	}
}

// IsPII reports whether the column name contains any built-in or
// configured PII keyword.
func (e *RuleEngine) IsPII(columnName string) bool {
	lowered := strings.ToLower(columnName)
	for _, kw := range builtinPIIKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	for _, kw := range e.knowledge.PIIKeywords() {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func suggestsDate(lowered, dtype string) bool {
	return strings.Contains(dtype, "date") ||
		strings.Contains(lowered, "date") ||
		strings.Contains(lowered, "dt")
}

func suggestsAmount(lowered, readable, dtype string) bool {
	if strings.Contains(readable, "amount") || strings.Contains(lowered, "amt") {
		return true
	}
	for _, t := range []string{"decimal", "numeric", "money"} {
		if strings.Contains(dtype, t) {
			return true
		}
	}
	return false
}

func suggestsStatus(lowered string) bool {
	for _, t := range []string{"status", "code", "cd"} {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}

// estimateConfidence rewards metadata completeness. Monotonic: adding
// constraints, samples, or a data type never lowers the score.
func estimateConfidence(col models.ColumnInput) float64 {
	score := confidenceBase
	if len(naming.SplitIdentifier(col.ColumnName)) >= 2 {
		score += confidenceTokensBonus
	}
	if len(col.Constraints) > 0 {
		score += confidenceConstraints
	}
	if len(col.SampleValues) > 0 {
		score += confidenceSamples
	}
	if col.DataType != "" {
		score += confidenceDataType
	}
	if score > confidenceCeiling {
		score = confidenceCeiling
	}
	if score < 0 {
		score = 0
	}
	return math.Round(score*100) / 100
}
