package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// richDescription is >= 18 words, contains a banking keyword, and no
// generic markers.
const richDescription = "Tracks the running account balance after each posted transaction " +
	"including pending holds reversals and interest accruals captured during " +
	"the nightly settlement cycle for reconciliation"

func TestScoreDescriptions_EmptyInputIsWorstCase(t *testing.T) {
	metrics := ScoreDescriptions(nil)

	assert.Equal(t, 0.0, metrics.Score)
	assert.Equal(t, 0.0, metrics.Specificity)
	assert.Equal(t, 0.0, metrics.BankingRelevance)
	assert.Equal(t, 1.0, metrics.GenericPenalty)
}

func TestScoreDescriptions_PerfectBatch(t *testing.T) {
	metrics := ScoreDescriptions([]string{richDescription, richDescription})

	assert.Equal(t, 100.0, metrics.Score)
	assert.Equal(t, 1.0, metrics.Specificity)
	assert.Equal(t, 1.0, metrics.BankingRelevance)
	assert.Equal(t, 0.0, metrics.GenericPenalty)
}

func TestScoreDescriptions_RuleTemplateIsPenalized(t *testing.T) {
	metrics := ScoreDescriptions([]string{"Account open date in `customer_account`."})

	assert.Equal(t, 1.0, metrics.GenericPenalty)
	// "account" still counts as banking relevance.
	assert.Equal(t, 1.0, metrics.BankingRelevance)
	assert.Less(t, metrics.Score, 100.0)
}

func TestScoreDescriptions_SpecificitySaturatesAt18Words(t *testing.T) {
	nineWords := strings.Join(strings.Fields(richDescription)[:9], " ")

	short := ScoreDescriptions([]string{nineWords})
	long := ScoreDescriptions([]string{richDescription})

	assert.InDelta(t, 0.5, short.Specificity, 1e-9)
	assert.Equal(t, 1.0, long.Specificity)
}

func TestScoreDescriptions_GenericMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"used in analytics", "Used in analytics and operational reporting.", 1.0},
		{"field in", "A field in the ledger.", 1.0},
		{"column in", "A column in the warehouse.", 1.0},
		{"backtick template", "Something in `accounts`.", 1.0},
		{"clean text", "Customer risk rating derived from behavioral signals.", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := ScoreDescriptions([]string{tt.text})
			assert.Equal(t, tt.want, metrics.GenericPenalty)
		})
	}
}

func TestCompareModels_TieFavorsModelA(t *testing.T) {
	same := []string{richDescription}

	result := CompareModels("model-a", "model-b", same, same)

	assert.Equal(t, "model-a", result.WinnerModel)
	assert.Equal(t, result.ModelAMetrics.Score, result.ModelBMetrics.Score)
	assert.Contains(t, result.Reason, "model-a")
	assert.Contains(t, result.Reason, "100.00")
}

func TestCompareModels_BetterScoreWins(t *testing.T) {
	result := CompareModels(
		"model-a", "model-b",
		[]string{"Status field."},
		[]string{richDescription},
	)

	assert.Equal(t, "model-b", result.WinnerModel)
	assert.Greater(t, result.ModelBMetrics.Score, result.ModelAMetrics.Score)
	assert.Contains(t, result.Reason, "model-b wins")
}
