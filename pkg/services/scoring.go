package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
)

// specificitySaturation is the word count at which a description is
// considered fully detailed.
const specificitySaturation = 18.0

// bankingKeywords mark a description as domain-relevant when any appears.
var bankingKeywords = []string{
	"account", "transaction", "compliance", "kyc", "aml", "customer",
	"loan", "interest", "apr", "balance", "payment", "risk",
}

// genericMarkers are boilerplate fragments that indicate a low-effort
// description, including the rule engine's own " in `table`." template.
// Keep this list as-is; the comparison heuristic depends on it.
var genericMarkers = []string{
	"used in analytics",
	"field in",
	"column in",
	" in `",
}

// Composite score weights. Domain relevance and descriptive richness matter
// equally and most; avoiding boilerplate is a minor tiebreaker.
const (
	weightRelevance   = 0.45
	weightSpecificity = 0.45
	weightPenalty     = 0.10
)

// ScoreDescriptions computes heuristic quality metrics for a batch of
// generated descriptions. Empty input yields the worst-case tuple.
func ScoreDescriptions(descriptions []string) models.ScoreMetrics {
	if len(descriptions) == 0 {
		return models.ScoreMetrics{
			Score:            0,
			Specificity:      0,
			BankingRelevance: 0,
			GenericPenalty:   1.0,
		}
	}

	var specificitySum, relevanceSum, penaltySum float64
	for _, text := range descriptions {
		specificitySum += specificity(text)
		relevanceSum += bankingRelevance(text)
		penaltySum += genericPenalty(text)
	}

	n := float64(len(descriptions))
	avgSpecificity := specificitySum / n
	avgRelevance := relevanceSum / n
	avgPenalty := penaltySum / n

	score := (weightRelevance*avgRelevance +
		weightSpecificity*avgSpecificity +
		weightPenalty*(1-avgPenalty)) * 100

	return models.ScoreMetrics{
		Score:            round2(score),
		Specificity:      avgSpecificity,
		BankingRelevance: avgRelevance,
		GenericPenalty:   avgPenalty,
	}
}

// specificity rewards longer, more detailed text up to the saturation point.
func specificity(text string) float64 {
	words := float64(len(strings.Fields(text)))
	return math.Min(words/specificitySaturation, 1.0)
}

// bankingRelevance is 1 when any banking keyword appears, else 0.
func bankingRelevance(text string) float64 {
	lowered := strings.ToLower(text)
	for _, kw := range bankingKeywords {
		if strings.Contains(lowered, kw) {
			return 1.0
		}
	}
	return 0.0
}

// genericPenalty is 1 when any boilerplate marker appears, else 0.
func genericPenalty(text string) float64 {
	lowered := strings.ToLower(text)
	for _, marker := range genericMarkers {
		if strings.Contains(lowered, marker) {
			return 1.0
		}
	}
	return 0.0
}

// CompareModels scores both description batches and declares a winner.
// Ties favor model A; deterministic, not random. Pure function of its
// inputs.
func CompareModels(modelA, modelB string, descriptionsA, descriptionsB []string) models.ComparisonResult {
	metricsA := ScoreDescriptions(descriptionsA)
	metricsB := ScoreDescriptions(descriptionsB)

	winner := modelA
	if metricsB.Score > metricsA.Score {
		winner = modelB
	}

	reason := fmt.Sprintf("%s wins: %s scored %.2f, %s scored %.2f",
		winner, modelA, metricsA.Score, modelB, metricsB.Score)

	return models.ComparisonResult{
		WinnerModel:   winner,
		Reason:        reason,
		ModelAMetrics: metricsA,
		ModelBMetrics: metricsB,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
