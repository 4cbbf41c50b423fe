package models

// ScoreMetrics is the heuristic quality breakdown for a batch of generated
// descriptions. Derived and ephemeral; recomputed per comparison, never
// persisted.
type ScoreMetrics struct {
	Score            float64 `json:"score"`             // 0-100 weighted composite
	Specificity      float64 `json:"specificity"`       // 0-1 word-count richness
	BankingRelevance float64 `json:"banking_relevance"` // 0-1 domain keyword hit rate
	GenericPenalty   float64 `json:"generic_penalty"`   // 0-1 boilerplate marker hit rate
}

// ComparisonResult declares a winner between two models' outputs.
type ComparisonResult struct {
	WinnerModel   string       `json:"winner_model"`
	Reason        string       `json:"reason"`
	ModelAMetrics ScoreMetrics `json:"model_a_metrics"`
	ModelBMetrics ScoreMetrics `json:"model_b_metrics"`
}
