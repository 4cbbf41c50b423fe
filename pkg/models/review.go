package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewAction is a reviewer's verdict on one generated column description.
type ReviewAction string

const (
	ReviewApproved ReviewAction = "approved"
	ReviewEdited   ReviewAction = "edited"
	ReviewRejected ReviewAction = "rejected"
)

// Valid reports whether the action is one of the known verdicts.
func (a ReviewAction) Valid() bool {
	switch a {
	case ReviewApproved, ReviewEdited, ReviewRejected:
		return true
	}
	return false
}

// ReviewDecision is one reviewer verdict. EditedDescription is only used
// when Action is "edited".
type ReviewDecision struct {
	ColumnName        string       `json:"column_name"`
	Action            ReviewAction `json:"action"`
	EditedDescription string       `json:"edited_description,omitempty"`
}

// ReviewRequest submits a batch of review decisions for one table.
// GeneratedColumns carries the generation output being reviewed so that
// approved/edited descriptions can be persisted to the dictionary.
type ReviewRequest struct {
	TableName        string              `json:"table_name"`
	Reviewer         string              `json:"reviewer"`
	Decisions        []ReviewDecision    `json:"decisions"`
	GeneratedColumns []ColumnDescription `json:"generated_columns,omitempty"`
}

// ReviewResponse summarizes a saved review.
type ReviewResponse struct {
	Status        string `json:"status"`
	ApprovedCount int    `json:"approved_count"`
	EditedCount   int    `json:"edited_count"`
	RejectedCount int    `json:"rejected_count"`
}

// ReviewRecord is one line in the append-only reviews log.
type ReviewRecord struct {
	ID        uuid.UUID        `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	TableName string           `json:"table_name"`
	Reviewer  string           `json:"reviewer"`
	Decisions []ReviewDecision `json:"decisions"`
}

// DictionarySource records how a dictionary entry came to be.
type DictionarySource string

const (
	SourceApproved DictionarySource = "approved"
	SourceEdited   DictionarySource = "edited"
)

// DictionaryEntry is one line in the append-only dictionary log, keyed by
// (table_name, column_name, timestamp). Entries are never updated in place.
type DictionaryEntry struct {
	Timestamp         time.Time        `json:"timestamp"`
	TableName         string           `json:"table_name"`
	ColumnName        string           `json:"column_name"`
	ColumnDescription string           `json:"column_description"`
	BusinessMeaning   string           `json:"business_meaning"`
	PIIFlag           bool             `json:"pii_flag"`
	Confidence        float64          `json:"confidence"`
	Source            DictionarySource `json:"source"`
}
