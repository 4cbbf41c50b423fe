package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/apperrors"
	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
)

func newTestReviewStore(t *testing.T) *ReviewStore {
	t.Helper()
	dir := t.TempDir()
	return NewReviewStore(
		filepath.Join(dir, "reviews.jsonl"),
		filepath.Join(dir, "dictionary.jsonl"),
		zap.NewNop(),
	)
}

var generatedColumns = []models.ColumnDescription{
	{
		ColumnName:        "acct_open_dt",
		ColumnDescription: "Account open date in `customer_account`.",
		BusinessMeaning:   "Represents a lifecycle event date for reporting and controls.",
		Confidence:        0.85,
	},
	{
		ColumnName:        "customer_email",
		ColumnDescription: "Customer email in `customer_account`.",
		BusinessMeaning:   "Contains potentially sensitive customer information and should follow data protection controls.",
		PIIFlag:           true,
		Confidence:        0.75,
	},
}

func TestSave_CountsAndDictionaryEntries(t *testing.T) {
	store := newTestReviewStore(t)

	resp, err := store.Save(&models.ReviewRequest{
		TableName: "customer_account",
		Reviewer:  "reviewer@bank.example",
		Decisions: []models.ReviewDecision{
			{ColumnName: "acct_open_dt", Action: models.ReviewApproved},
			{ColumnName: "customer_email", Action: models.ReviewEdited, EditedDescription: "Customer email used for digital notifications."},
		},
		GeneratedColumns: generatedColumns,
	})
	require.NoError(t, err)

	assert.Equal(t, "saved", resp.Status)
	assert.Equal(t, 1, resp.ApprovedCount)
	assert.Equal(t, 1, resp.EditedCount)
	assert.Equal(t, 0, resp.RejectedCount)

	entries, err := store.Dictionary()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, models.SourceApproved, entries[0].Source)
	assert.Equal(t, "Account open date in `customer_account`.", entries[0].ColumnDescription)

	assert.Equal(t, models.SourceEdited, entries[1].Source)
	assert.Equal(t, "Customer email used for digital notifications.", entries[1].ColumnDescription)
	assert.True(t, entries[1].PIIFlag)

	reviews, err := store.Reviews()
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "customer_account", reviews[0].TableName)
	assert.NotZero(t, reviews[0].ID)
}

func TestSave_RejectedProducesNoDictionaryEntry(t *testing.T) {
	store := newTestReviewStore(t)

	resp, err := store.Save(&models.ReviewRequest{
		TableName:        "customer_account",
		Reviewer:         "reviewer@bank.example",
		Decisions:        []models.ReviewDecision{{ColumnName: "acct_open_dt", Action: models.ReviewRejected}},
		GeneratedColumns: generatedColumns,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.RejectedCount)

	entries, err := store.Dictionary()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_BlankEditFallsBackToGeneratedText(t *testing.T) {
	store := newTestReviewStore(t)

	_, err := store.Save(&models.ReviewRequest{
		TableName:        "customer_account",
		Reviewer:         "reviewer@bank.example",
		Decisions:        []models.ReviewDecision{{ColumnName: "acct_open_dt", Action: models.ReviewEdited, EditedDescription: "   "}},
		GeneratedColumns: generatedColumns,
	})
	require.NoError(t, err)

	entries, err := store.Dictionary()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SourceApproved, entries[0].Source)
	assert.Equal(t, "Account open date in `customer_account`.", entries[0].ColumnDescription)
}

func TestSave_DecisionWithoutGeneratedColumnIsSkipped(t *testing.T) {
	store := newTestReviewStore(t)

	resp, err := store.Save(&models.ReviewRequest{
		TableName: "customer_account",
		Reviewer:  "reviewer@bank.example",
		Decisions: []models.ReviewDecision{{ColumnName: "unknown_col", Action: models.ReviewApproved}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ApprovedCount)

	entries, err := store.Dictionary()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_InvalidActionRejected(t *testing.T) {
	store := newTestReviewStore(t)

	_, err := store.Save(&models.ReviewRequest{
		TableName: "customer_account",
		Reviewer:  "reviewer@bank.example",
		Decisions: []models.ReviewDecision{{ColumnName: "acct_open_dt", Action: "maybe"}},
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidReviewAction)
}

func TestReviews_MissingFilesYieldEmptySlices(t *testing.T) {
	store := newTestReviewStore(t)

	reviews, err := store.Reviews()
	require.NoError(t, err)
	assert.Empty(t, reviews)

	entries, err := store.Dictionary()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_AppendsAcrossCalls(t *testing.T) {
	store := newTestReviewStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.Save(&models.ReviewRequest{
			TableName:        "customer_account",
			Reviewer:         "reviewer@bank.example",
			Decisions:        []models.ReviewDecision{{ColumnName: "acct_open_dt", Action: models.ReviewApproved}},
			GeneratedColumns: generatedColumns,
		})
		require.NoError(t, err)
	}

	reviews, err := store.Reviews()
	require.NoError(t, err)
	assert.Len(t, reviews, 3)

	entries, err := store.Dictionary()
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
