package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhgao/banking-metadata-description-ai/pkg/apperrors"
	"github.com/zhgao/banking-metadata-description-ai/pkg/models"
)

// ReviewStore persists review decisions and the approved dictionary as
// append-only line-delimited JSON. Each line is one complete record, so
// interleaved writers cannot corrupt individual entries.
type ReviewStore struct {
	reviewsPath    string
	dictionaryPath string
	logger         *zap.Logger
}

// NewReviewStore creates a store writing to the given JSONL paths.
func NewReviewStore(reviewsPath, dictionaryPath string, logger *zap.Logger) *ReviewStore {
	return &ReviewStore{
		reviewsPath:    reviewsPath,
		dictionaryPath: dictionaryPath,
		logger:         logger.Named("reviews"),
	}
}

// Save appends the review record and derives dictionary entries from the
// approved and edited decisions. Rejected decisions are logged in the
// review record but never reach the dictionary.
func (s *ReviewStore) Save(req *models.ReviewRequest) (*models.ReviewResponse, error) {
	for _, d := range req.Decisions {
		if !d.Action.Valid() {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidReviewAction, d.Action)
		}
	}

	now := time.Now().UTC()
	record := models.ReviewRecord{
		ID:        uuid.New(),
		Timestamp: now,
		TableName: req.TableName,
		Reviewer:  req.Reviewer,
		Decisions: req.Decisions,
	}

	if err := appendJSONL(s.reviewsPath, record); err != nil {
		return nil, fmt.Errorf("append review record: %w", err)
	}

	entries := s.dictionaryEntries(req, now)
	for _, entry := range entries {
		if err := appendJSONL(s.dictionaryPath, entry); err != nil {
			return nil, fmt.Errorf("append dictionary entry: %w", err)
		}
	}

	var approved, edited, rejected int
	for _, d := range req.Decisions {
		switch d.Action {
		case models.ReviewApproved:
			approved++
		case models.ReviewEdited:
			edited++
		case models.ReviewRejected:
			rejected++
		}
	}

	s.logger.Info("Review saved",
		zap.String("table", req.TableName),
		zap.String("reviewer", req.Reviewer),
		zap.Int("approved", approved),
		zap.Int("edited", edited),
		zap.Int("rejected", rejected),
		zap.Int("dictionary_entries", len(entries)))

	return &models.ReviewResponse{
		Status:        "saved",
		ApprovedCount: approved,
		EditedCount:   edited,
		RejectedCount: rejected,
	}, nil
}

// dictionaryEntries builds the append-only entries for non-rejected
// decisions that have a matching generated column. An edited decision with
// a non-blank edit persists the edited text with source "edited"; a blank
// edit falls back to the generated text and stays "approved".
func (s *ReviewStore) dictionaryEntries(req *models.ReviewRequest, now time.Time) []models.DictionaryEntry {
	generated := make(map[string]models.ColumnDescription, len(req.GeneratedColumns))
	for _, col := range req.GeneratedColumns {
		generated[col.ColumnName] = col
	}

	var entries []models.DictionaryEntry
	for _, decision := range req.Decisions {
		col, ok := generated[decision.ColumnName]
		if decision.Action == models.ReviewRejected || !ok {
			continue
		}

		desc := col.ColumnDescription
		source := models.SourceApproved
		if decision.Action == models.ReviewEdited {
			if edit := strings.TrimSpace(decision.EditedDescription); edit != "" {
				desc = edit
				source = models.SourceEdited
			}
		}

		entries = append(entries, models.DictionaryEntry{
			Timestamp:         now,
			TableName:         req.TableName,
			ColumnName:        decision.ColumnName,
			ColumnDescription: desc,
			BusinessMeaning:   col.BusinessMeaning,
			PIIFlag:           col.PIIFlag,
			Confidence:        col.Confidence,
			Source:            source,
		})
	}
	return entries
}

// Reviews returns every saved review record. A missing log file yields an
// empty slice.
func (s *ReviewStore) Reviews() ([]models.ReviewRecord, error) {
	return readJSONL[models.ReviewRecord](s.reviewsPath)
}

// Dictionary returns every persisted dictionary entry in append order.
func (s *ReviewStore) Dictionary() ([]models.DictionaryEntry, error) {
	return readJSONL[models.DictionaryEntry](s.dictionaryPath)
}

// appendJSONL appends one record as a single JSON line.
func appendJSONL(path string, record any) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}

// readJSONL reads every non-blank line of a JSONL file into T.
func readJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, err
	}
	defer f.Close()

	records := []T{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record T
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", path, len(records)+1, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
