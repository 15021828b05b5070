package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/lehmann314159/flashdeck/internal/models"
	"github.com/lehmann314159/flashdeck/internal/repository"
)

var csvHeader = []string{"front", "back", "hint", "tags"}

// ImportResult contains the results of a CSV import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportCSV imports flashcards from a CSV reader. Imported cards start in bucket 0.
func (s *PracticeService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", ErrInvalidInput, err)
	}

	// Map column names to indices
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range []string{"front", "back"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%w: missing required column: %s", ErrInvalidInput, col)
		}
	}

	result := &ImportResult{}
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
			result.Skipped++
			continue
		}

		req := &models.CreateFlashcardRequest{
			Front: field(record, colIndex, "front"),
			Back:  field(record, colIndex, "back"),
			Hint:  field(record, colIndex, "hint"),
			Tags:  models.SplitTags(field(record, colIndex, "tags")),
		}

		if _, err := s.AddFlashcard(ctx, req); err != nil {
			if !errors.Is(err, ErrInvalidInput) && !errors.Is(err, repository.ErrConflict) {
				return result, err
			}
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
			result.Skipped++
			continue
		}

		result.Imported++
	}

	s.log.Info("imported flashcards",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// field returns the trimmed value of the named column, or "" when the row is short
func field(record []string, colIndex map[string]int, name string) string {
	idx, ok := colIndex[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ExportCSV exports all flashcards to CSV format
func (s *PracticeService) ExportCSV(ctx context.Context, w io.Writer) error {
	cards, err := s.repo.List(ctx, models.CardFilter{})
	if err != nil {
		return fmt.Errorf("failed to fetch flashcards: %w", err)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, card := range cards {
		hint := ""
		if card.Hint != nil {
			hint = *card.Hint
		}

		record := []string{card.Front, card.Back, hint, strings.Join(card.Tags, ",")}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
