package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehmann314159/flashdeck/internal/leitner"
	"github.com/lehmann314159/flashdeck/internal/models"
	"github.com/lehmann314159/flashdeck/internal/repository"
	"github.com/lehmann314159/flashdeck/internal/services"
)

// scripted replays canned input lines, then reports end of input
type scripted struct {
	lines []string
}

func (s *scripted) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func setupReviewer(t *testing.T, input ...string) (*reviewer, *bytes.Buffer) {
	t.Helper()

	db, err := repository.OpenAndMigrate(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := services.NewPracticeService(repository.NewSQLiteRepository(db), nil)
	_, err = svc.AddFlashcard(context.Background(), &models.CreateFlashcardRequest{Front: "hola", Back: "hello", Hint: "greeting"})
	require.NoError(t, err)
	_, err = svc.AddFlashcard(context.Background(), &models.CreateFlashcardRequest{Front: "gato", Back: "cat"})
	require.NoError(t, err)

	var out bytes.Buffer
	return &reviewer{svc: svc, in: &scripted{lines: input}, out: &out}, &out
}

func TestReviewer_Run(t *testing.T) {
	r, out := setupReviewer(t, "h", "", "e", "", "bogus", "wrong")
	ctx := context.Background()

	require.NoError(t, r.run(ctx, 1))

	text := out.String()
	assert.Contains(t, text, "Hint: greeting")
	assert.Contains(t, text, "Answer: hello")
	assert.Contains(t, text, "Easy: bucket 0 -> 1")
	assert.Contains(t, text, `Unknown rating "bogus"`)
	assert.Contains(t, text, "Wrong: bucket 0 -> 0")
	assert.Contains(t, text, "Reviewed 2 of 2 cards.")

	stats, err := r.svc.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPracticeEvents)
}

func TestReviewer_Quit(t *testing.T) {
	r, out := setupReviewer(t, "", "h", "q")

	require.NoError(t, r.run(context.Background(), 1))
	assert.Contains(t, out.String(), "Reviewed 1 of 2 cards.")
}

func TestReviewer_NothingDue(t *testing.T) {
	r, out := setupReviewer(t, "", "e", "", "e")
	ctx := context.Background()
	require.NoError(t, r.run(ctx, 1))

	// Both cards are in bucket 1 now, which is not due on odd days.
	out.Reset()
	require.NoError(t, r.run(ctx, leitner.Day(3)))
	assert.Equal(t, "No cards due on day 3.\n", out.String())
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Difficulty
		wantErr bool
	}{
		{in: "w", want: models.Wrong},
		{in: "h", want: models.Hard},
		{in: "e", want: models.Easy},
		{in: "easy", want: models.Easy},
		{in: "1", want: models.Hard},
		{in: "x", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseRating(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRating(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRating(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, &models.ProgressStats{
		TotalCards:    3,
		CardsByBucket: map[int]int{1: 1, 0: 2},
		SuccessRate:   50,
	})

	text := buf.String()
	assert.Contains(t, text, "Success rate:       50.0%")
	assert.Less(t, strings.Index(text, "Bucket 0"), strings.Index(text, "Bucket 1"))
}
