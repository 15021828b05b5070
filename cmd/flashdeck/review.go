package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/lehmann314159/flashdeck/internal/leitner"
	"github.com/lehmann314159/flashdeck/internal/models"
	"github.com/lehmann314159/flashdeck/internal/services"
)

// errQuit ends a review session early
var errQuit = errors.New("review aborted")

// prompter reads one line of input. *liner.State satisfies it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

var reviewDay int64

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the cards due on a day",
	Long: `Start an interactive review session for the given day.
Type h to see the hint before revealing the answer, then rate
your recall as w(rong), h(ard) or e(asy). Type q to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := leitner.NewDay(reviewDay)
		if err != nil {
			return err
		}

		a, err := setup(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		r := &reviewer{svc: a.service, in: line, out: cmd.OutOrStdout()}
		return r.run(cmd.Context(), day)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().Int64VarP(&reviewDay, "day", "d", 0, "day number to review")
}

// reviewer drives one interactive session
type reviewer struct {
	svc *services.PracticeService
	in  prompter
	out io.Writer
}

func (r *reviewer) run(ctx context.Context, day leitner.Day) error {
	session, err := r.svc.GetDueItems(ctx, day)
	if err != nil {
		return err
	}
	if len(session.Cards) == 0 {
		fmt.Fprintf(r.out, "No cards due on day %d.\n", day)
		return nil
	}

	reviewed := 0
	for i, card := range session.Cards {
		fmt.Fprintf(r.out, "\n[%d/%d] %s\n", i+1, len(session.Cards), card.Front)

		d, err := r.ask(ctx, card)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			return err
		}

		rec, err := r.svc.SubmitAnswer(ctx, &models.AnswerRequest{
			CardFront:  card.Front,
			CardBack:   card.Back,
			Difficulty: d,
		})
		if err != nil {
			return err
		}
		reviewed++
		fmt.Fprintf(r.out, "%s: bucket %d -> %d\n", d, rec.PreviousBucket, rec.NewBucket)
	}

	fmt.Fprintf(r.out, "\nReviewed %d of %d cards.\n", reviewed, len(session.Cards))
	return nil
}

// ask shows the hint on request, reveals the answer and reads a rating
func (r *reviewer) ask(ctx context.Context, card models.Flashcard) (models.Difficulty, error) {
	for {
		input, err := r.prompt("Enter to reveal, h for hint, q to quit> ")
		if err != nil {
			return 0, err
		}
		if input == "h" {
			hint, err := r.svc.GetHint(ctx, card.Key())
			if err != nil {
				return 0, err
			}
			fmt.Fprintf(r.out, "Hint: %s\n", hint)
			continue
		}
		break
	}

	fmt.Fprintf(r.out, "Answer: %s\n", card.Back)

	for {
		input, err := r.prompt("Rate [w]rong, [h]ard, [e]asy> ")
		if err != nil {
			return 0, err
		}
		if d, err := parseRating(input); err == nil {
			return d, nil
		}
		fmt.Fprintf(r.out, "Unknown rating %q\n", input)
	}
}

// prompt reads a trimmed, lower-cased line; q or end of input quits
func (r *reviewer) prompt(p string) (string, error) {
	input, err := r.in.Prompt(p)
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return "", errQuit
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}

	input = strings.ToLower(strings.TrimSpace(input))
	if input == "q" || input == "quit" {
		return "", errQuit
	}
	return input, nil
}

// parseRating accepts the single-letter shortcuts plus anything ParseDifficulty does
func parseRating(s string) (models.Difficulty, error) {
	switch s {
	case "w":
		return models.Wrong, nil
	case "h":
		return models.Hard, nil
	case "e":
		return models.Easy, nil
	}
	return models.ParseDifficulty(s)
}

func printStats(w io.Writer, stats *models.ProgressStats) {
	fmt.Fprintln(w, "Statistics")
	fmt.Fprintln(w, "----------")
	fmt.Fprintf(w, "Total cards:        %d\n", stats.TotalCards)
	fmt.Fprintf(w, "Practice events:    %d\n", stats.TotalPracticeEvents)
	fmt.Fprintf(w, "Success rate:       %.1f%%\n", stats.SuccessRate)
	fmt.Fprintf(w, "Moves per card:     %.2f\n", stats.AverageMovesPerCard)

	buckets := make([]int, 0, len(stats.CardsByBucket))
	for b := range stats.CardsByBucket {
		buckets = append(buckets, b)
	}
	sort.Ints(buckets)
	for _, b := range buckets {
		fmt.Fprintf(w, "Bucket %-3d          %d\n", b, stats.CardsByBucket[b])
	}
}
