package leitner

import "github.com/lehmann314159/flashdeck/internal/models"

// ComputeProgress aggregates the current model and the full practice log.
// The two inputs are summarised independently; the log is not replayed.
func ComputeProgress(m BucketModel, events []models.PracticeRecord) models.ProgressStats {
	stats := models.ProgressStats{
		CardsByBucket:       make(map[int]int),
		TotalPracticeEvents: len(events),
	}

	for b, set := range m {
		stats.TotalCards += len(set)
		stats.CardsByBucket[int(b)] = len(set)
	}
	for b := 0; b <= int(m.MaxBucket()); b++ {
		if _, ok := stats.CardsByBucket[b]; !ok {
			stats.CardsByBucket[b] = 0
		}
	}

	if len(events) == 0 {
		return stats
	}

	correct := 0
	seen := make(map[models.CardKey]struct{})
	for _, e := range events {
		if e.Difficulty.Correct() {
			correct++
		}
		seen[e.Key()] = struct{}{}
	}

	total := float64(len(events))
	stats.SuccessRate = 100 * float64(correct) / total
	stats.AverageMovesPerCard = total / float64(len(seen))
	return stats
}
