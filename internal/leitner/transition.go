package leitner

import "github.com/lehmann314159/flashdeck/internal/models"

// ApplyAnswer returns a new model with the card moved according to the answer.
//
// Wrong sends the card to bucket 0, Hard keeps it where it is and Easy promotes
// it by one. A card not found in the model is new: Hard places it in bucket 0
// and Easy in bucket 1. The input model is never modified.
func ApplyAnswer(m BucketModel, card models.Flashcard, difficulty models.Difficulty) BucketModel {
	key := card.Key()
	current, found := Locate(m, key)

	next := m.Clone()
	if found {
		delete(next[current], key)
	} else if _, ok := next[0]; !ok {
		next[0] = CardSet{}
	}

	target := targetBucket(current, found, difficulty)
	if _, ok := next[target]; !ok {
		next[target] = CardSet{}
	}
	next[target].Add(card)

	return next
}

func targetBucket(current Bucket, found bool, difficulty models.Difficulty) Bucket {
	if !found {
		current = 0
	}
	switch difficulty {
	case models.Hard:
		return current
	case models.Easy:
		return current + 1
	default:
		return 0
	}
}
