package leitner

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehmann314159/flashdeck/internal/models"
)

func TestApplyAnswer(t *testing.T) {
	x := card("x", "X")

	tests := []struct {
		name       string
		model      BucketModel
		difficulty models.Difficulty
		want       Bucket
	}{
		{name: "wrong from bucket 3", model: BucketModel{3: NewCardSet(x)}, difficulty: models.Wrong, want: 0},
		{name: "wrong from bucket 0", model: BucketModel{0: NewCardSet(x)}, difficulty: models.Wrong, want: 0},
		{name: "wrong on new card", model: BucketModel{}, difficulty: models.Wrong, want: 0},
		{name: "hard keeps bucket", model: BucketModel{2: NewCardSet(x)}, difficulty: models.Hard, want: 2},
		{name: "hard on new card", model: BucketModel{}, difficulty: models.Hard, want: 0},
		{name: "easy promotes", model: BucketModel{0: {}, 1: NewCardSet(x)}, difficulty: models.Easy, want: 2},
		{name: "easy on new card", model: BucketModel{}, difficulty: models.Easy, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyAnswer(tt.model, x, tt.difficulty)

			b, ok := Locate(got, x.Key())
			if !ok || b != tt.want {
				t.Errorf("ApplyAnswer() placed card in %d (found %v), want %d", b, ok, tt.want)
			}
			if n := got.Len(); n != 1 {
				t.Errorf("ApplyAnswer() model holds %d cards, want 1", n)
			}
		})
	}
}

func TestApplyAnswer_DoesNotMutateInput(t *testing.T) {
	x, y := card("x", "X"), card("y", "Y")
	model := BucketModel{0: NewCardSet(y), 1: NewCardSet(x)}
	before := model.Clone()

	next := ApplyAnswer(model, x, models.Easy)

	if diff := cmp.Diff(before, model); diff != "" {
		t.Errorf("ApplyAnswer() mutated its input (-before +after):\n%s", diff)
	}
	if !model[1].Has(x.Key()) {
		t.Error("original model lost the card from its old bucket")
	}

	// The new generation must not share sets with the old one.
	next[0].Add(card("z", "Z"))
	if len(model[0]) != 1 {
		t.Error("new model shares bucket 0 with the input")
	}
}

func TestApplyAnswer_NewCardCreatesBucketZero(t *testing.T) {
	x := card("x", "X")
	got := ApplyAnswer(BucketModel{}, x, models.Easy)

	if _, ok := got[0]; !ok {
		t.Error("ApplyAnswer() on a new card should ensure bucket 0 exists")
	}
	if !got[1].Has(x.Key()) {
		t.Error("new card answered Easy should land in bucket 1")
	}
}

func TestApplyAnswer_Scenario(t *testing.T) {
	x := card("X", "x")
	model := BucketModel{0: NewCardSet(card("other", "o"))}

	model = ApplyAnswer(model, x, models.Easy)
	model = ApplyAnswer(model, x, models.Easy)
	if b, _ := Locate(model, x.Key()); b != 2 {
		t.Fatalf("after Easy, Easy card is in bucket %d, want 2", b)
	}

	model = ApplyAnswer(model, x, models.Wrong)
	if b, _ := Locate(model, x.Key()); b != 0 {
		t.Errorf("after Wrong card is in bucket %d, want 0", b)
	}
	if model.Len() != 2 {
		t.Errorf("model holds %d cards, want 2", model.Len())
	}
}

func TestApplyAnswer_MatchesByKey(t *testing.T) {
	stored := models.Flashcard{ID: 9, Front: "f", Back: "b", Tags: []string{"a"}}
	model := BucketModel{1: NewCardSet(stored)}

	// A different value with the same front/back is the same card.
	answered := models.Flashcard{Front: "f", Back: "b"}
	got := ApplyAnswer(model, answered, models.Easy)

	if got.Len() != 1 {
		t.Fatalf("model holds %d cards, want 1", got.Len())
	}
	if !got[2].Has(stored.Key()) {
		t.Errorf("card not promoted to bucket 2: %v", got)
	}
}
