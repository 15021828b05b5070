package leitner

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehmann314159/flashdeck/internal/models"
)

func card(front, back string) models.Flashcard {
	return models.Flashcard{Front: front, Back: back, Tags: []string{}}
}

func TestNewDay(t *testing.T) {
	tests := []struct {
		name    string
		n       int64
		wantErr bool
	}{
		{name: "zero", n: 0},
		{name: "positive", n: 42},
		{name: "negative", n: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDay(tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewDay(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrNegativeDay) {
				t.Errorf("NewDay(%d) error = %v, want ErrNegativeDay", tt.n, err)
			}
			if !tt.wantErr && int64(got) != tt.n {
				t.Errorf("NewDay(%d) = %d", tt.n, got)
			}
		})
	}
}

func TestNewBucket(t *testing.T) {
	if _, err := NewBucket(-3); !errors.Is(err, ErrNegativeBucket) {
		t.Errorf("NewBucket(-3) error = %v, want ErrNegativeBucket", err)
	}
	if b, err := NewBucket(3); err != nil || b != 3 {
		t.Errorf("NewBucket(3) = %d, %v", b, err)
	}
}

func TestToDenseArray(t *testing.T) {
	a, b, c := card("a", "1"), card("b", "2"), card("c", "3")

	tests := []struct {
		name    string
		model   BucketModel
		wantLen int
		sizes   []int
	}{
		{
			name:    "empty model",
			model:   BucketModel{},
			wantLen: 1,
			sizes:   []int{0},
		},
		{
			name:    "contiguous buckets",
			model:   BucketModel{0: NewCardSet(a), 1: NewCardSet(b, c)},
			wantLen: 2,
			sizes:   []int{1, 2},
		},
		{
			name:    "gaps become empty sets",
			model:   BucketModel{3: NewCardSet(a, b), 1: NewCardSet(c)},
			wantLen: 4,
			sizes:   []int{0, 1, 0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dense := ToDenseArray(tt.model)
			if len(dense) != tt.wantLen {
				t.Fatalf("ToDenseArray() len = %d, want %d", len(dense), tt.wantLen)
			}
			for i, want := range tt.sizes {
				if dense[i] == nil {
					t.Fatalf("ToDenseArray()[%d] is nil", i)
				}
				if len(dense[i]) != want {
					t.Errorf("ToDenseArray()[%d] size = %d, want %d", i, len(dense[i]), want)
				}
			}
		})
	}
}

func TestDenseArray_RoundTrip(t *testing.T) {
	model := BucketModel{
		0: NewCardSet(card("a", "1")),
		2: NewCardSet(card("b", "2"), card("c", "3")),
		5: NewCardSet(card("d", "4")),
		6: CardSet{},
	}

	got := FromDenseArray(ToDenseArray(model))

	if diff := cmp.Diff(assignments(model), assignments(got)); diff != "" {
		t.Errorf("round trip changed assignments (-want +got):\n%s", diff)
	}
}

func TestToDenseArray_DoesNotAlias(t *testing.T) {
	model := BucketModel{0: NewCardSet(card("a", "1"))}
	dense := ToDenseArray(model)
	dense[0].Add(card("b", "2"))

	if len(model[0]) != 1 {
		t.Errorf("model bucket 0 size = %d after mutating dense copy, want 1", len(model[0]))
	}
}

func TestFromPlacements(t *testing.T) {
	a, b, c := card("a", "1"), card("b", "2"), card("c", "3")

	model := FromPlacements([]Placement{
		{Card: a, Bucket: 0},
		{Card: b, Bucket: 3},
		{Card: c, Bucket: 3},
	})

	if len(model) != 4 {
		t.Fatalf("FromPlacements() has %d buckets, want 4", len(model))
	}
	for _, bucket := range []Bucket{1, 2} {
		set, ok := model[bucket]
		if !ok || len(set) != 0 {
			t.Errorf("bucket %d = %v, want present and empty", bucket, set)
		}
	}
	if !model[3].Has(b.Key()) || !model[3].Has(c.Key()) {
		t.Errorf("bucket 3 = %v, want b and c", model[3])
	}

	if diff := cmp.Diff(assignments(model), placementAssignments(Placements(model))); diff != "" {
		t.Errorf("Placements() disagrees with model (-want +got):\n%s", diff)
	}
}

func TestFromPlacements_Empty(t *testing.T) {
	model := FromPlacements(nil)
	set, ok := model[0]
	if len(model) != 1 || !ok || len(set) != 0 {
		t.Errorf("FromPlacements(nil) = %v, want a single empty bucket 0", model)
	}
}

func TestLocate(t *testing.T) {
	a := card("a", "1")
	model := BucketModel{2: NewCardSet(a)}

	if b, ok := Locate(model, a.Key()); !ok || b != 2 {
		t.Errorf("Locate() = %d, %v, want 2, true", b, ok)
	}
	if _, ok := Locate(model, models.CardKey{Front: "x", Back: "y"}); ok {
		t.Error("Locate() found a card that is not in the model")
	}
}

func TestCardSet_IdentityByKey(t *testing.T) {
	hint := "first"
	set := NewCardSet(models.Flashcard{ID: 1, Front: "f", Back: "b", Hint: &hint})
	set.Add(models.Flashcard{ID: 2, Front: "f", Back: "b", Tags: []string{"other"}})

	if len(set) != 1 {
		t.Errorf("set size = %d, want 1 for two cards with the same key", len(set))
	}
}

func assignments(m BucketModel) map[models.CardKey]Bucket {
	out := make(map[models.CardKey]Bucket)
	for b, set := range m {
		for k := range set {
			out[k] = b
		}
	}
	return out
}

func placementAssignments(ps []Placement) map[models.CardKey]Bucket {
	out := make(map[models.CardKey]Bucket)
	for _, p := range ps {
		out[p.Card.Key()] = p.Bucket
	}
	return out
}

func TestMoved(t *testing.T) {
	a, b, c := card("a", "1"), card("b", "2"), card("c", "3")
	before := BucketModel{0: NewCardSet(a, b), 1: NewCardSet(c)}

	after := ApplyAnswer(before, a, models.Easy)
	moved := Moved(before, after)
	if len(moved) != 1 || moved[0].Card.Key() != a.Key() || moved[0].Bucket != 1 {
		t.Errorf("Moved() = %+v, want only a in bucket 1", moved)
	}

	if got := Moved(before, before.Clone()); len(got) != 0 {
		t.Errorf("Moved() on identical models = %+v, want none", got)
	}

	fresh := card("d", "4")
	if got := Moved(before, ApplyAnswer(before, fresh, models.Hard)); len(got) != 1 || got[0].Bucket != 0 {
		t.Errorf("Moved() for a new card = %+v, want d in bucket 0", got)
	}
}
