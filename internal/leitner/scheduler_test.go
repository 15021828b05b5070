package leitner

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehmann314159/flashdeck/internal/models"
)

func dueKeys(s CardSet) []string {
	keys := make([]string, 0, len(s))
	for _, c := range s.Sorted() {
		keys = append(keys, c.Front)
	}
	return keys
}

func TestSelectDue_Scenario(t *testing.T) {
	a, b, c := card("A", "a"), card("B", "b"), card("C", "c")
	dense := ToDenseArray(BucketModel{
		0: NewCardSet(a),
		1: NewCardSet(b),
		2: NewCardSet(c),
	})

	tests := []struct {
		day  Day
		want []string
	}{
		{day: 0, want: []string{"A", "B", "C"}},
		{day: 1, want: []string{"A"}},
		{day: 2, want: []string{"A", "B"}},
		{day: 3, want: []string{"A"}},
		{day: 4, want: []string{"A", "B", "C"}},
		{day: 6, want: []string{"A", "B"}},
		{day: 8, want: []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		got := dueKeys(SelectDue(dense, tt.day))
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SelectDue(day=%d) mismatch (-want +got):\n%s", tt.day, diff)
		}
	}
}

func TestSelectDue_BucketZeroAlwaysDue(t *testing.T) {
	zero := card("zero", "0")
	dense := ToDenseArray(BucketModel{0: NewCardSet(zero), 4: NewCardSet(card("four", "4"))})

	for day := Day(0); day < 100; day++ {
		if !SelectDue(dense, day).Has(zero.Key()) {
			t.Fatalf("SelectDue(day=%d) is missing the bucket 0 card", day)
		}
	}
}

func TestSelectDue_IntervalDoubling(t *testing.T) {
	for n := 1; n <= 6; n++ {
		c := card("c", "n")
		dense := ToDenseArray(BucketModel{Bucket(n): NewCardSet(c)})
		interval := Day(1) << n

		for day := Day(0); day <= 3*interval; day++ {
			want := day%interval == 0
			if got := SelectDue(dense, day).Has(c.Key()); got != want {
				t.Errorf("bucket %d day %d: due = %v, want %v", n, day, got, want)
			}
		}
	}
}

func TestSelectDue_DeduplicatesByKey(t *testing.T) {
	a := card("a", "1")
	dense := []CardSet{NewCardSet(a), NewCardSet(a)}

	got := SelectDue(dense, 2)
	if len(got) != 1 {
		t.Errorf("SelectDue() size = %d, want 1 for a card present in two buckets", len(got))
	}
}

func TestSelectDue_HugeBucket(t *testing.T) {
	c := card("c", "far")
	dense := make([]CardSet, 71)
	for i := range dense {
		dense[i] = CardSet{}
	}
	dense[70] = NewCardSet(c)

	if !SelectDue(dense, 0).Has(c.Key()) {
		t.Error("bucket 70 should be due on day 0")
	}
	if SelectDue(dense, Day(1)<<62).Has(c.Key()) {
		t.Error("bucket 70 should not be due on day 2^62")
	}
}

func TestSelectDue_EmptyArray(t *testing.T) {
	if got := SelectDue(nil, 5); len(got) != 0 {
		t.Errorf("SelectDue(nil) = %v, want empty", got)
	}
	if got := SelectDue(ToDenseArray(BucketModel{}), 0); len(got) != 0 {
		t.Errorf("SelectDue(empty) = %v, want empty", got)
	}
}

func TestSelectDue_KeepsCardFields(t *testing.T) {
	hint := "h"
	c := models.Flashcard{ID: 7, Front: "f", Back: "b", Hint: &hint, Tags: []string{"t"}}
	got := SelectDue([]CardSet{NewCardSet(c)}, 1)

	if diff := cmp.Diff(c, got[c.Key()]); diff != "" {
		t.Errorf("SelectDue() changed the card (-want +got):\n%s", diff)
	}
}
