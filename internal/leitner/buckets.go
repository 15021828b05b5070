// Package leitner implements Leitner-box scheduling over an in-memory bucket model.
//
// Every function in this package is pure: inputs are never mutated and results
// share no sets with their arguments. Validation of days and bucket numbers
// happens at the boundary through NewDay and NewBucket.
package leitner

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lehmann314159/flashdeck/internal/models"
)

var (
	ErrNegativeDay    = errors.New("leitner: day must not be negative")
	ErrNegativeBucket = errors.New("leitner: bucket must not be negative")
)

// Bucket is a bucket number. Bucket 0 holds new and forgotten cards.
type Bucket int

// NewBucket validates n as a bucket number
func NewBucket(n int) (Bucket, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeBucket, n)
	}
	return Bucket(n), nil
}

// Day is a simulated day number
type Day int64

// NewDay validates n as a day number
func NewDay(n int64) (Day, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeDay, n)
	}
	return Day(n), nil
}

// CardSet is a set of flashcards keyed by identity
type CardSet map[models.CardKey]models.Flashcard

// NewCardSet builds a set from the given cards
func NewCardSet(cards ...models.Flashcard) CardSet {
	s := make(CardSet, len(cards))
	for _, c := range cards {
		s.Add(c)
	}
	return s
}

// Add inserts the card, replacing any card with the same key
func (s CardSet) Add(c models.Flashcard) {
	s[c.Key()] = c
}

// Has reports whether a card with the key is in the set
func (s CardSet) Has(key models.CardKey) bool {
	_, ok := s[key]
	return ok
}

// Clone returns an independent copy of the set
func (s CardSet) Clone() CardSet {
	out := make(CardSet, len(s))
	for k, c := range s {
		out[k] = c
	}
	return out
}

// Sorted returns the cards ordered by storage id, then by key
func (s CardSet) Sorted() []models.Flashcard {
	cards := make([]models.Flashcard, 0, len(s))
	for _, c := range s {
		cards = append(cards, c)
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].ID != cards[j].ID {
			return cards[i].ID < cards[j].ID
		}
		return cards[i].Key().String() < cards[j].Key().String()
	})
	return cards
}

// BucketModel maps bucket numbers to the cards they hold.
// A bucket missing from the map is the same as an empty bucket.
type BucketModel map[Bucket]CardSet

// MaxBucket returns the highest bucket number present, or 0 for an empty model
func (m BucketModel) MaxBucket() Bucket {
	var max Bucket
	for b := range m {
		if b > max {
			max = b
		}
	}
	return max
}

// Clone deep-copies the model: new map, new sets
func (m BucketModel) Clone() BucketModel {
	out := make(BucketModel, len(m))
	for b, set := range m {
		out[b] = set.Clone()
	}
	return out
}

// Len returns the total number of cards across all buckets
func (m BucketModel) Len() int {
	n := 0
	for _, set := range m {
		n += len(set)
	}
	return n
}

// buckets returns the bucket numbers in ascending order
func (m BucketModel) buckets() []Bucket {
	keys := make([]Bucket, 0, len(m))
	for b := range m {
		keys = append(keys, b)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Locate returns the lowest bucket holding the card, or false if the card is new
func Locate(m BucketModel, key models.CardKey) (Bucket, bool) {
	for _, b := range m.buckets() {
		if m[b].Has(key) {
			return b, true
		}
	}
	return 0, false
}

// ToDenseArray converts the model into a slice indexed by bucket number.
// The slice has MaxBucket()+1 entries and gaps become empty sets.
func ToDenseArray(m BucketModel) []CardSet {
	dense := make([]CardSet, m.MaxBucket()+1)
	for i := range dense {
		if set, ok := m[Bucket(i)]; ok {
			dense[i] = set.Clone()
		} else {
			dense[i] = CardSet{}
		}
	}
	return dense
}

// FromDenseArray regroups a dense array into a model with one bucket per index
func FromDenseArray(dense []CardSet) BucketModel {
	m := make(BucketModel, len(dense))
	for i, set := range dense {
		m[Bucket(i)] = set.Clone()
	}
	return m
}

// Placement assigns a card to a bucket. It mirrors one row of flat storage.
type Placement struct {
	Card   models.Flashcard
	Bucket Bucket
}

// FromPlacements builds the bucket model from flat per-card bucket numbers.
// Every bucket from 0 to the highest placement is present, possibly empty.
func FromPlacements(placements []Placement) BucketModel {
	var max Bucket
	for _, p := range placements {
		if p.Bucket > max {
			max = p.Bucket
		}
	}

	m := make(BucketModel, int(max)+1)
	for b := Bucket(0); b <= max; b++ {
		m[b] = CardSet{}
	}
	for _, p := range placements {
		m[p.Bucket].Add(p.Card)
	}
	return m
}

// Placements flattens the model into one placement per card, ordered by bucket then card
func Placements(m BucketModel) []Placement {
	out := make([]Placement, 0, m.Len())
	for _, b := range m.buckets() {
		for _, c := range m[b].Sorted() {
			out = append(out, Placement{Card: c, Bucket: b})
		}
	}
	return out
}

// Moved returns the placements in after whose bucket differs from before,
// including cards that before did not hold. These are the rows to write back.
func Moved(before, after BucketModel) []Placement {
	prev := make(map[models.CardKey]Bucket, before.Len())
	for b, set := range before {
		for k := range set {
			prev[k] = b
		}
	}

	var moved []Placement
	for _, p := range Placements(after) {
		if b, ok := prev[p.Card.Key()]; !ok || b != p.Bucket {
			moved = append(moved, p)
		}
	}
	return moved
}
