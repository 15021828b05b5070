package models

import (
	"errors"
	"strings"
	"time"
)

// ErrMissingSide is returned when a flashcard is built without a front or back
var ErrMissingSide = errors.New("flashcard must have a front and back")

// CardKey identifies a flashcard by its front and back text.
// Two cards with the same key are the same card for scheduling purposes.
type CardKey struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// String returns the key as "front:back"
func (k CardKey) String() string {
	return k.Front + ":" + k.Back
}

// Flashcard represents a single review item. Hint and tags are fixed at creation.
type Flashcard struct {
	ID        int64     `json:"id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Hint      *string   `json:"hint,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFlashcard builds a flashcard with trimmed sides. An empty hint is treated as no hint.
func NewFlashcard(front, back, hint string, tags []string) (Flashcard, error) {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" || back == "" {
		return Flashcard{}, ErrMissingSide
	}

	card := Flashcard{
		Front: front,
		Back:  back,
		Tags:  CleanTags(tags),
	}
	if h := strings.TrimSpace(hint); h != "" {
		card.Hint = &h
	}
	return card, nil
}

// Key returns the identity of the card
func (c Flashcard) Key() CardKey {
	return CardKey{Front: c.Front, Back: c.Back}
}

// CleanTags trims every tag and drops blanks. Tags are stored comma-joined,
// so a tag containing commas is split into its parts. The result is never nil.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		for _, part := range strings.Split(tag, ",") {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// SplitTags parses a comma-joined tag list
func SplitTags(s string) []string {
	return CleanTags([]string{s})
}

// CreateFlashcardRequest represents the request body for adding a flashcard
type CreateFlashcardRequest struct {
	Front string   `json:"front"`
	Back  string   `json:"back"`
	Hint  string   `json:"hint,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// CardFilter represents query parameters for listing flashcards
type CardFilter struct {
	Search string
	Tag    string
	Limit  int
	Offset int
}

// ScheduledCard is a flashcard together with the bucket it currently sits in
type ScheduledCard struct {
	Flashcard
	Bucket int `json:"bucket"`
}
