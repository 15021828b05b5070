package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDifficulty is returned for difficulties outside Wrong..Easy
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Difficulty is the learner's self-reported recall outcome.
// The ordinals are stored in the database and sent over the wire; do not renumber.
type Difficulty int

const (
	Wrong Difficulty = 0 // Not recalled.
	Hard  Difficulty = 1 // Recalled with effort.
	Easy  Difficulty = 2 // Recalled effortlessly.
)

var difficultyNames = [...]string{Wrong: "Wrong", Hard: "Hard", Easy: "Easy"}

var _ fmt.Stringer = Difficulty(0)

// String returns "Wrong", "Hard" or "Easy", or "Difficulty(n)" for invalid values
func (d Difficulty) String() string {
	if d.IsValid() {
		return difficultyNames[d]
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// IsValid reports whether d is Wrong, Hard or Easy
func (d Difficulty) IsValid() bool {
	return d >= Wrong && d <= Easy
}

// Correct reports whether the answer counts towards the success rate.
// Hard answers count as correct.
func (d Difficulty) Correct() bool {
	return d == Hard || d == Easy
}

// ParseDifficulty accepts a name (case-insensitive) or an ordinal
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		d := Difficulty(n)
		if !d.IsValid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidDifficulty, n)
		}
		return d, nil
	}
	for i, name := range difficultyNames {
		if strings.EqualFold(name, s) {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}
