package models

// PracticeRecord is the immutable log entry of one answered review
type PracticeRecord struct {
	CardFront      string     `json:"card_front"`
	CardBack       string     `json:"card_back"`
	Timestamp      int64      `json:"timestamp"` // milliseconds since the Unix epoch
	Difficulty     Difficulty `json:"difficulty"`
	PreviousBucket int        `json:"previous_bucket"`
	NewBucket      int        `json:"new_bucket"`
}

// Key returns the identity of the card the record refers to
func (r PracticeRecord) Key() CardKey {
	return CardKey{Front: r.CardFront, Back: r.CardBack}
}

// ProgressStats summarises the collection and the practice history
type ProgressStats struct {
	TotalCards          int         `json:"total_cards"`
	CardsByBucket       map[int]int `json:"cards_by_bucket"`
	SuccessRate         float64     `json:"success_rate"`
	AverageMovesPerCard float64     `json:"average_moves_per_card"`
	TotalPracticeEvents int         `json:"total_practice_events"`
}

// PracticeSession is the set of cards due on a given day
type PracticeSession struct {
	Cards []Flashcard `json:"cards"`
	Day   int64       `json:"day"`
}

// AnswerRequest represents the request body for submitting an answer
type AnswerRequest struct {
	CardFront  string     `json:"card_front"`
	CardBack   string     `json:"card_back"`
	Difficulty Difficulty `json:"difficulty"`
}

// HintResponse is returned by the hint endpoint
type HintResponse struct {
	Hint string `json:"hint"`
}
