package services

import "github.com/lehmann314159/flashdeck/internal/models"

// StarterDeck returns the cards loaded by Seed when no deck is supplied
func StarterDeck() []models.Flashcard {
	cards := []models.CreateFlashcardRequest{
		{Front: "What is the capital of Australia?", Back: "Canberra", Hint: "Not Sydney", Tags: []string{"geography"}},
		{Front: "What is the capital of Canada?", Back: "Ottawa", Hint: "On the Ontario-Quebec border", Tags: []string{"geography"}},
		{Front: "Chemical symbol for gold", Back: "Au", Hint: "From the Latin aurum", Tags: []string{"chemistry"}},
		{Front: "Chemical symbol for sodium", Back: "Na", Tags: []string{"chemistry"}},
		{Front: "How many squares are on a chessboard?", Back: "64", Hint: "Eight by eight", Tags: []string{"chess"}},
		{Front: "Which chess piece can only move diagonally?", Back: "Bishop", Tags: []string{"chess"}},
		{Front: "Binary for decimal 10", Back: "1010", Hint: "8 + 2", Tags: []string{"math"}},
		{Front: "Smallest prime number", Back: "2", Tags: []string{"math"}},
	}

	deck := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		card, err := models.NewFlashcard(c.Front, c.Back, c.Hint, c.Tags)
		if err != nil {
			panic(err)
		}
		deck = append(deck, card)
	}
	return deck
}
