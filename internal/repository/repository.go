package repository

import (
	"context"

	"github.com/lehmann314159/flashdeck/internal/leitner"
	"github.com/lehmann314159/flashdeck/internal/models"
)

// FlashcardRepository defines the persistence operations for flashcards and practice records
type FlashcardRepository interface {
	// Create inserts a new flashcard in bucket 0 and returns it with its ID
	Create(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error)

	// GetByID retrieves a flashcard by its ID
	GetByID(ctx context.Context, id int64) (*models.Flashcard, error)

	// GetByKey retrieves a flashcard by its front and back
	GetByKey(ctx context.Context, key models.CardKey) (*models.Flashcard, error)

	// List retrieves flashcards and their buckets with optional filtering
	List(ctx context.Context, filter models.CardFilter) ([]*models.ScheduledCard, error)

	// Count returns the total number of flashcards
	Count(ctx context.Context) (int64, error)

	// LoadPlacements returns every flashcard with its scheduled day
	LoadPlacements(ctx context.Context) ([]leitner.Placement, error)

	// ListRecords returns the full practice history in timestamp order
	ListRecords(ctx context.Context) ([]models.PracticeRecord, error)

	// SetScheduledDay moves a flashcard to the given bucket
	SetScheduledDay(ctx context.Context, id int64, bucket leitner.Bucket) error

	// AppendRecord stores a practice record for the flashcard
	AppendRecord(ctx context.Context, cardID int64, record models.PracticeRecord) error

	// WithinTx runs fn against a repository bound to a single transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(repo FlashcardRepository) error) error
}
