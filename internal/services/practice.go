package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lehmann314159/flashdeck/internal/leitner"
	"github.com/lehmann314159/flashdeck/internal/models"
	"github.com/lehmann314159/flashdeck/internal/repository"
)

// ErrInvalidInput is returned when a request fails validation
var ErrInvalidInput = errors.New("invalid input")

// NoHintMessage is returned for cards without a hint
const NoHintMessage = "No hint available for this card."

// PracticeService composes the Leitner scheduler with flashcard persistence
type PracticeService struct {
	repo repository.FlashcardRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewPracticeService creates a new practice service
func NewPracticeService(repo repository.FlashcardRepository, log *zap.Logger) *PracticeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PracticeService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// LoadBuckets reconstructs the bucket model from stored scheduled days
func (s *PracticeService) LoadBuckets(ctx context.Context) (leitner.BucketModel, error) {
	return loadBuckets(ctx, s.repo)
}

func loadBuckets(ctx context.Context, repo repository.FlashcardRepository) (leitner.BucketModel, error) {
	placements, err := repo.LoadPlacements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load buckets: %w", err)
	}
	return leitner.FromPlacements(placements), nil
}

// GetDueItems returns the cards to practice on the given day
func (s *PracticeService) GetDueItems(ctx context.Context, day leitner.Day) (*models.PracticeSession, error) {
	model, err := s.LoadBuckets(ctx)
	if err != nil {
		return nil, err
	}

	due := leitner.SelectDue(leitner.ToDenseArray(model), day)
	session := &models.PracticeSession{
		Cards: due.Sorted(),
		Day:   int64(day),
	}

	s.log.Debug("selected practice cards",
		zap.Int64("day", session.Day),
		zap.Int("due", len(session.Cards)),
		zap.Int("total", model.Len()),
	)
	return session, nil
}

// SubmitAnswer moves the card according to the answer and logs a practice record.
// Loading, transition and both writes happen in one transaction.
func (s *PracticeService) SubmitAnswer(ctx context.Context, req *models.AnswerRequest) (*models.PracticeRecord, error) {
	if req.CardFront == "" || req.CardBack == "" {
		return nil, fmt.Errorf("%w: card_front and card_back are required", ErrInvalidInput)
	}
	if !req.Difficulty.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, req.Difficulty)
	}

	key := models.CardKey{Front: req.CardFront, Back: req.CardBack}
	var record models.PracticeRecord

	err := s.repo.WithinTx(ctx, func(tx repository.FlashcardRepository) error {
		card, err := tx.GetByKey(ctx, key)
		if err != nil {
			return err
		}

		before, err := loadBuckets(ctx, tx)
		if err != nil {
			return err
		}
		previous, _ := leitner.Locate(before, key)

		after := leitner.ApplyAnswer(before, *card, req.Difficulty)
		next, _ := leitner.Locate(after, key)

		if err := commitBuckets(ctx, tx, before, after); err != nil {
			return err
		}

		record = models.PracticeRecord{
			CardFront:      card.Front,
			CardBack:       card.Back,
			Timestamp:      s.now().UnixMilli(),
			Difficulty:     req.Difficulty,
			PreviousBucket: int(previous),
			NewBucket:      int(next),
		}
		return tx.AppendRecord(ctx, card.ID, record)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("recorded answer",
		zap.Stringer("card", key),
		zap.Stringer("difficulty", record.Difficulty),
		zap.Int("from", record.PreviousBucket),
		zap.Int("to", record.NewBucket),
	)
	return &record, nil
}

// commitBuckets writes the scheduled day of every card that changed bucket
func commitBuckets(ctx context.Context, tx repository.FlashcardRepository, before, after leitner.BucketModel) error {
	for _, p := range leitner.Moved(before, after) {
		if err := tx.SetScheduledDay(ctx, p.Card.ID, p.Bucket); err != nil {
			return err
		}
	}
	return nil
}

// GetProgress computes statistics over the current buckets and the full history
func (s *PracticeService) GetProgress(ctx context.Context) (*models.ProgressStats, error) {
	model, err := s.LoadBuckets(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	stats := leitner.ComputeProgress(model, records)
	return &stats, nil
}

// AddFlashcard validates and stores a new card in bucket 0
func (s *PracticeService) AddFlashcard(ctx context.Context, req *models.CreateFlashcardRequest) (*models.Flashcard, error) {
	card, err := models.NewFlashcard(req.Front, req.Back, req.Hint, req.Tags)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Check for duplicate
	existing, err := s.repo.GetByKey(ctx, card.Key())
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: card %q already exists", repository.ErrConflict, card.Front)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &card)
	if err != nil {
		return nil, err
	}

	s.log.Info("added flashcard", zap.Int64("id", created.ID), zap.Stringer("card", created.Key()))
	return created, nil
}

// GetHint returns the card's hint, or NoHintMessage when it has none
func (s *PracticeService) GetHint(ctx context.Context, key models.CardKey) (string, error) {
	card, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return "", err
	}
	if card.Hint == nil || *card.Hint == "" {
		return NoHintMessage, nil
	}
	return *card.Hint, nil
}

// GetByID retrieves a single card
func (s *PracticeService) GetByID(ctx context.Context, id int64) (*models.Flashcard, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves cards with their current bucket
func (s *PracticeService) List(ctx context.Context, filter models.CardFilter) ([]*models.ScheduledCard, error) {
	return s.repo.List(ctx, filter)
}

// Count returns the total number of cards
func (s *PracticeService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Seed stores the given cards when the collection is empty and returns how many were added
func (s *PracticeService) Seed(ctx context.Context, cards []models.Flashcard) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	err = s.repo.WithinTx(ctx, func(tx repository.FlashcardRepository) error {
		for i := range cards {
			card := cards[i]
			if _, err := tx.Create(ctx, &card); err != nil {
				return fmt.Errorf("failed to seed %q: %w", card.Front, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("seeded flashcards", zap.Int("count", len(cards)))
	return len(cards), nil
}
