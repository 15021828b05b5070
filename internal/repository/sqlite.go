package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lehmann314159/flashdeck/internal/leitner"
	"github.com/lehmann314159/flashdeck/internal/models"
)

const cardColumns = `id, front, back, hint, tags, scheduled_day, created_at`

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// SQLiteRepository implements FlashcardRepository using SQLite
type SQLiteRepository struct {
	db   *sql.DB
	q    querier
	inTx bool
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, q: db}
}

// ping checks the store is reachable. Inside a transaction the connection is already held.
func (r *SQLiteRepository) ping(ctx context.Context) error {
	if r.inTx {
		return nil
	}
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Create inserts a new flashcard with scheduled day 0 and returns it with its ID
func (r *SQLiteRepository) Create(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error) {
	if card.Front == "" || card.Back == "" {
		return nil, models.ErrMissingSide
	}

	card.Tags = models.CleanTags(card.Tags)
	now := time.Now().UTC()
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO flashcards (front, back, hint, tags, scheduled_day, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		card.Front, card.Back, card.Hint, joinTags(card.Tags), now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: flashcard %q", ErrConflict, card.Key())
		}
		return nil, fmt.Errorf("failed to insert flashcard: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	card.ID = id
	card.CreatedAt = now
	return card, nil
}

// GetByID retrieves a flashcard by its ID
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Flashcard, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM flashcards WHERE id = ?`, id,
	)
	sc, err := scanCard(row)
	if err != nil {
		return nil, err
	}
	return &sc.Flashcard, nil
}

// GetByKey retrieves a flashcard by its front and back
func (r *SQLiteRepository) GetByKey(ctx context.Context, key models.CardKey) (*models.Flashcard, error) {
	if err := r.ping(ctx); err != nil {
		return nil, err
	}

	row := r.q.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM flashcards WHERE front = ? AND back = ?`, key.Front, key.Back,
	)
	sc, err := scanCard(row)
	if err != nil {
		return nil, err
	}
	return &sc.Flashcard, nil
}

// List retrieves flashcards and their buckets with optional filtering
func (r *SQLiteRepository) List(ctx context.Context, filter models.CardFilter) ([]*models.ScheduledCard, error) {
	if err := r.ping(ctx); err != nil {
		return nil, err
	}

	query, args := buildListQuery(filter)
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcards: %w", err)
	}
	defer rows.Close()

	var cards []*models.ScheduledCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return cards, nil
}

// Count returns the total number of flashcards
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count flashcards: %w", err)
	}
	return count, nil
}

// LoadPlacements returns every flashcard with its scheduled day as a bucket number.
// A row missing its front or back fails the whole load.
func (r *SQLiteRepository) LoadPlacements(ctx context.Context) ([]leitner.Placement, error) {
	if err := r.ping(ctx); err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM flashcards ORDER BY scheduled_day, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcards: %w", err)
	}
	defer rows.Close()

	var placements []leitner.Placement
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		bucket, err := leitner.NewBucket(card.Bucket)
		if err != nil {
			return nil, fmt.Errorf("%w: id %d: %v", ErrMalformedRow, card.ID, err)
		}
		placements = append(placements, leitner.Placement{Card: card.Flashcard, Bucket: bucket})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return placements, nil
}

// ListRecords returns the full practice history in timestamp order
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]models.PracticeRecord, error) {
	if err := r.ping(ctx); err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT f.front, f.back, p.timestamp, p.difficulty, p.old_day, p.new_day
		 FROM practice_records p JOIN flashcards f ON f.id = p.flashcard_id
		 ORDER BY p.timestamp, p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query practice records: %w", err)
	}
	defer rows.Close()

	var records []models.PracticeRecord
	for rows.Next() {
		var rec models.PracticeRecord
		var difficulty int
		if err := rows.Scan(&rec.CardFront, &rec.CardBack, &rec.Timestamp, &difficulty,
			&rec.PreviousBucket, &rec.NewBucket); err != nil {
			return nil, fmt.Errorf("failed to scan practice record: %w", err)
		}
		rec.Difficulty = models.Difficulty(difficulty)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// SetScheduledDay moves a flashcard to the given bucket
func (r *SQLiteRepository) SetScheduledDay(ctx context.Context, id int64, bucket leitner.Bucket) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE flashcards SET scheduled_day = ? WHERE id = ?`, int(bucket), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update scheduled day: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	return nil
}

// AppendRecord stores a practice record for the flashcard
func (r *SQLiteRepository) AppendRecord(ctx context.Context, cardID int64, record models.PracticeRecord) error {
	if record.Timestamp < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTimestamp, record.Timestamp)
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO practice_records (flashcard_id, timestamp, difficulty, old_day, new_day)
		 VALUES (?, ?, ?, ?, ?)`,
		cardID, record.Timestamp, int(record.Difficulty), record.PreviousBucket, record.NewBucket,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: practice record for card %d at %d", ErrConflict, cardID, record.Timestamp)
		}
		return fmt.Errorf("failed to insert practice record: %w", err)
	}

	return nil
}

// WithinTx runs fn against a repository bound to a single transaction
func (r *SQLiteRepository) WithinTx(ctx context.Context, fn func(repo FlashcardRepository) error) error {
	if r.inTx {
		return errors.New("transaction already in progress")
	}
	if err := r.ping(ctx); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op after Commit; releases the connection if fn fails or panics.
	defer func() { _ = tx.Rollback() }()

	if err := fn(&SQLiteRepository{db: r.db, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// buildListQuery constructs the SQL query for listing flashcards
func buildListQuery(filter models.CardFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Search != "" {
		conditions = append(conditions, "(front LIKE ? OR back LIKE ?)")
		args = append(args, "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	if filter.Tag != "" {
		conditions = append(conditions, "(',' || tags || ',') LIKE ?")
		args = append(args, "%,"+filter.Tag+",%")
	}

	query := `SELECT ` + cardColumns + ` FROM flashcards`

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	return query, args
}

// scanCard scans a flashcard row, rejecting rows without a front or back
func scanCard(s scanner) (*models.ScheduledCard, error) {
	var card models.ScheduledCard
	var front, back, hint, tags sql.NullString
	var createdAt sql.NullTime

	err := s.Scan(&card.ID, &front, &back, &hint, &tags, &card.Bucket, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan flashcard: %w", err)
	}

	if err := parseCard(&card.Flashcard, front, back, hint, tags); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		card.CreatedAt = createdAt.Time
	}

	return &card, nil
}

// parseCard fills card from nullable columns. Missing front or back is fatal for the row.
func parseCard(card *models.Flashcard, front, back, hint, tags sql.NullString) error {
	if !front.Valid || !back.Valid || front.String == "" || back.String == "" {
		return fmt.Errorf("%w: id %d: %v", ErrMalformedRow, card.ID, models.ErrMissingSide)
	}

	card.Front = front.String
	card.Back = back.String
	if hint.Valid && hint.String != "" {
		h := hint.String
		card.Hint = &h
	}
	card.Tags = models.SplitTags(tags.String)
	return nil
}

// joinTags encodes tags as a comma-joined column value, NULL when empty
func joinTags(tags []string) sql.NullString {
	if len(tags) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(tags, ","), Valid: true}
}
