package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/arisros/one-time-message/internal/models"
)

// MessageRepository manages the lifecycle of one-time message records.
type MessageRepository interface {
	// Create stores a new message record with its precomputed expiry.
	Create(ctx context.Context, m *models.Message) error
	// Consume retrieves a message by its ID and immediately deletes it so it
	// can never be read again. Exactly one of any set of concurrent callers
	// for the same id gets the record; everyone else — and any caller after
	// expiry — gets (nil, nil).
	Consume(ctx context.Context, id uuid.UUID) (*models.Message, error)
	// Exists reports whether a live (unconsumed, unexpired) record is
	// present. It never mutates state.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// DeleteExpired removes every record whose expires_at precedes now and
	// returns the number deleted. Safe to run concurrently with live traffic
	// and idempotent for a fixed now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// Ping verifies the underlying store is reachable.
	Ping(ctx context.Context) error
}

type postgresMessageRepo struct {
	db DB
}

// NewPostgresMessageRepository creates a pgx-backed message repository.
func NewPostgresMessageRepository(db DB) MessageRepository {
	return &postgresMessageRepo{db: db}
}

func (r *postgresMessageRepo) Create(ctx context.Context, m *models.Message) error {
	q := `
        INSERT INTO messages (id, ciphertext, key, created_at, expires_at, writer_address, user_agent)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.Exec(ctx, q,
		m.ID,
		m.Ciphertext,
		m.Key,
		m.CreatedAt,
		m.ExpiresAt,
		m.WriterAddress,
		m.UserAgent,
	)
	return err
}

func (r *postgresMessageRepo) Consume(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	// Single-statement delete-and-return: the row lock taken by DELETE is
	// what guarantees at-most-once delivery under concurrent reads.
	q := `
        DELETE FROM messages
        WHERE id = $1 AND expires_at > NOW()
        RETURNING id, ciphertext, key, created_at, expires_at, writer_address, user_agent
    `
	row := r.db.QueryRow(ctx, q, id)

	var m models.Message
	err := row.Scan(
		&m.ID,
		&m.Ciphertext,
		&m.Key,
		&m.CreatedAt,
		&m.ExpiresAt,
		&m.WriterAddress,
		&m.UserAgent,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresMessageRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	q := `SELECT EXISTS(SELECT 1 FROM messages WHERE id = $1 AND expires_at > NOW())`
	var exists bool
	if err := r.db.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresMessageRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *postgresMessageRepo) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRow(ctx, `SELECT 1`).Scan(&one)
}
