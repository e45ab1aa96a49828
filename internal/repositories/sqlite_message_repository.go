package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/arisros/one-time-message/internal/models"
)

// sqlite keeps the whole store in one file, which matches the deployment
// story of a single-node message drop. Timestamps are stored as unix
// nanoseconds so expiry comparisons are plain integer comparisons.
var sqliteMigrations = []string{
	`
CREATE TABLE IF NOT EXISTS messages (
  id             TEXT PRIMARY KEY,
  ciphertext     BLOB NOT NULL,
  key            BLOB NOT NULL,
  created_at     INTEGER NOT NULL,
  expires_at     INTEGER NOT NULL,
  writer_address TEXT NOT NULL DEFAULT '',
  user_agent     TEXT NOT NULL DEFAULT ''
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_expires_at
ON messages (expires_at);
`,
}

type sqliteMessageRepo struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the single-file store at path and applies the
// schema. The returned *sql.DB is owned by the caller.
func OpenSQLite(path string) (*sql.DB, error) {
	// _busy_timeout keeps concurrent consumers queueing on the write lock
	// instead of failing with SQLITE_BUSY.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %q: %w", path, err)
	}

	for i, stmt := range sqliteMigrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply sqlite migration %d: %w", i, err)
		}
	}
	return db, nil
}

// NewSQLiteMessageRepository creates a message repository on an opened
// single-file sqlite database.
func NewSQLiteMessageRepository(db *sql.DB) MessageRepository {
	return &sqliteMessageRepo{db: db}
}

func (r *sqliteMessageRepo) Create(ctx context.Context, m *models.Message) error {
	q := `
        INSERT INTO messages (id, ciphertext, key, created_at, expires_at, writer_address, user_agent)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, q,
		m.ID.String(),
		m.Ciphertext,
		m.Key,
		m.CreatedAt.UnixNano(),
		m.ExpiresAt.UnixNano(),
		m.WriterAddress,
		m.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert message %s: %w", m.ID, err)
	}
	return nil
}

func (r *sqliteMessageRepo) Consume(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	// DELETE ... RETURNING is a single statement, so sqlite's write lock
	// makes the read-then-destroy atomic for free.
	q := `
        DELETE FROM messages
        WHERE id = ? AND expires_at > ?
        RETURNING id, ciphertext, key, created_at, expires_at, writer_address, user_agent
    `
	row := r.db.QueryRowContext(ctx, q, id.String(), time.Now().UnixNano())

	var (
		m         models.Message
		rawID     string
		createdAt int64
		expiresAt int64
	)
	err := row.Scan(
		&rawID,
		&m.Ciphertext,
		&m.Key,
		&createdAt,
		&expiresAt,
		&m.WriterAddress,
		&m.UserAgent,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consume message %s: %w", id, err)
	}

	m.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("malformed id in messages table: %w", err)
	}
	m.CreatedAt = time.Unix(0, createdAt).UTC()
	m.ExpiresAt = time.Unix(0, expiresAt).UTC()
	return &m, nil
}

func (r *sqliteMessageRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	q := `SELECT EXISTS(SELECT 1 FROM messages WHERE id = ? AND expires_at > ?)`
	var exists int
	err := r.db.QueryRowContext(ctx, q, id.String(), time.Now().UnixNano()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check message %s: %w", id, err)
	}
	return exists == 1, nil
}

func (r *sqliteMessageRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE expires_at < ?`, now.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purge expired messages: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read rows affected for expiry purge: %w", err)
	}
	return rowsAffected, nil
}

func (r *sqliteMessageRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
