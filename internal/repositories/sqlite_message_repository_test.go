package repositories

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arisros/one-time-message/internal/models"
)

func newSQLiteRepo(t *testing.T) MessageRepository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "messages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteMessageRepository(db)
}

func newMessage(ttl time.Duration) *models.Message {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Message{
		ID:            uuid.New(),
		Ciphertext:    []byte{0x10, 0x20, 0x30},
		Key:           []byte{0x0a, 0x0b, 0x0c},
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
		WriterAddress: "198.51.100.7",
		UserAgent:     "sqlite-test",
	}
}

func TestSQLiteCreateAndConsume(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	m := newMessage(time.Hour)
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.Consume(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.Ciphertext, got.Ciphertext)
	assert.Equal(t, m.Key, got.Key)
	assert.True(t, m.CreatedAt.Equal(got.CreatedAt), "created_at round-trip")
	assert.True(t, m.ExpiresAt.Equal(got.ExpiresAt), "expires_at round-trip")
	assert.Equal(t, m.WriterAddress, got.WriterAddress)
	assert.Equal(t, m.UserAgent, got.UserAgent)

	// Consumed means gone.
	again, err := repo.Consume(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestSQLiteConsumeUnknown(t *testing.T) {
	repo := newSQLiteRepo(t)

	got, err := repo.Consume(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteConsumeExpired(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	m := newMessage(-time.Minute)
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.Consume(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "expired rows are invisible even before the sweep")
}

func TestSQLiteExists(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	m := newMessage(time.Hour)
	require.NoError(t, repo.Create(ctx, m))

	exists, err := repo.Exists(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// A probe must not consume.
	exists, err = repo.Exists(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Consume(ctx, m.ID)
	require.NoError(t, err)

	exists, err = repo.Exists(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteDeleteExpired(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	expired := newMessage(-time.Minute)
	live := newMessage(time.Hour)
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	now := time.Now().UTC()
	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// Idempotent for the same cutoff.
	n, err = repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	exists, err := repo.Exists(ctx, live.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSQLiteConcurrentConsumeSingleWinner(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	m := newMessage(time.Hour)
	require.NoError(t, repo.Create(ctx, m))

	const callers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.Consume(ctx, m.ID)
			assert.NoError(t, err)
			if got != nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins, "the delete-returning statement admits exactly one winner")
}

func TestSQLitePing(t *testing.T) {
	repo := newSQLiteRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
