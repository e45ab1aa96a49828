package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arisros/one-time-message/internal/models"
)

// memoryMessageRepo is a map-backed MessageRepository. It backs unit tests
// and the `memory` storage backend; nothing survives a restart.
type memoryMessageRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Message
}

// NewMemoryMessageRepository creates an in-memory message repository.
func NewMemoryMessageRepository() MessageRepository {
	return &memoryMessageRepo{rows: make(map[uuid.UUID]models.Message)}
}

func (r *memoryMessageRepo) Create(ctx context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.ID] = *m
	return nil
}

func (r *memoryMessageRepo) Consume(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.rows[id]
	if !ok || !m.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	delete(r.rows, id)
	return &m, nil
}

func (r *memoryMessageRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.rows[id]
	return ok && m.ExpiresAt.After(time.Now()), nil
}

func (r *memoryMessageRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, m := range r.rows {
		if m.ExpiresAt.Before(now) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryMessageRepo) Ping(ctx context.Context) error {
	return nil
}
