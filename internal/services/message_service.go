package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arisros/one-time-message/internal/cipher"
	"github.com/arisros/one-time-message/internal/constants"
	"github.com/arisros/one-time-message/internal/models"
	"github.com/arisros/one-time-message/internal/repositories"
	"github.com/arisros/one-time-message/internal/utils"
)

// MessageMetadata is the unauthenticated provenance captured from the
// creating request.
type MessageMetadata struct {
	WriterAddress string
	UserAgent     string
}

// MessageService owns the one-time message lifecycle: create, read-once,
// presence probe.
type MessageService interface {
	// Create obfuscates plaintext under a fresh same-length key and persists
	// the record with a 24h expiry. Returns the opaque id the link is built
	// from.
	Create(ctx context.Context, plaintext string, meta MessageMetadata) (uuid.UUID, error)

	// FetchAndConsume returns the decoded plaintext and deletes the record
	// in the same storage operation. A second call — or a call after expiry —
	// returns utils.ErrMessageNotFound.
	FetchAndConsume(ctx context.Context, id uuid.UUID) (string, *models.Message, error)

	// Exists reports whether the id still points at a live record without
	// consuming it.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Ping probes the storage backend.
	Ping(ctx context.Context) error
}

type messageService struct {
	messageRepo repositories.MessageRepository
}

func NewMessageService(messageRepo repositories.MessageRepository) MessageService {
	return &messageService{messageRepo: messageRepo}
}

func (s *messageService) Create(ctx context.Context, plaintext string, meta MessageMetadata) (uuid.UUID, error) {
	key, err := cipher.NewKey(len(plaintext))
	if err != nil {
		return uuid.Nil, err
	}

	id, err := s.freshID(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now().UTC()
	m := &models.Message{
		ID:            id,
		Ciphertext:    cipher.Encode([]byte(plaintext), key),
		Key:           key,
		CreatedAt:     now,
		ExpiresAt:     now.Add(constants.MessageTTL),
		WriterAddress: meta.WriterAddress,
		UserAgent:     meta.UserAgent,
	}

	if err := s.messageRepo.Create(ctx, m); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// freshID draws random ids until one is unused. The uuid space makes a
// collision all but impossible, so the loop exists to turn "all but" into
// "checked" rather than to handle a realistic case.
func (s *messageService) freshID(ctx context.Context) (uuid.UUID, error) {
	for i := 0; i < constants.IDGenerationAttempts; i++ {
		id := uuid.New()
		taken, err := s.messageRepo.Exists(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		if !taken {
			return id, nil
		}
	}
	return uuid.Nil, utils.ErrIDGenerationExhausted
}

func (s *messageService) FetchAndConsume(ctx context.Context, id uuid.UUID) (string, *models.Message, error) {
	m, err := s.messageRepo.Consume(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if m == nil {
		return "", nil, utils.ErrMessageNotFound
	}
	return string(cipher.Decode(m.Ciphertext, m.Key)), m, nil
}

func (s *messageService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.messageRepo.Exists(ctx, id)
}

func (s *messageService) Ping(ctx context.Context) error {
	return s.messageRepo.Ping(ctx)
}
