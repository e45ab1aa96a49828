package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/arisros/one-time-message/internal/repositories"
	"github.com/arisros/one-time-message/internal/utils"
)

const cleanupRetryDelay = 3 * time.Second

// MessageCleanupService sweeps expired records on a schedule.
type MessageCleanupService interface {
	PurgeExpired(ctx context.Context) error
}

type messageCleanupService struct {
	messageRepo repositories.MessageRepository
}

func NewMessageCleanupService(messageRepo repositories.MessageRepository) MessageCleanupService {
	return &messageCleanupService{messageRepo: messageRepo}
}

// runWithRetry executes op(ctx) and, if it returns a transient network error
// (EOF, pgconn safe-to-retry, or the common closed-connection message), waits
// a moment then retries once.
func (s *messageCleanupService) runWithRetry(
	ctx context.Context,
	op func(context.Context) error,
) error {
	if err := op(ctx); err != nil {
		if errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
			strings.Contains(err.Error(), "connection was closed") {
			utils.Logger.WithError(err).Warn("message purge hit transient DB error; retrying once")
			time.Sleep(cleanupRetryDelay)
			return op(ctx)
		}
		return err
	}
	return nil
}

// PurgeExpired deletes every record whose expiry has passed. Records created
// after the sweep's cutoff are untouched, so it is safe next to live traffic.
func (s *messageCleanupService) PurgeExpired(ctx context.Context) error {
	var purged int64
	op := func(ctx context.Context) error {
		n, err := s.messageRepo.DeleteExpired(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		purged = n
		return nil
	}

	if err := s.runWithRetry(ctx, op); err != nil {
		utils.Logger.WithError(err).Error("Failed to purge expired messages")
		return err
	}

	if purged > 0 {
		utils.Logger.Infof("Expiry sweep removed %d message(s)", purged)
	} else {
		utils.Logger.Debug("Expiry sweep found nothing to remove")
	}
	return nil
}
