package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	// ErrMessageNotFound covers an id that is absent, already consumed, or
	// expired — the three are indistinguishable by design.
	ErrMessageNotFound = errors.New("message_not_found")

	// ErrIDGenerationExhausted means every generated id collided with a live
	// record, which points at a broken random source rather than bad luck.
	ErrIDGenerationExhausted = errors.New("id_generation_exhausted")
)

// AppError carries structured error information from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Err)
		return
	}
	if errors.Is(err, ErrMessageNotFound) {
		RespondErrorWithCode(w, http.StatusNotFound, ErrCodeNotFound, "Message not found")
		return
	}
	RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", err)
}
