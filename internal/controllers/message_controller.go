package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/arisros/one-time-message/internal/constants"
	"github.com/arisros/one-time-message/internal/dtos"
	"github.com/arisros/one-time-message/internal/services"
	"github.com/arisros/one-time-message/internal/utils"
)

type MessageController struct {
	svc services.MessageService
}

func NewMessageController(s services.MessageService) *MessageController {
	return &MessageController{svc: s}
}

var validate = validator.New()

// -----------------------------------------------------------------------------
// POST /api/v1/message
// -----------------------------------------------------------------------------
func (c *MessageController) CreateMessage(w http.ResponseWriter, r *http.Request) {
	// Cap the body read before decoding; the validator enforces the exact
	// message limit, this just stops unbounded payloads early.
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxMessageBytes+4096)

	var req dtos.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Message required / too large", err,
		)
		return
	}

	meta := services.MessageMetadata{
		WriterAddress: utils.DetectIP(r),
		UserAgent:     r.UserAgent(),
	}

	id, err := c.svc.Create(r.Context(), req.Message, meta)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.CreateMessageResponse{ID: id.String()})
}

// -----------------------------------------------------------------------------
// GET /api/v1/message/{id} — consuming: a 200 here deletes the record
// -----------------------------------------------------------------------------
func (c *MessageController) FetchMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	plaintext, record, err := c.svc.FetchAndConsume(r.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrMessageNotFound) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Message not found")
			return
		}
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.FetchMessageResponse{
		Message:   plaintext,
		CreatedAt: record.CreatedAt,
	})
}

// -----------------------------------------------------------------------------
// GET /api/v1/available/{id} — non-consuming presence probe
// -----------------------------------------------------------------------------
func (c *MessageController) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	exists, err := c.svc.Exists(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if !exists {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Message not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.AvailabilityResponse{Available: true})
}

// parseID reads the {id} route variable. An unparseable id is reported as
// not-found, indistinguishable from an unknown one.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Message not found")
		return uuid.Nil, false
	}
	return id, true
}
