package dtos

import "time"

// CreateMessageRequest carries the plaintext to store. The max tag mirrors
// constants.MaxMessageBytes.
type CreateMessageRequest struct {
	Message string `json:"message" validate:"required,max=65536"`
}

type CreateMessageResponse struct {
	ID string `json:"id"`
}

// FetchMessageResponse is the one and only delivery of a message. The stored
// key is never echoed back — the body arrives already decoded.
type FetchMessageResponse struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}
