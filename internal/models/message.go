package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single one-time message record. The body is stored XOR-obfuscated
// together with its key, so the obfuscation is reversible by any holder of the
// row — it is not a security boundary. Records are immutable after creation and
// are deleted either by the single consuming read or by the expiry sweep.
type Message struct {
	ID            uuid.UUID `json:"id"`
	Ciphertext    []byte    `json:"ciphertext"`
	Key           []byte    `json:"key"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	WriterAddress string    `json:"writer_address,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
}
