package routes

const (
	// Health
	Health = "/health"

	// Message endpoints
	Message       = "/api/v1/message"
	MessageByID   = "/api/v1/message/{id}"
	AvailableByID = "/api/v1/available/{id}"
)
