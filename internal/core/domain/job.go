package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job is a posting owned by a company. The realtime layer only ever reads
// jobs; creating and editing them belongs to the REST API.
type Job struct {
	ID          int64
	CompanyID   uuid.UUID
	CompanyName string
	Title       string
	Location    string
	IsOpen      bool
	CreatedAt   time.Time
}
