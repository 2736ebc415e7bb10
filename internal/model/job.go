package model

import (
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// ProcessingJob is one persisted unit of background work. A failed job can
// be reset to processing and resumed; retries mutate this row, they never
// create a new one.
type ProcessingJob struct {
	ID           uuid.UUID  `json:"id"`
	SessionID    uuid.UUID  `json:"session_id"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	CurrentIndex int        `json:"current_index"`
	TotalItems   int        `json:"total_items"`
	ItemErrors   ItemErrors `json:"item_errors,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	FailedIndex  *int       `json:"failed_index,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
