package model

import (
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// UploadSession tracks one upload operation from creation to completion.
// Anonymous sessions carry an expiry instead of an owner id.
type UploadSession struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       *string    `json:"owner_id,omitempty"`
	AnonExpiresAt *time.Time `json:"anon_expires_at,omitempty"`
	Kind          string     `json:"kind"`
	Status        string     `json:"status"`
	TotalFiles    int        `json:"total_files"`
	TotalBytes    int64      `json:"total_bytes"`
	UploadedBytes int64      `json:"uploaded_bytes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// CreativeSet is a named grouping of assets inside a session, either
// detected from folder naming or the lazily created "Default" set.
type CreativeSet struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	Name         string    `json:"name"`
	OriginalPath *string   `json:"original_path,omitempty"`
	AssetCount   int       `json:"asset_count"`
	CreatedAt    time.Time `json:"created_at"`
}
