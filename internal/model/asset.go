package model

import (
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// CreativeAsset is one validated file tracked by the pipeline. A row is
// created at session creation (status pending) and completed once the file
// has been transferred, scanned and promoted out of staging.
type CreativeAsset struct {
	ID               uuid.UUID  `json:"id"`
	SetID            *uuid.UUID `json:"set_id,omitempty"`
	SessionID        uuid.UUID  `json:"session_id"`
	OriginalFilename string     `json:"original_filename"`
	StorageFilename  string     `json:"storage_filename"`
	Type             *string    `json:"type,omitempty"`
	MimeType         *string    `json:"mime_type,omitempty"`
	SizeBytes        *int64     `json:"size_bytes,omitempty"`
	Width            *int       `json:"width,omitempty"`
	Height           *int       `json:"height,omitempty"`
	DurationSecs     *float64   `json:"duration_secs,omitempty"`
	StagingKey       string     `json:"staging_key"`
	Bucket           *string    `json:"bucket,omitempty"`
	ObjectKey        *string    `json:"object_key,omitempty"`
	Status           string     `json:"status"`
	FailureMessage   *string    `json:"failure_message,omitempty"`
	ValidationStatus string     `json:"validation_status"`
	ValidationNotes  *string    `json:"validation_notes,omitempty"`
	IsBundle         bool       `json:"is_bundle"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FolderNode is one folder of the (possibly flattened) extracted hierarchy.
// OriginalPath is only set when flattening re-projected the node.
type FolderNode struct {
	ID           uuid.UUID  `json:"id"`
	SetID        uuid.UUID  `json:"set_id"`
	Name         string     `json:"name"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	Depth        int        `json:"depth"`
	Path         string     `json:"path"`
	OriginalPath *string    `json:"original_path,omitempty"`
	AssetCount   int        `json:"asset_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Thumbnail is the single derived preview of an asset.
type Thumbnail struct {
	ID        uuid.UUID `json:"id"`
	AssetID   uuid.UUID `json:"asset_id"`
	Bucket    string    `json:"bucket"`
	ObjectKey string    `json:"object_key"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	SizeBytes int64     `json:"size_bytes"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
}
