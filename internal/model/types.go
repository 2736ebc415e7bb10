package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

const (
	SessionKindSingle   = "single"
	SessionKindMultiple = "multiple"
	SessionKindArchive  = "archive"
)

const (
	SessionStatusPending    = "pending"
	SessionStatusUploading  = "uploading"
	SessionStatusProcessing = "processing"
	SessionStatusCompleted  = "completed"
	SessionStatusPartial    = "partial"
	SessionStatusFailed     = "failed"
)

const (
	AssetStatusPending   = "pending"
	AssetStatusCompleted = "completed"
	AssetStatusFailed    = "failed"
)

const (
	AssetTypeImage      = "image"
	AssetTypeVideo      = "video"
	AssetTypeHTMLBundle = "html_bundle"
)

const (
	ValidationStatusPending = "pending"
	ValidationStatusValid   = "valid"
	ValidationStatusWarning = "warning"
	ValidationStatusInvalid = "invalid"
)

const (
	JobTypeExtraction = "extraction"
	JobTypeThumbnail  = "thumbnail"
	JobTypeValidation = "validation"
	JobTypeScan       = "scan"
)

const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ItemError records one per-item failure inside a multi-item operation.
type ItemError struct {
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

type ItemErrors []ItemError

func (e ItemErrors) Value() (driver.Value, error) {
	return json.Marshal(e)
}
func (e *ItemErrors) Scan(src interface{}) error {
	if src == nil {
		*e = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("ItemErrors.Scan: expected []byte, got %T", src)
	}
	return json.Unmarshal(data, e)
}
