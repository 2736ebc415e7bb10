package port

import (
	"context"
	"io"
)

// ScanResult is the verdict of a content safety check.
type ScanResult struct {
	Safe   bool
	Detail string
}

// Scanner checks staged content for safety before an asset is created.
// The scanning mechanics live outside this service.
type Scanner interface {
	Scan(ctx context.Context, name string, r io.Reader) (ScanResult, error)
}
