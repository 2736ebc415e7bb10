package scanner

import (
	"context"
	"io"

	"github.com/fhuszti/creatives-ms-go/internal/port"
)

// AlwaysSafe is the scanner used when no external scanning service is
// configured. Everything passes.
type AlwaysSafe struct{}

// compile-time check: *AlwaysSafe must satisfy port.Scanner
var _ port.Scanner = (*AlwaysSafe)(nil)

func NewAlwaysSafe() *AlwaysSafe { return &AlwaysSafe{} }

func (s *AlwaysSafe) Scan(ctx context.Context, name string, r io.Reader) (port.ScanResult, error) {
	return port.ScanResult{Safe: true}, nil
}
