package filecheck

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultStandards covers the common IAB display sizes. It is the table
// used when no standards file is configured; categories are left empty so
// every upload is checked against it.
var DefaultStandards = []Standard{
	{Width: 300, Height: 250, MaxSizeKB: 150},
	{Width: 336, Height: 280, MaxSizeKB: 150},
	{Width: 728, Height: 90, MaxSizeKB: 150},
	{Width: 970, Height: 250, MaxSizeKB: 200},
	{Width: 160, Height: 600, MaxSizeKB: 150},
	{Width: 300, Height: 600, MaxSizeKB: 200},
	{Width: 320, Height: 50, MaxSizeKB: 100},
	{Width: 320, Height: 100, MaxSizeKB: 100},
	{Width: 1080, Height: 1080, MaxSizeKB: 300},
	{Width: 1200, Height: 628, MaxSizeKB: 300},
}

// LoadStandards reads a JSON standards table from disk.
func LoadStandards(path string) ([]Standard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading standards file %q: %w", path, err)
	}
	var standards []Standard
	if err := json.Unmarshal(data, &standards); err != nil {
		return nil, fmt.Errorf("error parsing standards file %q: %w", path, err)
	}
	if len(standards) == 0 {
		return nil, fmt.Errorf("standards file %q holds no entries", path)
	}
	return standards, nil
}
