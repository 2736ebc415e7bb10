package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

const (
	// MaxEntries is the hard cap on decoded file entries. Archives with
	// more entries are processed up to the cap and flagged with a warning.
	MaxEntries = 500

	// MaxBombRatio is the maximum allowed uncompressed:compressed ratio.
	MaxBombRatio = 100

	// maxEntryBytes bounds one decoded entry.
	maxEntryBytes = int64(512) << 20
)

var (
	ErrCorrupt   = errors.New("archive: cannot be parsed")
	ErrEncrypted = errors.New("archive: password-protected; remove password protection and re-upload")
	ErrBombRatio = errors.New("archive: compression ratio too high")
)

// EntryInfo describes one file in the archive without its payload.
type EntryInfo struct {
	Path   string
	Name   string
	Folder string
	Depth  int
}

// Entry is one decoded file from the archive.
type Entry struct {
	EntryInfo
	Data      []byte
	SizeBytes int64
}

// EntryError records a non-fatal per-entry failure.
type EntryError struct {
	Index int
	Path  string
	Err   string
}

// Archive is an opened zip. Open reads only the directory metadata;
// payloads are decoded one entry at a time through ReadEntry, so at most
// one expanded entry is resident at once.
type Archive struct {
	Manifest      []EntryInfo
	Folders       []string
	Warnings      []string
	EntryErrors   []EntryError
	TotalEntries  int
	HasHTMLBundle bool

	files []*zip.File
}

// Open parses a zip archive held in memory and builds its manifest.
// Structural failures (corrupt header, encryption, bomb ratio) are fatal;
// individual entry path failures are collected and never abort the run.
func Open(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var compressed, uncompressed uint64
	for _, f := range zr.File {
		// bit 0 of the general-purpose flags is the format's encryption flag
		if f.Flags&0x1 != 0 {
			return nil, ErrEncrypted
		}
		compressed += f.CompressedSize64
		uncompressed += f.UncompressedSize64
	}
	if compressed > 0 && uncompressed/compressed > MaxBombRatio {
		return nil, fmt.Errorf("%w: %d:%d exceeds %d:1", ErrBombRatio, uncompressed, compressed, MaxBombRatio)
	}

	ar := &Archive{}
	folderSet := make(map[string]struct{})

	var candidates []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || isJunk(f.Name) {
			continue
		}
		candidates = append(candidates, f)
	}
	ar.TotalEntries = len(candidates)

	for i, f := range candidates {
		if len(ar.Manifest) >= MaxEntries {
			ar.Warnings = append(ar.Warnings, fmt.Sprintf(
				"archive holds %d entries; only the first %d were processed", ar.TotalEntries, MaxEntries))
			break
		}

		cleaned, err := cleanPath(f.Name)
		if err != nil {
			ar.EntryErrors = append(ar.EntryErrors, EntryError{Index: i, Path: f.Name, Err: err.Error()})
			continue
		}

		name := path.Base(cleaned)
		folder := path.Dir(cleaned)
		if folder == "." {
			folder = ""
		}

		ar.Manifest = append(ar.Manifest, EntryInfo{
			Path:   cleaned,
			Name:   name,
			Folder: folder,
			Depth:  segmentCount(folder),
		})
		ar.files = append(ar.files, f)

		if folder != "" {
			folderSet[folder] = struct{}{}
		}
		if strings.EqualFold(name, "index.html") {
			ar.HasHTMLBundle = true
		}
	}

	for folder := range folderSet {
		ar.Folders = append(ar.Folders, folder)
	}
	sort.Strings(ar.Folders)

	return ar, nil
}

// ReadEntry decodes one manifest entry's payload.
func (a *Archive) ReadEntry(i int) (Entry, error) {
	if i < 0 || i >= len(a.Manifest) {
		return Entry{}, fmt.Errorf("entry index %d out of range (%d entries)", i, len(a.Manifest))
	}

	rc, err := a.files[i].Open()
	if err != nil {
		return Entry{}, fmt.Errorf("open entry: %w", err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		return Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	if int64(len(data)) > maxEntryBytes {
		return Entry{}, fmt.Errorf("entry exceeds %d bytes", maxEntryBytes)
	}

	return Entry{
		EntryInfo: a.Manifest[i],
		Data:      data,
		SizeBytes: int64(len(data)),
	}, nil
}

func cleanPath(name string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("unsafe entry path %q", name)
	}
	return cleaned, nil
}

// isJunk filters the metadata entries archive tools sprinkle around.
func isJunk(name string) bool {
	normalized := strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(normalized, "__MACOSX/") {
		return true
	}
	base := path.Base(normalized)
	return base == ".DS_Store" || strings.HasPrefix(base, "._") || base == "Thumbs.db"
}

func segmentCount(folder string) int {
	if folder == "" {
		return 0
	}
	return len(strings.Split(folder, "/"))
}
