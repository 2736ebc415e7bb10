package filecheck

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/fhuszti/creatives-ms-go/internal/model"
)

// Status is the outcome of one check. Invalid outranks warning, warning
// outranks valid.
type Status string

const (
	StatusValid   Status = "valid"
	StatusWarning Status = "warning"
	StatusInvalid Status = "invalid"
)

const (
	// MaxFileSize is the hard per-file ceiling.
	MaxFileSize = int64(500) << 20
	MinFileSize = int64(1)

	// FallbackMaxSizeKB bounds files whose dimensions match no standard.
	FallbackMaxSizeKB = 2048

	// SignatureLen is how many leading bytes CheckSignature needs.
	SignatureLen = 32
)

var allowedMimeTypes = map[string]string{
	"image/jpeg":                   ".jpg",
	"image/png":                    ".png",
	"image/gif":                    ".gif",
	"image/webp":                   ".webp",
	"video/mp4":                    ".mp4",
	"video/webm":                   ".webm",
	"video/quicktime":              ".mov",
	"text/html":                    ".html",
	"application/zip":              ".zip",
	"application/x-zip-compressed": ".zip",
}

// magic-byte prefixes per MIME, offset-aware
type signature struct {
	offset int
	prefix []byte
}

var signatures = map[string][]signature{
	"image/jpeg":                   {{0, []byte{0xFF, 0xD8, 0xFF}}},
	"image/png":                    {{0, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}}},
	"image/gif":                    {{0, []byte("GIF8")}},
	"image/webp":                   {{0, []byte("RIFF")}, {8, []byte("WEBP")}},
	"video/mp4":                    {{4, []byte("ftyp")}},
	"video/quicktime":              {{4, []byte("ftyp")}},
	"video/webm":                   {{0, []byte{0x1A, 0x45, 0xDF, 0xA3}}},
	"application/zip":              {{0, []byte("PK\x03\x04")}},
	"application/x-zip-compressed": {{0, []byte("PK\x03\x04")}},
}

// IsMimeTypeAllowed reports whether the declared MIME type is whitelisted.
func IsMimeTypeAllowed(mimeType string) bool {
	_, ok := allowedMimeTypes[strings.ToLower(mimeType)]
	return ok
}

// MimeTypeToExtension maps an allowed MIME type to its storage extension.
func MimeTypeToExtension(mimeType string) (string, error) {
	ext, ok := allowedMimeTypes[strings.ToLower(mimeType)]
	if !ok {
		return "", fmt.Errorf("unsupported mime-type %q", mimeType)
	}
	return ext, nil
}

// DetectedType derives the asset type from an allowed MIME type.
func DetectedType(mimeType string) (string, error) {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return model.AssetTypeImage, nil
	case strings.HasPrefix(mt, "video/"):
		return model.AssetTypeVideo, nil
	case mt == "text/html":
		return model.AssetTypeHTMLBundle, nil
	case mt == "application/zip", mt == "application/x-zip-compressed":
		return model.AssetTypeHTMLBundle, nil
	default:
		return "", fmt.Errorf("no asset type for mime-type %q", mimeType)
	}
}

// CheckMimeType validates the declared MIME type against the whitelist.
func CheckMimeType(declaredMime string) Status {
	if IsMimeTypeAllowed(declaredMime) {
		return StatusValid
	}
	return StatusInvalid
}

// CheckSize validates the byte size against the hard ceiling.
func CheckSize(sizeBytes int64) Status {
	if sizeBytes < MinFileSize || sizeBytes > MaxFileSize {
		return StatusInvalid
	}
	return StatusValid
}

// CheckSignature compares the first bytes of the file against the known
// magic bytes for the declared MIME type. HTML has no magic bytes and is
// exempt. An unknown MIME type yields a warning, never a failure.
func CheckSignature(head []byte, declaredMime string) Status {
	mt := strings.ToLower(declaredMime)
	if mt == "text/html" {
		return StatusValid
	}
	sigs, ok := signatures[mt]
	if !ok {
		return StatusWarning
	}
	for _, sig := range sigs {
		end := sig.offset + len(sig.prefix)
		if len(head) < end || !bytes.Equal(head[sig.offset:end], sig.prefix) {
			return StatusInvalid
		}
	}
	return StatusValid
}

// Standard is one externally supplied dimension standard. An empty
// category applies to every upload.
type Standard struct {
	Category  string `json:"category"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MaxSizeKB int    `json:"max_size_kb"`
}

// CheckDimensions looks the dimensions up in the standards table
// (exact match first); non-standard dimensions are tolerated as long as the
// byte size stays under the fallback ceiling.
func CheckDimensions(width, height, sizeKB int, category string, standards []Standard) Status {
	for _, std := range standards {
		if !strings.EqualFold(std.Category, category) {
			continue
		}
		if std.Width == width && std.Height == height {
			if sizeKB <= std.MaxSizeKB {
				return StatusValid
			}
			return StatusWarning
		}
	}
	if sizeKB <= FallbackMaxSizeKB {
		return StatusWarning
	}
	return StatusInvalid
}

// ExtractImageMeta decodes only the image header to get its dimensions.
func ExtractImageMeta(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("error decoding image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func worst(a, b Status) Status {
	rank := map[Status]int{StatusValid: 0, StatusWarning: 1, StatusInvalid: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// Report aggregates the individual check outcomes.
type Report struct {
	Status Status
	Notes  []string
}

// Input carries everything Evaluate needs about one file. Width/Height are
// nil when metadata extraction failed or was not attempted.
type Input struct {
	DeclaredMime string
	SizeBytes    int64
	Head         []byte
	Width        *int
	Height       *int
	Category     string
	Standards    []Standard
}

// Evaluate runs MIME → size → signature in order, short-circuiting on the
// first invalid, then checks dimensions for images and videos when
// metadata extraction succeeded. A failed extraction downgrades to a
// warning, never a hard failure. The overall status is the worst of all
// individual statuses.
func Evaluate(in Input) Report {
	rep := Report{Status: StatusValid}

	if st := CheckMimeType(in.DeclaredMime); st == StatusInvalid {
		return Report{Status: StatusInvalid, Notes: []string{fmt.Sprintf("mime-type %q is not allowed", in.DeclaredMime)}}
	}
	if st := CheckSize(in.SizeBytes); st == StatusInvalid {
		return Report{Status: StatusInvalid, Notes: []string{fmt.Sprintf("file size %d bytes is outside the allowed range (max %d bytes)", in.SizeBytes, MaxFileSize)}}
	}
	if st := CheckSignature(in.Head, in.DeclaredMime); st != StatusValid {
		rep.Status = worst(rep.Status, st)
		if st == StatusInvalid {
			return Report{Status: StatusInvalid, Notes: []string{fmt.Sprintf("file content does not match declared mime-type %q", in.DeclaredMime)}}
		}
		rep.Notes = append(rep.Notes, fmt.Sprintf("no known signature for mime-type %q", in.DeclaredMime))
	}

	detected, err := DetectedType(in.DeclaredMime)
	if err != nil || (detected != model.AssetTypeImage && detected != model.AssetTypeVideo) {
		return rep
	}

	if in.Width == nil || in.Height == nil {
		rep.Status = worst(rep.Status, StatusWarning)
		rep.Notes = append(rep.Notes, "could not extract dimensions; skipping standards check")
		return rep
	}

	st := CheckDimensions(*in.Width, *in.Height, int(in.SizeBytes/1024), in.Category, in.Standards)
	rep.Status = worst(rep.Status, st)
	switch st {
	case StatusWarning:
		rep.Notes = append(rep.Notes, fmt.Sprintf("dimensions %dx%d match no standard for category %q", *in.Width, *in.Height, in.Category))
	case StatusInvalid:
		rep.Notes = append(rep.Notes, fmt.Sprintf("non-standard dimensions %dx%d and file too large for the fallback ceiling", *in.Width, *in.Height))
	}
	return rep
}
