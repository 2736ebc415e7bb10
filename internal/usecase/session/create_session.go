package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/filecheck"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
)

const (
	// MaxSessionFiles and MaxSessionBytes are the hard per-session caps,
	// enforced before any transfer begins.
	MaxSessionFiles = 500
	MaxSessionBytes = int64(500) << 20

	// MaxBatchFiles caps one multi-file batch.
	MaxBatchFiles = 50

	// TargetExpiry is how long a presigned write target stays valid. The
	// server enforces expiry regardless of client behaviour.
	TargetExpiry = 15 * time.Minute

	// anonSessionTTL is how long an ownerless session survives.
	anonSessionTTL = 48 * time.Hour
)

type sessionCreatorSrv struct {
	sessions      port.SessionRepository
	assets        port.AssetRepository
	strg          port.Storage
	genUUID       port.UUIDGen
	stagingBucket string
}

// compile-time check: *sessionCreatorSrv must satisfy port.SessionCreator
var _ port.SessionCreator = (*sessionCreatorSrv)(nil)

// NewSessionCreator constructs a SessionCreator implementation.
func NewSessionCreator(sessions port.SessionRepository, assets port.AssetRepository, strg port.Storage, genUUID port.UUIDGen, stagingBucket string) port.SessionCreator {
	return &sessionCreatorSrv{sessions, assets, strg, genUUID, stagingBucket}
}

// CreateSession validates the declared file set against the hard ceilings,
// persists the session and its pending assets, and hands out one
// time-limited presigned write target per file. Duplicate filenames are
// resolved here, before any byte is transferred.
func (s *sessionCreatorSrv) CreateSession(ctx context.Context, in port.CreateSessionInput) (port.CreateSessionOutput, error) {
	if err := checkCeilings(in); err != nil {
		return port.CreateSessionOutput{}, err
	}

	var totalBytes int64
	for _, f := range in.Files {
		totalBytes += f.SizeBytes
	}

	now := time.Now().UTC()
	sess := &model.UploadSession{
		ID:         s.genUUID(),
		OwnerID:    in.OwnerID,
		Kind:       in.Kind,
		Status:     model.SessionStatusPending,
		TotalFiles: len(in.Files),
		TotalBytes: totalBytes,
	}
	if in.OwnerID == nil {
		expiry := now.Add(anonSessionTTL)
		sess.AnonExpiresAt = &expiry
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return port.CreateSessionOutput{}, err
	}

	taken := make(map[string]struct{}, len(in.Files))
	targets := make([]port.FileTarget, 0, len(in.Files))
	expiry := now.Add(TargetExpiry)

	for _, f := range in.Files {
		resolved := GenerateUniqueFilename(f.Name, taken)
		taken[strings.ToLower(resolved)] = struct{}{}

		assetID := s.genUUID()
		mime := f.MimeType
		asset := &model.CreativeAsset{
			ID:               assetID,
			SessionID:        sess.ID,
			OriginalFilename: f.Name,
			StorageFilename:  resolved,
			MimeType:         &mime,
			StagingKey:       assetID.String(),
			Status:           model.AssetStatusPending,
			ValidationStatus: model.ValidationStatusPending,
		}
		if err := s.assets.Create(ctx, asset); err != nil {
			return port.CreateSessionOutput{}, err
		}

		url, err := s.strg.GeneratePresignedUploadURL(ctx, s.stagingBucket, asset.StagingKey, TargetExpiry)
		if err != nil {
			return port.CreateSessionOutput{}, err
		}

		targets = append(targets, port.FileTarget{
			AssetID:  assetID,
			Filename: resolved,
			URL:      url,
			Expiry:   expiry,
		})
	}

	return port.CreateSessionOutput{SessionID: sess.ID, Targets: targets}, nil
}

// checkCeilings rejects the whole session before any work starts.
func checkCeilings(in port.CreateSessionInput) error {
	if len(in.Files) == 0 {
		return ErrNoFiles
	}
	if len(in.Files) > MaxSessionFiles {
		return fmt.Errorf("%w: got %d files", ErrTooManyFiles, len(in.Files))
	}

	switch in.Kind {
	case model.SessionKindSingle, model.SessionKindArchive:
		if len(in.Files) != 1 {
			return fmt.Errorf("%w: kind %q requires exactly one file", ErrWrongKind, in.Kind)
		}
	case model.SessionKindMultiple:
		if len(in.Files) > MaxBatchFiles {
			return fmt.Errorf("%w: got %d files", ErrBatchTooLarge, len(in.Files))
		}
	default:
		return fmt.Errorf("unknown session kind %q", in.Kind)
	}

	var totalBytes int64
	for _, f := range in.Files {
		if st := filecheck.CheckSize(f.SizeBytes); st == filecheck.StatusInvalid {
			return fmt.Errorf("file %q is %d bytes; the ceiling is %d bytes", f.Name, f.SizeBytes, filecheck.MaxFileSize)
		}
		if st := filecheck.CheckMimeType(f.MimeType); st == filecheck.StatusInvalid {
			return fmt.Errorf("%w: %q for file %q", ErrMimeNotAllowed, f.MimeType, f.Name)
		}
		totalBytes += f.SizeBytes
	}
	if totalBytes > MaxSessionBytes {
		return fmt.Errorf("%w: got %d bytes", ErrTooManyBytes, totalBytes)
	}
	return nil
}
