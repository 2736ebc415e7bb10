package upload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/fhuszti/creatives-ms-go/internal/filecheck"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

var (
	ErrAssetNotFound   = errors.New("upload: asset not found")
	ErrSessionMismatch = errors.New("upload: asset does not belong to this session")
	ErrUnsafeContent   = errors.New("upload: file rejected by the content scan")
)

// DefaultSetName is the creative set non-archive uploads land in.
const DefaultSetName = "Default"

type uploadFinaliserSrv struct {
	sessions        port.SessionRepository
	sets            port.SetRepository
	assets          port.AssetRepository
	strg            port.Storage
	scanner         port.Scanner
	genUUID         port.UUIDGen
	stagingBucket   string
	creativesBucket string
	standards       []filecheck.Standard
}

// compile-time check: *uploadFinaliserSrv must satisfy port.UploadFinaliser
var _ port.UploadFinaliser = (*uploadFinaliserSrv)(nil)

// NewUploadFinaliser constructs an UploadFinaliser implementation.
func NewUploadFinaliser(sessions port.SessionRepository, sets port.SetRepository, assets port.AssetRepository, strg port.Storage, scanner port.Scanner, genUUID port.UUIDGen, stagingBucket, creativesBucket string, standards []filecheck.Standard) port.UploadFinaliser {
	return &uploadFinaliserSrv{sessions, sets, assets, strg, scanner, genUUID, stagingBucket, creativesBucket, standards}
}

// FinaliseUpload validates one staged file, scans it, and promotes it from
// the staging bucket to permanent storage. Finalising an already completed
// asset is a no-op. A rejected scan deletes both the staged object and the
// pending row; every other failure keeps the row and marks it failed.
func (s *uploadFinaliserSrv) FinaliseUpload(ctx context.Context, in port.FinaliseUploadInput) (*model.CreativeAsset, error) {
	asset, err := s.assets.GetByID(ctx, in.AssetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("error fetching asset: %w", err)
	}
	if asset.SessionID != in.SessionID {
		return nil, ErrSessionMismatch
	}
	if asset.Status == model.AssetStatusCompleted {
		return asset, nil
	}
	if asset.Status != model.AssetStatusPending {
		return nil, fmt.Errorf("asset status should be %q to be finalised, got %q", model.AssetStatusPending, asset.Status)
	}

	// Cleanup function
	var finalErr error
	defer func() {
		if finalErr != nil {
			if err := s.cleanupStaging(asset.StagingKey); err != nil {
				log.Printf("cleanup failed for staged file %q: %v", asset.StagingKey, err)
			}
			if markErr := s.markAsFailed(ctx, asset, finalErr.Error()); markErr != nil {
				log.Printf("markAsFailed failed for asset #%s: %v", asset.ID, markErr)
			}
		}
	}()

	info, err := s.strg.StatFile(ctx, s.stagingBucket, asset.StagingKey)
	if err != nil {
		if errors.Is(err, port.ErrObjectNotFound) {
			finalErr = fmt.Errorf("staged file %q not found", asset.StagingKey)
		} else {
			finalErr = fmt.Errorf("stats for staged file %q failed: %w", asset.StagingKey, err)
		}
		return nil, finalErr
	}

	mimeType := info.ContentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		if asset.MimeType != nil {
			mimeType = *asset.MimeType
		}
	}

	file, err := s.strg.GetFile(ctx, s.stagingBucket, asset.StagingKey)
	if err != nil {
		finalErr = fmt.Errorf("error opening staged file %q: %w", asset.StagingKey, err)
		return nil, finalErr
	}
	defer func(file io.ReadSeekCloser) {
		if err := file.Close(); err != nil {
			log.Printf("failed to close reader")
		}
	}(file)

	report, width, height, err := s.validate(file, mimeType, info.SizeBytes)
	if err != nil {
		finalErr = err
		return nil, finalErr
	}
	if report.Status == filecheck.StatusInvalid {
		finalErr = fmt.Errorf("file %q failed validation: %s", asset.OriginalFilename, strings.Join(report.Notes, "; "))
		return nil, finalErr
	}

	if err := s.scan(ctx, asset, file); err != nil {
		// the row and the staged object are already gone
		return nil, err
	}

	if err := s.promote(ctx, asset, mimeType, info.SizeBytes, width, height, report); err != nil {
		finalErr = err
		return nil, finalErr
	}

	if err := s.attachToDefaultSet(ctx, asset); err != nil {
		log.Printf("failed attaching asset #%s to its set: %v", asset.ID, err)
	}
	if err := s.recordUploadedBytes(ctx, asset.SessionID, info.SizeBytes); err != nil {
		log.Printf("failed recording uploaded bytes for session #%s: %v", asset.SessionID, err)
	}

	return asset, nil
}

// validate runs the check chain on the staged content. The reader is left
// rewound to the start.
func (s *uploadFinaliserSrv) validate(file io.ReadSeeker, mimeType string, size int64) (filecheck.Report, *int, *int, error) {
	head := make([]byte, filecheck.SignatureLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return filecheck.Report{}, nil, nil, fmt.Errorf("error reading file head: %w", err)
	}
	head = head[:n]

	var width, height *int
	if detected, err := filecheck.DetectedType(mimeType); err == nil && detected == model.AssetTypeImage {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return filecheck.Report{}, nil, nil, fmt.Errorf("error rewinding file: %w", err)
		}
		if w, h, err := filecheck.ExtractImageMeta(file); err == nil {
			width, height = &w, &h
		}
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return filecheck.Report{}, nil, nil, fmt.Errorf("error rewinding file: %w", err)
	}

	report := filecheck.Evaluate(filecheck.Input{
		DeclaredMime: mimeType,
		SizeBytes:    size,
		Head:         head,
		Width:        width,
		Height:       height,
		Standards:    s.standards,
	})
	return report, width, height, nil
}

// scan runs the content safety check. A rejection is terminal: the staged
// object and the pending row are both deleted, leaving no trace of the file.
func (s *uploadFinaliserSrv) scan(ctx context.Context, asset *model.CreativeAsset, file io.ReadSeeker) error {
	res, err := s.scanner.Scan(ctx, asset.OriginalFilename, file)
	if err != nil {
		return fmt.Errorf("error scanning file %q: %w", asset.OriginalFilename, err)
	}
	if res.Safe {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("error rewinding file: %w", err)
		}
		return nil
	}

	if err := s.cleanupStaging(asset.StagingKey); err != nil {
		log.Printf("cleanup failed for rejected file %q: %v", asset.StagingKey, err)
	}
	if err := s.assets.Delete(ctx, asset.ID); err != nil {
		log.Printf("failed deleting rejected asset #%s: %v", asset.ID, err)
	}
	return fmt.Errorf("%w: %s", ErrUnsafeContent, res.Detail)
}

func (s *uploadFinaliserSrv) promote(ctx context.Context, asset *model.CreativeAsset, mimeType string, size int64, width, height *int, report filecheck.Report) error {
	detected, err := filecheck.DetectedType(mimeType)
	if err != nil {
		return err
	}

	objectKey := fmt.Sprintf("%s/%s", asset.SessionID, asset.StorageFilename)
	if err := s.strg.PromoteFile(ctx, s.stagingBucket, asset.StagingKey, s.creativesBucket, objectKey); err != nil {
		return fmt.Errorf("move file %q from staging to bucket %q failed: %w", asset.StagingKey, s.creativesBucket, err)
	}

	asset.Bucket = &s.creativesBucket
	asset.ObjectKey = &objectKey
	asset.Status = model.AssetStatusCompleted
	asset.Type = &detected
	asset.MimeType = &mimeType
	asset.SizeBytes = &size
	asset.Width = width
	asset.Height = height
	asset.ValidationStatus = string(report.Status)
	asset.IsBundle = detected == model.AssetTypeHTMLBundle
	if len(report.Notes) > 0 {
		notes := strings.Join(report.Notes, "; ")
		asset.ValidationNotes = &notes
	}
	if err := s.assets.Update(ctx, asset); err != nil {
		return fmt.Errorf("failed updating asset: %w", err)
	}
	return nil
}

// attachToDefaultSet lazily creates the session's default creative set and
// links the asset to it. Archive contents get their real sets later, during
// extraction.
func (s *uploadFinaliserSrv) attachToDefaultSet(ctx context.Context, asset *model.CreativeAsset) error {
	sess, err := s.sessions.GetByID(ctx, asset.SessionID)
	if err != nil {
		return err
	}
	if sess.Kind == model.SessionKindArchive {
		return nil
	}

	set, err := s.sets.GetBySessionAndName(ctx, asset.SessionID, DefaultSetName)
	if errors.Is(err, sql.ErrNoRows) {
		set = &model.CreativeSet{
			ID:        s.genUUID(),
			SessionID: asset.SessionID,
			Name:      DefaultSetName,
		}
		if err := s.sets.Create(ctx, set); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	asset.SetID = &set.ID
	if err := s.assets.Update(ctx, asset); err != nil {
		return err
	}
	return s.sets.IncrementAssetCount(ctx, set.ID, 1)
}

func (s *uploadFinaliserSrv) recordUploadedBytes(ctx context.Context, sessionID uuid.UUID, size int64) error {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.UploadedBytes += size
	if sess.UploadedBytes > sess.TotalBytes {
		log.Printf("session #%s uploaded %d bytes against a declared total of %d, clamping", sess.ID, sess.UploadedBytes, sess.TotalBytes)
		sess.UploadedBytes = sess.TotalBytes
	}
	if sess.Status == model.SessionStatusPending {
		sess.Status = model.SessionStatusUploading
	}
	return s.sessions.Update(ctx, sess)
}

func (s *uploadFinaliserSrv) cleanupStaging(stagingKey string) error {
	if err := s.strg.RemoveFile(context.Background(), s.stagingBucket, stagingKey); err != nil && !errors.Is(err, port.ErrObjectNotFound) {
		return err
	}
	return nil
}

func (s *uploadFinaliserSrv) markAsFailed(ctx context.Context, asset *model.CreativeAsset, reason string) error {
	asset.Status = model.AssetStatusFailed
	asset.FailureMessage = &reason
	asset.ValidationStatus = string(filecheck.StatusInvalid)

	if err := s.assets.Update(ctx, asset); err != nil {
		return err
	}
	return nil
}
