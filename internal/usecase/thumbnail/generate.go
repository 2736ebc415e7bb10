package thumbnail

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

var ErrJobNotFound = errors.New("thumbnail: job not found")

const (
	// maxConcurrent bounds parallel renders within one job.
	maxConcurrent = 10

	// frameOffset is where the preview frame of a video is taken.
	frameOffset = 1 * time.Second
)

type thumbnailBatcherSrv struct {
	jobs        port.JobRepository
	sessions    port.SessionRepository
	assets      port.AssetRepository
	thumbs      port.ThumbnailRepository
	tracker     port.JobTracker
	strg        port.Storage
	thumbnailer port.Thumbnailer
	frames      port.FrameExtractor
	genUUID     port.UUIDGen
	bucket      string
	width       int
	height      int
}

// compile-time check: *thumbnailBatcherSrv must satisfy port.ThumbnailBatcher
var _ port.ThumbnailBatcher = (*thumbnailBatcherSrv)(nil)

// NewThumbnailBatcher constructs a ThumbnailBatcher implementation.
func NewThumbnailBatcher(jobs port.JobRepository, sessions port.SessionRepository, assets port.AssetRepository, thumbs port.ThumbnailRepository, tracker port.JobTracker, strg port.Storage, thumbnailer port.Thumbnailer, frames port.FrameExtractor, genUUID port.UUIDGen, bucket string, width, height int) port.ThumbnailBatcher {
	return &thumbnailBatcherSrv{jobs, sessions, assets, thumbs, tracker, strg, thumbnailer, frames, genUUID, bucket, width, height}
}

// GenerateThumbnails renders one preview per completed visual asset of the
// job's session, at most maxConcurrent at a time. A render that fails falls
// back to the placeholder rather than failing the item: every asset ends up
// with a preview, one way or another.
func (s *thumbnailBatcherSrv) GenerateThumbnails(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("error fetching job: %w", err)
	}
	if job.Status == model.JobStatusCompleted {
		return nil
	}
	resumeAt := job.CurrentIndex

	if err := s.tracker.StartJob(ctx, job); err != nil {
		return err
	}

	assets, err := s.assets.ListBySession(ctx, job.SessionID)
	if err != nil {
		return fmt.Errorf("error listing assets: %w", err)
	}
	var targets []*model.CreativeAsset
	for _, a := range assets {
		if a.Status != model.AssetStatusCompleted || a.Type == nil {
			continue
		}
		if *a.Type == model.AssetTypeImage || *a.Type == model.AssetTypeVideo {
			targets = append(targets, a)
		}
	}
	job.TotalItems = len(targets)

	var (
		mu       sync.Mutex
		itemErrs model.ItemErrors
		done     = resumeAt
	)
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for i := resumeAt; i < len(targets); i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(index int, asset *model.CreativeAsset) {
			defer wg.Done()
			defer func() { <-sem }()

			err := s.generateOne(ctx, asset)

			mu.Lock()
			done++
			if err != nil {
				itemErrs = append(itemErrs, model.ItemError{Index: index, Name: asset.OriginalFilename, Error: err.Error()})
			}
			s.tracker.TrackProgress(ctx, job, done, fmt.Sprintf("generating preview for %s", asset.OriginalFilename))
			mu.Unlock()
		}(i, targets[i])
	}
	wg.Wait()

	if err := s.tracker.CompleteJob(ctx, job, itemErrs); err != nil {
		return err
	}
	return s.settleSession(ctx, job.SessionID)
}

// generateOne renders and stores the preview of one asset. Existing
// previews are kept, so retried jobs never render twice.
func (s *thumbnailBatcherSrv) generateOne(ctx context.Context, asset *model.CreativeAsset) error {
	if _, err := s.thumbs.GetByAssetID(ctx, asset.ID); err == nil {
		return nil
	}
	if asset.Bucket == nil || asset.ObjectKey == nil {
		return errors.New("asset has no stored object")
	}

	file, err := s.strg.GetFile(ctx, *asset.Bucket, *asset.ObjectKey)
	if err != nil {
		return fmt.Errorf("error opening object %q: %w", *asset.ObjectKey, err)
	}
	defer func() { _ = file.Close() }()

	data := s.render(ctx, asset, file)

	objectKey := fmt.Sprintf("thumbnails/%s.%s", asset.ID, s.thumbnailer.Format())
	if err := s.strg.SaveFile(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), map[string]string{
		"Content-Type": "image/" + s.thumbnailer.Format(),
	}); err != nil {
		return fmt.Errorf("error saving preview: %w", err)
	}

	thumb := &model.Thumbnail{
		ID:        s.genUUID(),
		AssetID:   asset.ID,
		Bucket:    s.bucket,
		ObjectKey: objectKey,
		Width:     s.width,
		Height:    s.height,
		SizeBytes: int64(len(data)),
		Format:    s.thumbnailer.Format(),
	}
	if err := s.thumbs.Create(ctx, thumb); err != nil {
		return fmt.Errorf("error creating thumbnail record: %w", err)
	}
	return nil
}

// render produces the preview bytes, falling back to the placeholder when
// decoding fails.
func (s *thumbnailBatcherSrv) render(ctx context.Context, asset *model.CreativeAsset, file io.Reader) []byte {
	var (
		data []byte
		err  error
	)
	switch *asset.Type {
	case model.AssetTypeVideo:
		frame, frameErr := s.frames.FrameAt(ctx, file, frameOffset)
		if frameErr != nil {
			err = frameErr
			break
		}
		data, err = s.thumbnailer.RenderFrame(frame, s.width, s.height)
	default:
		data, err = s.thumbnailer.Render(file, s.width, s.height)
	}

	if err != nil {
		log.Printf("preview render failed for asset #%s, using placeholder: %v", asset.ID, err)
		placeholder, phErr := s.thumbnailer.Placeholder(s.width, s.height)
		if phErr != nil {
			log.Printf("placeholder render failed for asset #%s: %v", asset.ID, phErr)
			return nil
		}
		return placeholder
	}
	return data
}

func (s *thumbnailBatcherSrv) settleSession(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status != model.SessionStatusProcessing {
		return nil
	}
	now := time.Now().UTC()
	sess.Status = model.SessionStatusCompleted
	sess.CompletedAt = &now
	return s.sessions.Update(ctx, sess)
}
