package thumbnail

import (
	"context"
	"database/sql"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/fhuszti/creatives-ms-go/internal/mock"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type batcherFixture struct {
	jobs        *mock.JobRepo
	sessions    *mock.SessionRepo
	assets      *mock.AssetRepo
	thumbs      *mock.ThumbnailRepo
	tracker     *mock.Tracker
	strg        *mock.Storage
	thumbnailer *mock.Thumbnailer
	frames      *mock.FrameExtractor
	job         *model.ProcessingJob
}

func visualAsset(sessionID uuid.UUID, assetType, name string) *model.CreativeAsset {
	bucket := "creatives"
	key := sessionID.String() + "/" + name
	return &model.CreativeAsset{
		ID:               uuid.NewUUID(),
		SessionID:        sessionID,
		OriginalFilename: name,
		Type:             &assetType,
		Status:           model.AssetStatusCompleted,
		Bucket:           &bucket,
		ObjectKey:        &key,
	}
}

func newBatcherFixture(assets ...*model.CreativeAsset) *batcherFixture {
	sessionID := uuid.NewUUID()
	for _, a := range assets {
		a.SessionID = sessionID
	}
	f := &batcherFixture{
		sessions:    &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: sessionID, Status: model.SessionStatusProcessing}},
		assets:      &mock.AssetRepo{ListOut: assets},
		thumbs:      &mock.ThumbnailRepo{GetErr: sql.ErrNoRows},
		tracker:     &mock.Tracker{},
		strg:        &mock.Storage{FileContent: []byte("stored bytes")},
		thumbnailer: &mock.Thumbnailer{RenderOut: []byte("webp bytes"), FrameOut: []byte("frame bytes"), PlaceholderOut: []byte("placeholder")},
		frames:      &mock.FrameExtractor{FrameOut: image.NewRGBA(image.Rect(0, 0, 4, 4))},
		job: &model.ProcessingJob{
			ID:        uuid.NewUUID(),
			SessionID: sessionID,
			Type:      model.JobTypeThumbnail,
			Status:    model.JobStatusQueued,
		},
	}
	f.jobs = &mock.JobRepo{JobRecord: f.job}
	return f
}

func (f *batcherFixture) generate(t *testing.T) error {
	t.Helper()
	svc := NewThumbnailBatcher(f.jobs, f.sessions, f.assets, f.thumbs, f.tracker, f.strg, f.thumbnailer, f.frames, uuid.NewUUID, "creatives", 300, 180)
	return svc.GenerateThumbnails(context.Background(), f.job.ID)
}

func TestGenerateThumbnails(t *testing.T) {
	a := visualAsset(uuid.NewUUID(), model.AssetTypeImage, "banner.png")
	f := newBatcherFixture(a)

	if err := f.generate(t); err != nil {
		t.Fatalf("GenerateThumbnails: %v", err)
	}

	if !f.thumbnailer.RenderCalled {
		t.Error("expected the image to be rendered")
	}
	if len(f.thumbs.Created) != 1 {
		t.Fatalf("expected 1 thumbnail record, got %d", len(f.thumbs.Created))
	}
	thumb := f.thumbs.Created[0]
	if thumb.AssetID != a.ID {
		t.Error("thumbnail should reference its asset")
	}
	if thumb.ObjectKey != "thumbnails/"+a.ID.String()+".webp" {
		t.Errorf("object key = %q", thumb.ObjectKey)
	}
	if thumb.Width != 300 || thumb.Height != 180 || thumb.Format != "webp" {
		t.Errorf("thumbnail = %+v, want 300x180 webp", thumb)
	}

	key := "creatives/" + thumb.ObjectKey
	if string(f.strg.SavedContent[key]) != "webp bytes" {
		t.Errorf("stored %q at %q", f.strg.SavedContent[key], key)
	}

	if !f.tracker.CompleteCalled || len(f.tracker.CompletedErrs) != 0 {
		t.Errorf("job should complete cleanly, errs = %+v", f.tracker.CompletedErrs)
	}
	if f.sessions.Updated == nil || f.sessions.Updated.Status != model.SessionStatusCompleted {
		t.Error("session should settle as completed")
	}
	if f.sessions.Updated.CompletedAt == nil {
		t.Error("settled session should carry a completion time")
	}
}

func TestGenerateThumbnailsVideoUsesFrame(t *testing.T) {
	f := newBatcherFixture(visualAsset(uuid.NewUUID(), model.AssetTypeVideo, "clip.mp4"))

	if err := f.generate(t); err != nil {
		t.Fatalf("GenerateThumbnails: %v", err)
	}
	if !f.frames.Called {
		t.Error("expected a frame to be extracted from the video")
	}
	if !f.thumbnailer.FrameCalled {
		t.Error("expected the extracted frame to be rendered")
	}
	if len(f.thumbs.Created) != 1 || string(f.strg.SavedContent["creatives/"+f.thumbs.Created[0].ObjectKey]) != "frame bytes" {
		t.Error("expected the frame render to be stored")
	}
}

func TestGenerateThumbnailsFallsBackToPlaceholder(t *testing.T) {
	f := newBatcherFixture(visualAsset(uuid.NewUUID(), model.AssetTypeImage, "broken.png"))
	f.thumbnailer.RenderErr = errors.New("decode failure")

	if err := f.generate(t); err != nil {
		t.Fatalf("GenerateThumbnails: %v", err)
	}
	if !f.thumbnailer.PlaceholderCalled {
		t.Fatal("a failed render should fall back to the placeholder")
	}
	if len(f.thumbs.Created) != 1 {
		t.Fatal("the placeholder still gets a thumbnail record")
	}
	if string(f.strg.SavedContent["creatives/"+f.thumbs.Created[0].ObjectKey]) != "placeholder" {
		t.Error("expected the placeholder bytes to be stored")
	}
	if len(f.tracker.CompletedErrs) != 0 {
		t.Errorf("a placeholder is not an item error, got %+v", f.tracker.CompletedErrs)
	}
}

func TestGenerateThumbnailsSkipsNonVisualAssets(t *testing.T) {
	bundle := visualAsset(uuid.NewUUID(), model.AssetTypeHTMLBundle, "bundle.zip")
	img := visualAsset(uuid.NewUUID(), model.AssetTypeImage, "banner.png")
	pending := visualAsset(uuid.NewUUID(), model.AssetTypeImage, "pending.png")
	pending.Status = model.AssetStatusPending

	f := newBatcherFixture(bundle, img, pending)
	if err := f.generate(t); err != nil {
		t.Fatalf("GenerateThumbnails: %v", err)
	}
	if len(f.thumbs.Created) != 1 || f.thumbs.Created[0].AssetID != img.ID {
		t.Errorf("only the completed image should get a preview, got %+v", f.thumbs.Created)
	}
}

func TestGenerateThumbnailsSkipsExistingPreviews(t *testing.T) {
	a := visualAsset(uuid.NewUUID(), model.AssetTypeImage, "banner.png")
	f := newBatcherFixture(a)
	f.thumbs.GetErr = nil
	f.thumbs.ThumbnailRecord = &model.Thumbnail{ID: uuid.NewUUID(), AssetID: a.ID}

	if err := f.generate(t); err != nil {
		t.Fatalf("GenerateThumbnails: %v", err)
	}
	if f.thumbnailer.RenderCalled || f.strg.SaveCalled {
		t.Error("an existing preview must not be rendered again")
	}
	if !f.tracker.CompleteCalled {
		t.Error("the job still completes")
	}
}

func TestGenerateThumbnailsRecordsStorageFailures(t *testing.T) {
	f := newBatcherFixture(visualAsset(uuid.NewUUID(), model.AssetTypeImage, "banner.png"))
	f.strg.SaveErr = errors.New("bucket unavailable")

	if err := f.generate(t); err != nil {
		t.Fatalf("GenerateThumbnails: %v", err)
	}
	if len(f.tracker.CompletedErrs) != 1 || !strings.Contains(f.tracker.CompletedErrs[0].Error, "bucket unavailable") {
		t.Errorf("item errors = %+v", f.tracker.CompletedErrs)
	}
	if !f.tracker.CompleteCalled {
		t.Error("item failures never fail the job")
	}
}

func TestGenerateThumbnailsDoesNotDowngradePartialSessions(t *testing.T) {
	f := newBatcherFixture(visualAsset(uuid.NewUUID(), model.AssetTypeImage, "banner.png"))
	f.sessions.SessionRecord.Status = model.SessionStatusPartial

	if err := f.generate(t); err != nil {
		t.Fatalf("GenerateThumbnails: %v", err)
	}
	if f.sessions.UpdateCalled {
		t.Error("a partial session must keep its status")
	}
}

func TestGenerateThumbnailsJobNotFound(t *testing.T) {
	f := newBatcherFixture()
	f.jobs.GetErr = sql.ErrNoRows
	if err := f.generate(t); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("got %v, want ErrJobNotFound", err)
	}
}
