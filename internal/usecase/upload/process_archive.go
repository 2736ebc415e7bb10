package upload

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/fhuszti/creatives-ms-go/internal/archive"
	"github.com/fhuszti/creatives-ms-go/internal/classifier"
	"github.com/fhuszti/creatives-ms-go/internal/filecheck"
	"github.com/fhuszti/creatives-ms-go/internal/folder"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

var (
	ErrJobNotFound = errors.New("upload: job not found")
	ErrNoArchive   = errors.New("upload: session has no completed archive asset")
)

type archiveProcessorSrv struct {
	jobs            port.JobRepository
	sessions        port.SessionRepository
	sets            port.SetRepository
	assets          port.AssetRepository
	folders         port.FolderRepository
	tracker         port.JobTracker
	dispatcher      port.TaskDispatcher
	strg            port.Storage
	genUUID         port.UUIDGen
	creativesBucket string
}

// compile-time check: *archiveProcessorSrv must satisfy port.ArchiveProcessor
var _ port.ArchiveProcessor = (*archiveProcessorSrv)(nil)

// NewArchiveProcessor constructs an ArchiveProcessor implementation.
func NewArchiveProcessor(jobs port.JobRepository, sessions port.SessionRepository, sets port.SetRepository, assets port.AssetRepository, folders port.FolderRepository, tracker port.JobTracker, dispatcher port.TaskDispatcher, strg port.Storage, genUUID port.UUIDGen, creativesBucket string) port.ArchiveProcessor {
	return &archiveProcessorSrv{jobs, sessions, sets, assets, folders, tracker, dispatcher, strg, genUUID, creativesBucket}
}

// ProcessArchive runs the extract → classify → organise pipeline for the
// archive referenced by a job. Structural archive failures fail the job;
// individual entry failures are recorded per item and never abort the run.
// A retried job resumes at its recorded index, skipping entries already
// turned into assets.
func (s *archiveProcessorSrv) ProcessArchive(ctx context.Context, jobID uuid.UUID) error {
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

	source, err := s.findArchiveAsset(ctx, job.SessionID)
	if err != nil {
		return s.failJob(ctx, job, 0, err)
	}

	ar, err := s.open(ctx, source)
	if err != nil {
		return s.failJob(ctx, job, 0, err)
	}

	job.TotalItems = len(ar.Manifest)
	itemErrs := make(model.ItemErrors, 0, len(ar.EntryErrors))
	for _, ee := range ar.EntryErrors {
		itemErrs = append(itemErrs, model.ItemError{Index: ee.Index, Name: ee.Path, Error: ee.Err})
	}

	hasRootEntries := false
	for _, info := range ar.Manifest {
		if info.Folder == "" {
			hasRootEntries = true
			break
		}
	}

	setIDs, classification, err := s.createSets(ctx, job.SessionID, ar.Folders, hasRootEntries)
	if err != nil {
		return s.failJob(ctx, job, resumeAt, err)
	}
	log.Printf("classified %d folders into %d sets (accuracy %.2f) for session #%s",
		len(ar.Folders), len(classification.Groups), classification.Accuracy, job.SessionID)

	// folder counts track assets, so only entries that exist as rows
	// count: those materialised now and those a previous run already did
	folderCounts := make(map[uuid.UUID]map[string]int)
	countEntry := func(setID uuid.UUID, folder string) {
		if folder == "" {
			return
		}
		if folderCounts[setID] == nil {
			folderCounts[setID] = make(map[string]int)
		}
		folderCounts[setID][folder]++
	}

	for i, info := range ar.Manifest {
		setID := setIDs[info.Folder]
		if i < resumeAt {
			countEntry(setID, info.Folder)
			continue
		}

		s.tracker.TrackProgress(ctx, job, i+1, fmt.Sprintf("extracting %s", info.Name))

		entry, err := ar.ReadEntry(i)
		if err != nil {
			itemErrs = append(itemErrs, model.ItemError{Index: i, Name: info.Path, Error: err.Error()})
			continue
		}
		if err := s.materialise(ctx, job.SessionID, setID, entry); err != nil {
			itemErrs = append(itemErrs, model.ItemError{Index: i, Name: info.Path, Error: err.Error()})
			continue
		}
		countEntry(setID, info.Folder)
	}

	for setID, counts := range folderCounts {
		if err := s.persistFolders(ctx, setID, counts); err != nil {
			log.Printf("failed persisting folder hierarchy for set #%s: %v", setID, err)
		}
	}

	for _, w := range ar.Warnings {
		log.Printf("archive warning for session #%s: %s", job.SessionID, w)
	}

	if err := s.tracker.CompleteJob(ctx, job, itemErrs); err != nil {
		return err
	}
	return s.scheduleThumbnails(ctx, job.SessionID)
}

func (s *archiveProcessorSrv) failJob(ctx context.Context, job *model.ProcessingJob, index int, cause error) error {
	if err := s.tracker.FailJob(ctx, job, index, cause.Error()); err != nil {
		log.Printf("failed marking job #%s as failed: %v", job.ID, err)
	}
	return cause
}

func (s *archiveProcessorSrv) findArchiveAsset(ctx context.Context, sessionID uuid.UUID) (*model.CreativeAsset, error) {
	assets, err := s.assets.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error listing assets: %w", err)
	}
	for _, a := range assets {
		if a.Status != model.AssetStatusCompleted || a.MimeType == nil {
			continue
		}
		if strings.Contains(strings.ToLower(*a.MimeType), "zip") {
			return a, nil
		}
	}
	return nil, ErrNoArchive
}

func (s *archiveProcessorSrv) open(ctx context.Context, source *model.CreativeAsset) (*archive.Archive, error) {
	file, err := s.strg.GetFile(ctx, *source.Bucket, *source.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("error opening archive %q: %w", *source.ObjectKey, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("error reading archive %q: %w", *source.ObjectKey, err)
	}
	return archive.Open(data)
}

// createSets persists one creative set per classified group and returns the
// folder → set mapping. The default set only exists when something needs
// it: root-level files or folders the classifier could not place.
func (s *archiveProcessorSrv) createSets(ctx context.Context, sessionID uuid.UUID, folders []string, hasRootEntries bool) (map[string]uuid.UUID, classifier.Classification, error) {
	classification := classifier.Classify(folders)
	setIDs := make(map[string]uuid.UUID, len(folders)+1)

	if hasRootEntries || len(classification.Unmatched) > 0 {
		defaultID, err := s.ensureSet(ctx, sessionID, DefaultSetName, nil)
		if err != nil {
			return nil, classification, err
		}
		setIDs[""] = defaultID
		for _, f := range classification.Unmatched {
			setIDs[f] = defaultID
		}
	}

	for _, group := range classification.Groups {
		originalPath := group.Folders[0]
		id, err := s.ensureSet(ctx, sessionID, group.Name, &originalPath)
		if err != nil {
			return nil, classification, err
		}
		for _, f := range group.Folders {
			setIDs[f] = id
		}
	}
	return setIDs, classification, nil
}

func (s *archiveProcessorSrv) ensureSet(ctx context.Context, sessionID uuid.UUID, name string, originalPath *string) (uuid.UUID, error) {
	set, err := s.sets.GetBySessionAndName(ctx, sessionID, name)
	if err == nil {
		return set.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.UUID{}, fmt.Errorf("error fetching set %q: %w", name, err)
	}

	set = &model.CreativeSet{
		ID:           s.genUUID(),
		SessionID:    sessionID,
		Name:         name,
		OriginalPath: originalPath,
	}
	if err := s.sets.Create(ctx, set); err != nil {
		return uuid.UUID{}, fmt.Errorf("error creating set %q: %w", name, err)
	}
	return set.ID, nil
}

// materialise turns one decoded entry into a stored object plus a completed
// asset row.
func (s *archiveProcessorSrv) materialise(ctx context.Context, sessionID, setID uuid.UUID, entry archive.Entry) error {
	mimeType := entryMimeType(entry.Name, entry.Data)
	if !filecheck.IsMimeTypeAllowed(mimeType) {
		return fmt.Errorf("unsupported mime-type %q", mimeType)
	}
	detected, err := filecheck.DetectedType(mimeType)
	if err != nil {
		return err
	}

	objectKey := fmt.Sprintf("%s/extracted/%s", sessionID, entry.Path)
	if err := s.strg.SaveFile(ctx, s.creativesBucket, objectKey, bytes.NewReader(entry.Data), entry.SizeBytes, map[string]string{
		"Content-Type": mimeType,
	}); err != nil {
		return fmt.Errorf("error saving entry: %w", err)
	}

	size := entry.SizeBytes
	assetID := s.genUUID()
	asset := &model.CreativeAsset{
		ID:               assetID,
		SetID:            &setID,
		SessionID:        sessionID,
		OriginalFilename: entry.Name,
		StorageFilename:  entry.Name,
		Type:             &detected,
		MimeType:         &mimeType,
		SizeBytes:        &size,
		StagingKey:       assetID.String(),
		Bucket:           &s.creativesBucket,
		ObjectKey:        &objectKey,
		Status:           model.AssetStatusCompleted,
		ValidationStatus: string(filecheck.StatusValid),
		IsBundle:         detected == model.AssetTypeHTMLBundle,
	}
	if detected == model.AssetTypeImage {
		if w, h, err := filecheck.ExtractImageMeta(bytes.NewReader(entry.Data)); err == nil {
			asset.Width, asset.Height = &w, &h
		}
	}

	if err := s.assets.Create(ctx, asset); err != nil {
		return fmt.Errorf("error creating asset: %w", err)
	}
	return s.sets.IncrementAssetCount(ctx, setID, 1)
}

// persistFolders builds, flattens and stores the folder hierarchy of one
// set. Parents are inserted before children, so the parent lookup by path
// always hits.
func (s *archiveProcessorSrv) persistFolders(ctx context.Context, setID uuid.UUID, counts map[string]int) error {
	nodes := folder.Flatten(folder.Build(counts))
	if err := folder.Validate(nodes); err != nil {
		return err
	}

	idsByPath := make(map[string]uuid.UUID, len(nodes))
	for _, n := range nodes {
		row := &model.FolderNode{
			ID:         s.genUUID(),
			SetID:      setID,
			Name:       n.Name,
			Depth:      n.Depth,
			Path:       n.Path,
			AssetCount: n.AssetCount,
		}
		if n.ParentPath != "" {
			parentID := idsByPath[n.ParentPath]
			row.ParentID = &parentID
		}
		if n.OriginalPath != "" {
			op := n.OriginalPath
			row.OriginalPath = &op
		}
		if err := s.folders.Create(ctx, row); err != nil {
			return fmt.Errorf("error creating folder %q: %w", n.Path, err)
		}
		idsByPath[n.Path] = row.ID
	}
	return nil
}

// scheduleThumbnails queues the preview pass over the freshly extracted
// assets.
func (s *archiveProcessorSrv) scheduleThumbnails(ctx context.Context, sessionID uuid.UUID) error {
	assets, err := s.assets.ListBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error listing assets: %w", err)
	}
	visual := 0
	for _, a := range assets {
		if a.Status != model.AssetStatusCompleted || a.Type == nil {
			continue
		}
		if *a.Type == model.AssetTypeImage || *a.Type == model.AssetTypeVideo {
			visual++
		}
	}
	if visual == 0 {
		return s.settleSession(ctx, sessionID)
	}

	job, err := s.tracker.CreateJob(ctx, sessionID, model.JobTypeThumbnail, visual)
	if err != nil {
		return err
	}
	return s.dispatcher.EnqueueGenerateThumbnails(ctx, job.ID)
}

func (s *archiveProcessorSrv) settleSession(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.Status = model.SessionStatusCompleted
	return s.sessions.Update(ctx, sess)
}

// entryMimeType resolves the MIME type of one extracted entry, extension
// first, content sniffing as fallback.
func entryMimeType(name string, data []byte) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".html", ".htm":
		return "text/html"
	default:
		return http.DetectContentType(data)
	}
}
