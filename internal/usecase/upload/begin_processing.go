package upload

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/job"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/session"
)

var ErrNothingToProcess = errors.New("upload: session has no completed assets to process")

type processingStarterSrv struct {
	sessions   port.SessionRepository
	assets     port.AssetRepository
	tracker    port.JobTracker
	dispatcher port.TaskDispatcher
	archives   port.ArchiveProcessor
	thumbs     port.ThumbnailBatcher
}

// compile-time check: *processingStarterSrv must satisfy port.ProcessingStarter
var _ port.ProcessingStarter = (*processingStarterSrv)(nil)

// NewProcessingStarter constructs a ProcessingStarter implementation.
func NewProcessingStarter(sessions port.SessionRepository, assets port.AssetRepository, tracker port.JobTracker, dispatcher port.TaskDispatcher, archives port.ArchiveProcessor, thumbs port.ThumbnailBatcher) port.ProcessingStarter {
	return &processingStarterSrv{sessions, assets, tracker, dispatcher, archives, thumbs}
}

// BeginProcessing creates the jobs a session needs after its uploads are
// in: extraction for archive sessions, thumbnails for everything visual.
// Small workloads run inline in the request path; anything estimated past
// the background threshold goes to the queue instead.
func (s *processingStarterSrv) BeginProcessing(ctx context.Context, in port.BeginProcessingInput) (port.BeginProcessingOutput, error) {
	sess, err := s.sessions.GetByID(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return port.BeginProcessingOutput{}, session.ErrSessionNotFound
		}
		return port.BeginProcessingOutput{}, fmt.Errorf("error fetching session: %w", err)
	}

	assets, err := s.assets.ListBySession(ctx, in.SessionID)
	if err != nil {
		return port.BeginProcessingOutput{}, fmt.Errorf("error listing assets: %w", err)
	}

	var sizes []int64
	var completed int
	for _, a := range assets {
		if a.Status != model.AssetStatusCompleted {
			continue
		}
		completed++
		if a.SizeBytes != nil {
			sizes = append(sizes, *a.SizeBytes)
		}
	}
	if completed == 0 {
		return port.BeginProcessingOutput{}, ErrNothingToProcess
	}

	sess.Status = model.SessionStatusProcessing
	if err := s.sessions.Update(ctx, sess); err != nil {
		return port.BeginProcessingOutput{}, fmt.Errorf("error updating session: %w", err)
	}

	background := job.ShouldRunInBackground(sizes)
	out := port.BeginProcessingOutput{Inline: !background}

	if sess.Kind == model.SessionKindArchive {
		j, err := s.tracker.CreateJob(ctx, sess.ID, model.JobTypeExtraction, completed)
		if err != nil {
			return port.BeginProcessingOutput{}, err
		}
		out.Jobs = append(out.Jobs, j)

		if background {
			if err := s.dispatcher.EnqueueExtractArchive(ctx, j.ID); err != nil {
				return port.BeginProcessingOutput{}, fmt.Errorf("error enqueueing extraction: %w", err)
			}
			return out, nil
		}
		if err := s.archives.ProcessArchive(ctx, j.ID); err != nil {
			log.Printf("inline extraction for job #%s failed: %v", j.ID, err)
		}
		return out, nil
	}

	j, err := s.tracker.CreateJob(ctx, sess.ID, model.JobTypeThumbnail, completed)
	if err != nil {
		return port.BeginProcessingOutput{}, err
	}
	out.Jobs = append(out.Jobs, j)

	if background {
		if err := s.dispatcher.EnqueueGenerateThumbnails(ctx, j.ID); err != nil {
			return port.BeginProcessingOutput{}, fmt.Errorf("error enqueueing thumbnails: %w", err)
		}
		return out, nil
	}
	if err := s.thumbs.GenerateThumbnails(ctx, j.ID); err != nil {
		log.Printf("inline thumbnail generation for job #%s failed: %v", j.ID, err)
	}
	return out, nil
}
