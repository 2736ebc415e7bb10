package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/progress"
)

// DefaultMaxConcurrent is how many finalisations run at once within a batch.
const DefaultMaxConcurrent = 10

var ErrEmptyBatch = errors.New("upload: batch holds no assets")

type batchFinaliserSrv struct {
	sessions  port.SessionRepository
	finaliser port.UploadFinaliser
	broker    port.ProgressBroker
}

// compile-time check: *batchFinaliserSrv must satisfy port.BatchFinaliser
var _ port.BatchFinaliser = (*batchFinaliserSrv)(nil)

// NewBatchFinaliser constructs a BatchFinaliser implementation.
func NewBatchFinaliser(sessions port.SessionRepository, finaliser port.UploadFinaliser, broker port.ProgressBroker) port.BatchFinaliser {
	return &batchFinaliserSrv{sessions, finaliser, broker}
}

// FinaliseBatch finalises staged files in sequential waves of at most
// MaxConcurrent concurrent transfers. One failed file never aborts the rest
// unless ContinueOnError is off; the session ends completed, partial or
// failed depending on how many made it through.
func (s *batchFinaliserSrv) FinaliseBatch(ctx context.Context, in port.FinaliseBatchInput) (port.FinaliseBatchOutput, error) {
	if len(in.AssetIDs) == 0 {
		return port.FinaliseBatchOutput{}, ErrEmptyBatch
	}
	maxConcurrent := in.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	var (
		mu     sync.Mutex
		failed model.ItemErrors
		done   int
	)
	total := len(in.AssetIDs)
	topic := progress.SessionTopic(in.SessionID.String())

	record := func(index int, name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if err != nil {
			failed = append(failed, model.ItemError{Index: index, Name: name, Error: err.Error()})
		}
		s.broker.Publish(topic, port.ProgressSnapshot{
			Progress:    done * 100 / total,
			CurrentStep: fmt.Sprintf("uploading %d/%d", done, total),
		})
	}

	for start := 0; start < total; start += maxConcurrent {
		end := start + maxConcurrent
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				asset, err := s.finaliser.FinaliseUpload(ctx, port.FinaliseUploadInput{
					SessionID: in.SessionID,
					AssetID:   in.AssetIDs[index],
				})
				name := in.AssetIDs[index].String()
				if asset != nil {
					name = asset.OriginalFilename
				}
				record(index, name, err)
			}(i)
		}
		wg.Wait()

		if !in.ContinueOnError && len(failed) > 0 {
			break
		}
	}

	sort.Slice(failed, func(i, j int) bool { return failed[i].Index < failed[j].Index })

	out := port.FinaliseBatchOutput{Succeeded: done - len(failed), Failed: failed}
	if err := s.settleSession(ctx, in, out); err != nil {
		log.Printf("failed settling session #%s after batch: %v", in.SessionID, err)
	}
	return out, nil
}

// settleSession records the batch outcome on the session row.
func (s *batchFinaliserSrv) settleSession(ctx context.Context, in port.FinaliseBatchInput, out port.FinaliseBatchOutput) error {
	sess, err := s.sessions.GetByID(ctx, in.SessionID)
	if err != nil {
		return err
	}

	switch {
	case len(out.Failed) == 0:
		sess.Status = model.SessionStatusCompleted
	case out.Succeeded > 0:
		sess.Status = model.SessionStatusPartial
	default:
		sess.Status = model.SessionStatusFailed
	}
	now := time.Now().UTC()
	sess.CompletedAt = &now
	return s.sessions.Update(ctx, sess)
}
