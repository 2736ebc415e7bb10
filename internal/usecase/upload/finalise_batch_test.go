package upload

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/creatives-ms-go/internal/mock"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/progress"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

func assetIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.NewUUID()
	}
	return ids
}

func TestFinaliseBatchAllSucceed(t *testing.T) {
	sessionID := uuid.NewUUID()
	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: sessionID, Status: model.SessionStatusUploading}}
	finaliser := &mock.UploadFinaliser{Out: &model.CreativeAsset{OriginalFilename: "f.jpg"}}
	broker := &mock.Broker{}
	svc := NewBatchFinaliser(sessions, finaliser, broker)

	ids := assetIDs(3)
	out, err := svc.FinaliseBatch(context.Background(), port.FinaliseBatchInput{
		SessionID:       sessionID,
		AssetIDs:        ids,
		ContinueOnError: true,
	})
	if err != nil {
		t.Fatalf("FinaliseBatch: %v", err)
	}
	if out.Succeeded != 3 || len(out.Failed) != 0 {
		t.Errorf("out = %+v, want 3 succeeded", out)
	}
	if len(finaliser.Ins) != 3 {
		t.Errorf("expected 3 finalise calls, got %d", len(finaliser.Ins))
	}

	if sessions.Updated == nil || sessions.Updated.Status != model.SessionStatusCompleted {
		t.Error("session should settle as completed")
	}
	if sessions.Updated.CompletedAt == nil {
		t.Error("settled session should carry a completion time")
	}

	snaps := broker.Snapshots(progress.SessionTopic(sessionID.String()))
	if len(snaps) != 3 {
		t.Fatalf("expected 3 progress snapshots, got %d", len(snaps))
	}
	// the last snapshot always reports full progress
	if snaps[2].Progress != 100 {
		t.Errorf("final snapshot progress = %d, want 100", snaps[2].Progress)
	}
}

func TestFinaliseBatchPartialFailure(t *testing.T) {
	sessionID := uuid.NewUUID()
	ids := assetIDs(4)
	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: sessionID, Status: model.SessionStatusUploading}}
	finaliser := &mock.UploadFinaliser{
		Out:      &model.CreativeAsset{OriginalFilename: "ok.jpg"},
		PerAsset: map[uuid.UUID]error{ids[1]: errors.New("corrupt file")},
	}
	svc := NewBatchFinaliser(sessions, finaliser, &mock.Broker{})

	out, err := svc.FinaliseBatch(context.Background(), port.FinaliseBatchInput{
		SessionID:       sessionID,
		AssetIDs:        ids,
		ContinueOnError: true,
	})
	if err != nil {
		t.Fatalf("one failed file must not abort the batch: %v", err)
	}
	if out.Succeeded != 3 || len(out.Failed) != 1 {
		t.Fatalf("out = %+v, want 3 succeeded / 1 failed", out)
	}
	if out.Failed[0].Index != 1 || out.Failed[0].Error != "corrupt file" {
		t.Errorf("failed item = %+v", out.Failed[0])
	}
	if sessions.Updated.Status != model.SessionStatusPartial {
		t.Errorf("session status = %q, want partial", sessions.Updated.Status)
	}
}

func TestFinaliseBatchAllFail(t *testing.T) {
	sessionID := uuid.NewUUID()
	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: sessionID, Status: model.SessionStatusUploading}}
	finaliser := &mock.UploadFinaliser{Err: errors.New("storage down")}
	svc := NewBatchFinaliser(sessions, finaliser, &mock.Broker{})

	out, err := svc.FinaliseBatch(context.Background(), port.FinaliseBatchInput{
		SessionID:       sessionID,
		AssetIDs:        assetIDs(2),
		ContinueOnError: true,
	})
	if err != nil {
		t.Fatalf("FinaliseBatch: %v", err)
	}
	if out.Succeeded != 0 || len(out.Failed) != 2 {
		t.Fatalf("out = %+v, want 0 succeeded / 2 failed", out)
	}
	if sessions.Updated.Status != model.SessionStatusFailed {
		t.Errorf("session status = %q, want failed", sessions.Updated.Status)
	}
}

func TestFinaliseBatchStopsEarlyWithoutContinueOnError(t *testing.T) {
	sessionID := uuid.NewUUID()
	// more assets than one wave, with a failure in the first wave
	ids := assetIDs(DefaultMaxConcurrent + 5)
	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: sessionID, Status: model.SessionStatusUploading}}
	finaliser := &mock.UploadFinaliser{
		Out:      &model.CreativeAsset{OriginalFilename: "ok.jpg"},
		PerAsset: map[uuid.UUID]error{ids[0]: errors.New("corrupt file")},
	}
	svc := NewBatchFinaliser(sessions, finaliser, &mock.Broker{})

	out, err := svc.FinaliseBatch(context.Background(), port.FinaliseBatchInput{
		SessionID: sessionID,
		AssetIDs:  ids,
	})
	if err != nil {
		t.Fatalf("FinaliseBatch: %v", err)
	}
	if len(finaliser.Ins) != DefaultMaxConcurrent {
		t.Errorf("expected the second wave to be skipped, got %d calls", len(finaliser.Ins))
	}
	if out.Succeeded != DefaultMaxConcurrent-1 || len(out.Failed) != 1 {
		t.Errorf("out = %+v", out)
	}
}

func TestFinaliseBatchFailedItemsAreOrdered(t *testing.T) {
	sessionID := uuid.NewUUID()
	ids := assetIDs(6)
	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: sessionID, Status: model.SessionStatusUploading}}
	finaliser := &mock.UploadFinaliser{
		Out: &model.CreativeAsset{OriginalFilename: "ok.jpg"},
		PerAsset: map[uuid.UUID]error{
			ids[4]: errors.New("late failure"),
			ids[1]: errors.New("early failure"),
		},
	}
	svc := NewBatchFinaliser(sessions, finaliser, &mock.Broker{})

	out, err := svc.FinaliseBatch(context.Background(), port.FinaliseBatchInput{
		SessionID:       sessionID,
		AssetIDs:        ids,
		ContinueOnError: true,
	})
	if err != nil {
		t.Fatalf("FinaliseBatch: %v", err)
	}
	if len(out.Failed) != 2 || out.Failed[0].Index != 1 || out.Failed[1].Index != 4 {
		t.Errorf("failed items should be ordered by index, got %+v", out.Failed)
	}
}

func TestFinaliseBatchEmpty(t *testing.T) {
	svc := NewBatchFinaliser(&mock.SessionRepo{}, &mock.UploadFinaliser{}, &mock.Broker{})
	if _, err := svc.FinaliseBatch(context.Background(), port.FinaliseBatchInput{SessionID: uuid.NewUUID()}); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("got %v, want ErrEmptyBatch", err)
	}
}
