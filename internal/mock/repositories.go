package mock

import (
	"context"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// SessionRepo implements session repository operations for tests.
type SessionRepo struct {
	SessionRecord *model.UploadSession

	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error

	CreateCalled bool
	UpdateCalled bool
	DeleteCalled bool
	Created      *model.UploadSession
	Updated      *model.UploadSession
}

func (m *SessionRepo) Create(ctx context.Context, session *model.UploadSession) error {
	m.CreateCalled = true
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = session
	return nil
}

func (m *SessionRepo) Update(ctx context.Context, session *model.UploadSession) error {
	m.UpdateCalled = true
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = session
	return nil
}

func (m *SessionRepo) GetByID(ctx context.Context, ID uuid.UUID) (*model.UploadSession, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.SessionRecord, nil
}

func (m *SessionRepo) Delete(ctx context.Context, ID uuid.UUID) error {
	m.DeleteCalled = true
	return m.DeleteErr
}

// SetRepo implements set repository operations for tests.
type SetRepo struct {
	SetRecord *model.CreativeSet
	ListOut   []*model.CreativeSet

	GetErr       error
	GetByNameErr error
	CreateErr    error
	ListErr      error
	IncrementErr error

	CreateCalled    bool
	IncrementCalled bool
	Created         []*model.CreativeSet
	Increments      map[uuid.UUID]int
}

func (m *SetRepo) Create(ctx context.Context, set *model.CreativeSet) error {
	m.CreateCalled = true
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, set)
	return nil
}

func (m *SetRepo) GetByID(ctx context.Context, ID uuid.UUID) (*model.CreativeSet, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.SetRecord, nil
}

func (m *SetRepo) GetBySessionAndName(ctx context.Context, sessionID uuid.UUID, name string) (*model.CreativeSet, error) {
	for _, s := range m.Created {
		if s.Name == name {
			return s, nil
		}
	}
	if m.GetByNameErr != nil {
		return nil, m.GetByNameErr
	}
	return m.SetRecord, nil
}

func (m *SetRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*model.CreativeSet, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

func (m *SetRepo) IncrementAssetCount(ctx context.Context, ID uuid.UUID, delta int) error {
	m.IncrementCalled = true
	if m.IncrementErr != nil {
		return m.IncrementErr
	}
	if m.Increments == nil {
		m.Increments = make(map[uuid.UUID]int)
	}
	m.Increments[ID] += delta
	return nil
}

// AssetRepo implements asset repository operations for tests.
type AssetRepo struct {
	AssetRecord *model.CreativeAsset
	ListOut     []*model.CreativeAsset

	GetErr    error
	CreateErr error
	UpdateErr error
	ListErr   error
	DeleteErr error

	CreateCalled bool
	UpdateCalled bool
	DeleteCalled bool
	Created      []*model.CreativeAsset
	Updated      []*model.CreativeAsset
	DeletedIDs   []uuid.UUID
}

func (m *AssetRepo) Create(ctx context.Context, asset *model.CreativeAsset) error {
	m.CreateCalled = true
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, asset)
	return nil
}

func (m *AssetRepo) Update(ctx context.Context, asset *model.CreativeAsset) error {
	m.UpdateCalled = true
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = append(m.Updated, asset)
	return nil
}

func (m *AssetRepo) GetByID(ctx context.Context, ID uuid.UUID) (*model.CreativeAsset, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.AssetRecord, nil
}

func (m *AssetRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*model.CreativeAsset, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

func (m *AssetRepo) Delete(ctx context.Context, ID uuid.UUID) error {
	m.DeleteCalled = true
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedIDs = append(m.DeletedIDs, ID)
	return nil
}

// FolderRepo implements folder repository operations for tests.
type FolderRepo struct {
	ListOut []*model.FolderNode

	CreateErr error
	ListErr   error

	Created []*model.FolderNode
}

func (m *FolderRepo) Create(ctx context.Context, node *model.FolderNode) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, node)
	return nil
}

func (m *FolderRepo) ListBySet(ctx context.Context, setID uuid.UUID) ([]*model.FolderNode, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

// JobRepo implements job repository operations for tests.
type JobRepo struct {
	JobRecord *model.ProcessingJob
	ListOut   []*model.ProcessingJob

	GetErr    error
	CreateErr error
	UpdateErr error
	ListErr   error

	CreateCalled bool
	UpdateCalled bool
	UpdateCount  int
	Created      *model.ProcessingJob
	Updated      *model.ProcessingJob
}

func (m *JobRepo) Create(ctx context.Context, job *model.ProcessingJob) error {
	m.CreateCalled = true
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = job
	return nil
}

func (m *JobRepo) Update(ctx context.Context, job *model.ProcessingJob) error {
	m.UpdateCalled = true
	m.UpdateCount++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = job
	return nil
}

func (m *JobRepo) GetByID(ctx context.Context, ID uuid.UUID) (*model.ProcessingJob, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.JobRecord, nil
}

func (m *JobRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*model.ProcessingJob, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

// ThumbnailRepo implements thumbnail repository operations for tests.
type ThumbnailRepo struct {
	ThumbnailRecord *model.Thumbnail

	GetErr    error
	CreateErr error

	CreateCalled bool
	Created      []*model.Thumbnail
}

func (m *ThumbnailRepo) Create(ctx context.Context, thumb *model.Thumbnail) error {
	m.CreateCalled = true
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, thumb)
	return nil
}

func (m *ThumbnailRepo) GetByAssetID(ctx context.Context, assetID uuid.UUID) (*model.Thumbnail, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.ThumbnailRecord, nil
}
