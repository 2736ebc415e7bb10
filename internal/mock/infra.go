package mock

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// Cache implements session status caching for tests.
type Cache struct {
	StatusOut []byte

	GetErr error
	DelErr error

	GetCalled bool
	SetCalled bool
	DelCalled bool
}

func (c *Cache) GetSessionStatus(ctx context.Context, id uuid.UUID) ([]byte, error) {
	c.GetCalled = true
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	return c.StatusOut, nil
}

func (c *Cache) SetSessionStatus(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration) {
	c.SetCalled = true
	c.StatusOut = data
}

func (c *Cache) DeleteSessionStatus(ctx context.Context, id uuid.UUID) error {
	c.DelCalled = true
	return c.DelErr
}

// Dispatcher implements task dispatching for tests.
type Dispatcher struct {
	ExtractErr    error
	ThumbnailsErr error

	ExtractCalled    bool
	ThumbnailsCalled bool
	ExtractJobIDs    []uuid.UUID
	ThumbnailJobIDs  []uuid.UUID
}

func (d *Dispatcher) EnqueueExtractArchive(ctx context.Context, jobID uuid.UUID) error {
	d.ExtractCalled = true
	if d.ExtractErr != nil {
		return d.ExtractErr
	}
	d.ExtractJobIDs = append(d.ExtractJobIDs, jobID)
	return nil
}

func (d *Dispatcher) EnqueueGenerateThumbnails(ctx context.Context, jobID uuid.UUID) error {
	d.ThumbnailsCalled = true
	if d.ThumbnailsErr != nil {
		return d.ThumbnailsErr
	}
	d.ThumbnailJobIDs = append(d.ThumbnailJobIDs, jobID)
	return nil
}

// Broker implements progress publishing for tests.
type Broker struct {
	mu        sync.Mutex
	Published map[string][]port.ProgressSnapshot
}

func (b *Broker) Publish(topic string, snap port.ProgressSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Published == nil {
		b.Published = make(map[string][]port.ProgressSnapshot)
	}
	b.Published[topic] = append(b.Published[topic], snap)
}

func (b *Broker) Subscribe(topic string) (<-chan port.ProgressSnapshot, func()) {
	ch := make(chan port.ProgressSnapshot)
	close(ch)
	return ch, func() {}
}

// Snapshots returns the published snapshots for a topic.
func (b *Broker) Snapshots(topic string) []port.ProgressSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Published[topic]
}

// Scanner implements content scanning for tests.
type Scanner struct {
	Result port.ScanResult
	Err    error

	Called bool
	Names  []string
}

func (s *Scanner) Scan(ctx context.Context, name string, r io.Reader) (port.ScanResult, error) {
	s.Called = true
	s.Names = append(s.Names, name)
	if s.Err != nil {
		return port.ScanResult{}, s.Err
	}
	return s.Result, nil
}

// Thumbnailer implements preview rendering for tests.
type Thumbnailer struct {
	RenderOut      []byte
	FrameOut       []byte
	PlaceholderOut []byte

	RenderErr      error
	FrameErr       error
	PlaceholderErr error

	RenderCalled      bool
	FrameCalled       bool
	PlaceholderCalled bool
}

func (t *Thumbnailer) Render(r io.Reader, width, height int) ([]byte, error) {
	t.RenderCalled = true
	if t.RenderErr != nil {
		return nil, t.RenderErr
	}
	return t.RenderOut, nil
}

func (t *Thumbnailer) RenderFrame(img image.Image, width, height int) ([]byte, error) {
	t.FrameCalled = true
	if t.FrameErr != nil {
		return nil, t.FrameErr
	}
	return t.FrameOut, nil
}

func (t *Thumbnailer) Placeholder(width, height int) ([]byte, error) {
	t.PlaceholderCalled = true
	if t.PlaceholderErr != nil {
		return nil, t.PlaceholderErr
	}
	return t.PlaceholderOut, nil
}

func (t *Thumbnailer) Format() string { return "webp" }

// FrameExtractor implements video frame extraction for tests.
type FrameExtractor struct {
	FrameOut image.Image
	Err      error

	Called bool
}

func (f *FrameExtractor) FrameAt(ctx context.Context, r io.Reader, offset time.Duration) (image.Image, error) {
	f.Called = true
	if f.Err != nil {
		return nil, f.Err
	}
	return f.FrameOut, nil
}
