package mock

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/port"
)

type nopReadSeekCloser struct{ *bytes.Reader }

func (nopReadSeekCloser) Close() error { return nil }

// Storage implements storage operations for tests.
type Storage struct {
	FileContent []byte
	StatOut     port.FileInfo
	ExistsOut   bool
	URLOut      string

	InitBucketErr  error
	DownloadURLErr error
	UploadURLErr   error
	ExistsErr      error
	StatErr        error
	RemoveErr      error
	GetErr         error
	SaveErr        error
	PromoteErr     error

	InitBucketCalled bool
	RemoveCalled     bool
	SaveCalled       bool
	PromoteCalled    bool
	RemovedKeys      []string
	SavedKeys        []string
	SavedContent     map[string][]byte
	PromotedSrc      string
	PromotedDest     string
}

func (m *Storage) InitBucket(bucket string) error {
	m.InitBucketCalled = true
	return m.InitBucketErr
}

func (m *Storage) GeneratePresignedDownloadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	if m.DownloadURLErr != nil {
		return "", m.DownloadURLErr
	}
	return m.URLOut, nil
}

func (m *Storage) GeneratePresignedUploadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	if m.UploadURLErr != nil {
		return "", m.UploadURLErr
	}
	if m.URLOut != "" {
		return m.URLOut, nil
	}
	return "https://storage.test/" + bucket + "/" + fileKey, nil
}

func (m *Storage) FileExists(ctx context.Context, bucket, fileKey string) (bool, error) {
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.ExistsOut, nil
}

func (m *Storage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	if m.StatErr != nil {
		return port.FileInfo{}, m.StatErr
	}
	return m.StatOut, nil
}

func (m *Storage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	m.RemoveCalled = true
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.RemovedKeys = append(m.RemovedKeys, bucket+"/"+fileKey)
	return nil
}

func (m *Storage) GetFile(ctx context.Context, bucket, fileKey string) (io.ReadSeekCloser, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return nopReadSeekCloser{bytes.NewReader(m.FileContent)}, nil
}

func (m *Storage) SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	m.SaveCalled = true
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, _ := io.ReadAll(reader)
	if m.SavedContent == nil {
		m.SavedContent = make(map[string][]byte)
	}
	m.SavedKeys = append(m.SavedKeys, bucket+"/"+fileKey)
	m.SavedContent[bucket+"/"+fileKey] = data
	return nil
}

func (m *Storage) PromoteFile(ctx context.Context, srcBucket, srcKey, destBucket, destKey string) error {
	m.PromoteCalled = true
	if m.PromoteErr != nil {
		return m.PromoteErr
	}
	m.PromotedSrc = srcBucket + "/" + srcKey
	m.PromotedDest = destBucket + "/" + destKey
	return nil
}
