package attachment_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbongold/documents/internal/core/attachment"
	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/dberr"
	"github.com/carbongold/documents/internal/storage"
	"github.com/carbongold/documents/pkg/uuidv7"
)

type fakeRepository struct {
	attachments map[string]*attachment.Attachment
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{attachments: map[string]*attachment.Attachment{}}
}

func (f *fakeRepository) CreateAttachment(_ context.Context, a *attachment.Attachment) error {
	f.attachments[a.ID] = a
	return nil
}

func (f *fakeRepository) GetPending(_ context.Context, id string) (*attachment.Attachment, error) {
	a, ok := f.attachments[id]
	if !ok || a.State != attachment.StatePending {
		return nil, dberr.ErrNotFound
	}
	return a, nil
}

func (f *fakeRepository) DeletePending(_ context.Context, id string) error {
	a, ok := f.attachments[id]
	if !ok || a.State != attachment.StatePending {
		return dberr.ErrNotFound
	}
	delete(f.attachments, id)
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Put(_ context.Context, key string, r io.Reader, _ storage.PutOptions) (storage.ObjectInfo, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	f.objects[key] = content
	return storage.ObjectInfo{Key: key, Size: int64(len(content))}, nil
}

func (f *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	content, ok := f.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(content)), storage.ObjectInfo{Key: key, Size: int64(len(content))}, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

const maxBytes = 5 * 1024 * 1024

func newService(repo *fakeRepository, blobs *fakeStorage) *attachment.Service {
	return attachment.NewService(repo, blobs, slog.Default(), maxBytes)
}

func stage(filename string, size int, uploaderID string) attachment.StageInput {
	return attachment.StageInput{
		Filename:   filename,
		MimeType:   "application/octet-stream",
		Size:       int64(size),
		Content:    bytes.NewReader(make([]byte, size)),
		UploaderID: uploaderID,
	}
}

/*
TestStagePending stores the blob and returns a usable access token.
*/
func TestStagePending(t *testing.T) {
	repo := newFakeRepository()
	blobs := newFakeStorage()
	service := newService(repo, blobs)

	staged, token, err := service.StagePending(context.Background(), stage("evidence.pdf", 128, uuidv7.New()))

	require.NoError(t, err)
	assert.Equal(t, attachment.StatePending, staged.State)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, staged.TokenHash)
	assert.Contains(t, blobs.objects, staged.StorageKey)
}

/*
TestStagePending_Rejections covers the denylist and size cap.
*/
func TestStagePending_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int
	}{
		{"executable", "malware.exe", 100},
		{"batch_script", "script.BAT", 100},
		{"oversize", "big.pdf", maxBytes + 1},
		{"empty", "empty.pdf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newFakeRepository(), newFakeStorage())

			_, _, err := service.StagePending(context.Background(), stage(tt.filename, tt.size, uuidv7.New()))
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestRemovePending covers ownership and token gating, and verifies the blob
is unretrievable after a successful removal.
*/
func TestRemovePending(t *testing.T) {
	repo := newFakeRepository()
	blobs := newFakeStorage()
	service := newService(repo, blobs)

	uploaderID := uuidv7.New()
	staged, token, err := service.StagePending(context.Background(), stage("evidence.pdf", 128, uploaderID))
	require.NoError(t, err)

	t.Run("unknown_id", func(t *testing.T) {
		err := service.RemovePending(context.Background(), uuidv7.New(), token, uploaderID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("wrong_token", func(t *testing.T) {
		err := service.RemovePending(context.Background(), staged.ID, "bogus-token", uploaderID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("wrong_uploader", func(t *testing.T) {
		err := service.RemovePending(context.Background(), staged.ID, token, uuidv7.New())
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, service.RemovePending(context.Background(), staged.ID, token, uploaderID))

		assert.NotContains(t, blobs.objects, staged.StorageKey)
		err := service.RemovePending(context.Background(), staged.ID, token, uploaderID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestRemovePending_Linked closes the staging path once an attachment is
linked to a review.
*/
func TestRemovePending_Linked(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, newFakeStorage())

	uploaderID := uuidv7.New()
	staged, token, err := service.StagePending(context.Background(), stage("evidence.pdf", 128, uploaderID))
	require.NoError(t, err)

	repo.attachments[staged.ID].State = attachment.StateLinked

	err = service.RemovePending(context.Background(), staged.ID, token, uploaderID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
