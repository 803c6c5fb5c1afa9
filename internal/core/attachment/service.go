package attachment

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/sec"
	"github.com/carbongold/documents/internal/platform/validate"
	"github.com/carbongold/documents/internal/storage"
	"github.com/carbongold/documents/pkg/uuidv7"
)

type Service struct {
	repo     Repository
	blobs    storage.Storage
	logger   *slog.Logger
	maxBytes int64
}

func NewService(repo Repository, blobs storage.Storage, logger *slog.Logger, maxBytes int64) *Service {
	return &Service{
		repo:     repo,
		blobs:    blobs,
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// StageInput is an upload destined for a future review.
type StageInput struct {
	Filename   string
	MimeType   string
	Size       int64
	Content    io.Reader
	UploaderID string
}

// StagePending stores an upload in the pending state and returns it with a
// single-use access token. The caller must echo the token back to remove
// the file; the hash at rest never reveals it.
func (service *Service) StagePending(context context.Context, input StageInput) (*Attachment, string, error) {
	validator := &validate.Validator{}
	if input.Size <= 0 {
		validator.Custom(FieldFile, true, "a file is required")
	}
	if input.Size > service.maxBytes {
		validator.Custom(FieldFile, true, "File too large")
	}
	if deniedExtensions[extensionOf(input.Filename)] {
		validator.Custom(FieldFile, true, "File type not allowed")
	}

	if err := validator.Err(); err != nil {
		return nil, "", err
	}

	token := sec.NewAccessToken()
	tokenHash, err := sec.HashToken(token)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	attachment := &Attachment{
		ID:         uuidv7.New(),
		Filename:   input.Filename,
		MimeType:   input.MimeType,
		SizeBytes:  input.Size,
		UploaderID: input.UploaderID,
		TokenHash:  tokenHash,
		State:      StatePending,
	}
	attachment.StorageKey = fmt.Sprintf("attachments/%s/%s", attachment.ID, input.Filename)

	if _, err := service.blobs.Put(context, attachment.StorageKey, input.Content, storage.PutOptions{
		Size:        input.Size,
		ContentType: input.MimeType,
	}); err != nil {
		return nil, "", apperr.Internal(err)
	}

	if err := service.repo.CreateAttachment(context, attachment); err != nil {
		if deleteErr := service.blobs.Delete(context, attachment.StorageKey); deleteErr != nil {
			service.logger.Warn("attachment_blob_orphaned",
				slog.String("storage_key", attachment.StorageKey),
				slog.Any("error", deleteErr),
			)
		}
		return nil, "", err
	}

	service.logger.Info("attachment_staged",
		slog.String("attachment_id", attachment.ID),
		slog.String("uploader_id", input.UploaderID),
		slog.Int64("size_bytes", input.Size),
	)
	return attachment, token, nil
}

// RemovePending deletes a pending attachment. Only the original uploader,
// presenting the original access token, may remove it; once linked to a
// review the attachment is no longer reachable through this path.
func (service *Service) RemovePending(context context.Context, id, token, requesterID string) error {
	attachment, err := service.repo.GetPending(context, id)
	if err != nil {
		return err
	}

	// A wrong token is indistinguishable from a missing entry.
	if !sec.CheckTokenHash(token, attachment.TokenHash) {
		return apperr.NotFound("Pending attachment")
	}

	if attachment.UploaderID != requesterID {
		return apperr.Forbidden("Only the uploader may remove a pending attachment")
	}

	if err := service.blobs.Delete(context, attachment.StorageKey); err != nil {
		return apperr.Internal(err)
	}

	if err := service.repo.DeletePending(context, id); err != nil {
		return err
	}

	service.logger.Info("attachment_removed",
		slog.String("attachment_id", id),
		slog.String("uploader_id", requesterID),
	)
	return nil
}
