package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/sec"
	"github.com/carbongold/documents/internal/platform/validate"
	"github.com/carbongold/documents/internal/storage"
	"github.com/carbongold/documents/pkg/slug"
	"github.com/carbongold/documents/pkg/uuidv7"
)

// CategoryResolver expands a category to itself plus its descendants so the
// listing filter matches documents tagged anywhere under the selected node.
type CategoryResolver interface {
	SubtreeIDs(context context.Context, rootID string) ([]string, error)
}

// Policy carries the deployment-tunable upload rules.
type Policy struct {
	MaxUploadBytes int64
	AllowZip       bool
}

type Service struct {
	repo       Repository
	blobs      storage.Storage
	categories CategoryResolver
	logger     *slog.Logger
	policy     Policy
}

func NewService(repo Repository, blobs storage.Storage, categories CategoryResolver, logger *slog.Logger, policy Policy) *Service {
	return &Service{
		repo:       repo,
		blobs:      blobs,
		categories: categories,
		logger:     logger,
		policy:     policy,
	}
}

// SaveInput is the payload of the portal's save operation.
type SaveInput struct {
	Name        string
	Author      string
	Description string
	CategoryIDs []string
	OwnerID     string
	Source      Source
	Thumbnail   *Upload
}

// SaveDocument creates a document from an uploaded binary or an external
// link. New documents start unpublished.
func (service *Service) SaveDocument(context context.Context, input SaveInput) (*Document, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 200)
	validator.MaxLen(FieldAuthor, input.Author, 200)

	for _, categoryID := range input.CategoryIDs {
		validator.UUID(FieldCategoryIDs, categoryID)
	}

	doc := &Document{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Author:      input.Author,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		AccessToken: sec.NewAccessToken(),
		CategoryIDs: input.CategoryIDs,
	}

	switch source := input.Source.(type) {
	case Link:
		validator.Required(FieldURL, source.URL).URL(FieldURL, source.URL)
		doc.Type = TypeURL
		doc.ExternalURL = &source.URL
	case Upload:
		service.validateUpload(validator, source)
		doc.Type = TypeBinary
	default:
		validator.Custom(FieldFile, true, "either a file or a url is required")
	}

	if input.Thumbnail != nil && !thumbnailExtensions[extensionOf(input.Thumbnail.Filename)] {
		validator.Custom(FieldThumbnail, true, "Thumbnail type not allowed")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if upload, ok := input.Source.(Upload); ok {
		key := fmt.Sprintf("documents/%s/%s", doc.ID, upload.Filename)
		info, err := service.blobs.Put(context, key, upload.Content, storage.PutOptions{
			Size:        upload.Size,
			ContentType: upload.MimeType,
		})
		if err != nil {
			return nil, apperr.Internal(err)
		}
		doc.StorageKey = &key
		doc.Filename = &upload.Filename
		doc.MimeType = &upload.MimeType
		doc.SizeBytes = &info.Size
	}

	if input.Thumbnail != nil {
		key := fmt.Sprintf("thumbnails/%s/%s", doc.ID, input.Thumbnail.Filename)
		if _, err := service.blobs.Put(context, key, input.Thumbnail.Content, storage.PutOptions{
			Size:        input.Thumbnail.Size,
			ContentType: input.Thumbnail.MimeType,
		}); err != nil {
			return nil, apperr.Internal(err)
		}
		doc.ThumbnailKey = &key
	}

	if err := service.repo.CreateDocument(context, doc); err != nil {
		// The blob outlives a failed insert; orphans are swept by a
		// bucket lifecycle rule, not by this path.
		return nil, err
	}

	service.logger.Info("document_saved",
		slog.String("document_id", doc.ID),
		slog.String("type", doc.Type),
		slog.String("owner_id", doc.OwnerID),
	)
	return doc, nil
}

func (service *Service) validateUpload(validator *validate.Validator, upload Upload) {
	if upload.Size <= 0 {
		validator.Custom(FieldFile, true, "a file is required")
		return
	}
	if upload.Size > service.policy.MaxUploadBytes {
		validator.Custom(FieldFile, true, "File too large")
	}

	ext := extensionOf(upload.Filename)
	allowed := documentExtensions[ext] || (service.policy.AllowZip && ext == "zip")
	if !allowed {
		validator.Custom(FieldFile, true, "File type not allowed")
	}
}

// ListPublished returns one portal listing page. Category filters expand to
// the full subtree of each requested category.
func (service *Service) ListPublished(context context.Context, filter Filter, limit, offset int) ([]*Document, int, error) {
	if len(filter.CategoryIDs) > 0 {
		expanded := make([]string, 0, len(filter.CategoryIDs))
		for _, categoryID := range filter.CategoryIDs {
			subtree, err := service.categories.SubtreeIDs(context, categoryID)
			if err != nil {
				return nil, 0, err
			}
			expanded = append(expanded, subtree...)
		}
		filter.CategoryIDs = expanded
	}

	return service.repo.ListPublished(context, filter, limit, offset)
}

// ViewDocument loads a published document for the detail page and records
// the click. Unpublished documents are indistinguishable from missing ones.
func (service *Service) ViewDocument(context context.Context, id string) (*Document, error) {
	doc, err := service.repo.GetPublished(context, id)
	if err != nil {
		return nil, err
	}

	clicks, err := service.repo.IncrementClicks(context, id)
	if err != nil {
		return nil, err
	}
	doc.ClickCount = clicks

	return doc, nil
}

// DownloadDocument streams a published document's blob and records the
// download. Documents without stored content (url type) report NotFound.
func (service *Service) DownloadDocument(context context.Context, id string) (io.ReadCloser, storage.ObjectInfo, *Document, error) {
	doc, err := service.repo.GetPublished(context, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, err
	}

	if doc.StorageKey == nil {
		return nil, storage.ObjectInfo{}, nil, apperr.NotFound("Document content")
	}

	content, info, err := service.blobs.Get(context, *doc.StorageKey)
	if err != nil {
		return nil, storage.ObjectInfo{}, nil, apperr.Internal(err)
	}

	downloads, err := service.repo.IncrementDownloads(context, id)
	if err != nil {
		content.Close()
		return nil, storage.ObjectInfo{}, nil, err
	}
	doc.DownloadCount = downloads

	return content, info, doc, nil
}

// PublishDocument makes a document visible on the portal. Idempotent.
func (service *Service) PublishDocument(context context.Context, id string) (*Document, error) {
	if err := service.repo.Publish(context, id); err != nil {
		return nil, err
	}

	doc, err := service.repo.GetDocument(context, id)
	if err != nil {
		return nil, err
	}

	service.logger.Info("document_published", slog.String("document_id", id))
	return doc, nil
}
