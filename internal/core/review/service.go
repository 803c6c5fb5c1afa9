package review

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/carbongold/documents/internal/core/document"
	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/constants"
	"github.com/carbongold/documents/internal/platform/dberr"
	"github.com/carbongold/documents/internal/platform/sec"
	"github.com/carbongold/documents/internal/platform/validate"
	"github.com/carbongold/documents/pkg/uuidv7"
)

const (
	msgAlreadyReviewed = "You have already reviewed this document"
	msgAlreadyReplied  = "You have already replied to this review"
	msgOwnDocument     = "You cannot review your own document"
	msgOwnReview       = "You cannot reply to your own review"
	msgNestedReply     = "Replies may not nest"
)

// DocumentDirectory resolves published documents for ownership and
// visibility checks.
type DocumentDirectory interface {
	GetPublished(context context.Context, id string) (*document.Document, error)
}

type Service struct {
	repo      Repository
	documents DocumentDirectory
	cache     *redis.Client
	logger    *slog.Logger
	// autoPublish makes new reviews visible immediately instead of
	// holding them for moderation.
	autoPublish bool
}

func NewService(repo Repository, documents DocumentDirectory, cache *redis.Client, logger *slog.Logger, autoPublish bool) *Service {
	return &Service{
		repo:        repo,
		documents:   documents,
		cache:       cache,
		logger:      logger,
		autoPublish: autoPublish,
	}
}

// SubmitInput is the payload of the portal's review submission.
type SubmitInput struct {
	DocumentID           string
	ReviewerID           string
	ReviewerName         string
	Comment              string
	Rating               float64
	PendingAttachmentIDs []string
}

// SubmitReview records a rated review against a published document and
// returns it with the freshly recomputed rating aggregate.
func (service *Service) SubmitReview(context context.Context, input SubmitInput) (*Review, Aggregate, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldDocumentID, input.DocumentID)
	validator.FloatRange(FieldRating, input.Rating, RatingMin, RatingMax)
	validator.Required(FieldComment, input.Comment).MaxLen(FieldComment, input.Comment, 4000)

	if err := validator.Err(); err != nil {
		return nil, Aggregate{}, err
	}

	doc, err := service.documents.GetPublished(context, input.DocumentID)
	if err != nil {
		return nil, Aggregate{}, err
	}

	if doc.OwnerID == input.ReviewerID {
		return nil, Aggregate{}, apperr.BusinessRule(msgOwnDocument)
	}

	exists, err := service.repo.HasReview(context, input.DocumentID, input.ReviewerID)
	if err != nil {
		return nil, Aggregate{}, err
	}
	if exists {
		return nil, Aggregate{}, apperr.BusinessRule(msgAlreadyReviewed)
	}

	rev := &Review{
		ID:           uuidv7.New(),
		DocumentID:   input.DocumentID,
		ReviewerID:   input.ReviewerID,
		ReviewerName: input.ReviewerName,
		Comment:      input.Comment,
		Rating:       input.Rating,
		IsPublished:  service.autoPublish,
		AccessToken:  sec.NewAccessToken(),
	}

	agg, err := service.repo.CreateReview(context, rev, input.PendingAttachmentIDs)
	if err != nil {
		// The unique index closes the race the pre-check leaves open;
		// both paths must report the same rule violation.
		if dberr.IsDuplicate(err) {
			return nil, Aggregate{}, apperr.BusinessRule(msgAlreadyReviewed)
		}
		return nil, Aggregate{}, err
	}

	service.invalidateListing(context, input.DocumentID)
	service.logger.Info("review_submitted",
		slog.String("review_id", rev.ID),
		slog.String("document_id", input.DocumentID),
		slog.Float64("rating", input.Rating),
	)
	return rev, agg, nil
}

// ReplyInput is the payload of the portal's reply submission.
type ReplyInput struct {
	ReviewID    string
	ReplierID   string
	ReplierName string
	Comment     string
}

// ReplyToReview adds a reply beneath a non-reply review. Replies carry no
// rating and never touch the aggregate.
func (service *Service) ReplyToReview(context context.Context, input ReplyInput) (*Review, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldReviewID, input.ReviewID)
	validator.Required(FieldComment, input.Comment).MaxLen(FieldComment, input.Comment, 4000)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	parent, err := service.repo.GetReview(context, input.ReviewID)
	if err != nil {
		return nil, err
	}

	if parent.IsReply {
		return nil, apperr.ValidationError(msgNestedReply)
	}
	if parent.ReviewerID == input.ReplierID {
		return nil, apperr.BusinessRule(msgOwnReview)
	}

	exists, err := service.repo.HasReply(context, parent.ID, input.ReplierID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.BusinessRule(msgAlreadyReplied)
	}

	reply := &Review{
		ID:           uuidv7.New(),
		DocumentID:   parent.DocumentID,
		ReviewerID:   input.ReplierID,
		ReviewerName: input.ReplierName,
		Comment:      input.Comment,
		Rating:       0,
		IsReply:      true,
		ReplyToID:    &parent.ID,
		IsPublished:  service.autoPublish,
		AccessToken:  sec.NewAccessToken(),
	}

	if err := service.repo.CreateReply(context, reply); err != nil {
		if dberr.IsDuplicate(err) {
			return nil, apperr.BusinessRule(msgAlreadyReplied)
		}
		return nil, err
	}

	service.invalidateListing(context, parent.DocumentID)
	service.logger.Info("review_reply_created",
		slog.String("reply_id", reply.ID),
		slog.String("review_id", parent.ID),
	)
	return reply, nil
}

// ListPublished returns the published review thread for a document. An
// unknown or unpublished document yields an empty listing, not an error.
func (service *Service) ListPublished(context context.Context, documentID string) ([]*View, error) {
	if _, err := service.documents.GetPublished(context, documentID); err != nil {
		if apperr.IsCode(err, "NOT_FOUND") {
			return []*View{}, nil
		}
		return nil, err
	}

	cacheKey := constants.RedisPrefixReviewList + documentID

	if service.cache != nil {
		cached, err := service.cache.Get(context, cacheKey).Bytes()
		if err == nil {
			var views []*View
			if err := json.Unmarshal(cached, &views); err == nil {
				return views, nil
			}
		}
	}

	views, err := service.repo.ListPublished(context, documentID)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		if payload, err := json.Marshal(views); err == nil {
			if err := service.cache.Set(context, cacheKey, payload, constants.ReviewListCacheTTL).Err(); err != nil {
				service.logger.Warn("review_cache_set_failed", slog.String("document_id", documentID), slog.Any("error", err))
			}
		}
	}

	return views, nil
}

// PublishReview makes a review visible and refreshes the aggregate.
func (service *Service) PublishReview(context context.Context, id string) (*Review, Aggregate, error) {
	rev, agg, err := service.repo.PublishReview(context, id)
	if err != nil {
		return nil, Aggregate{}, err
	}

	service.invalidateListing(context, rev.DocumentID)
	service.logger.Info("review_published",
		slog.String("review_id", rev.ID),
		slog.String("document_id", rev.DocumentID),
	)
	return rev, agg, nil
}

// invalidateListing drops the cached listing. A failed invalidation is only
// logged; the TTL bounds the staleness window.
func (service *Service) invalidateListing(context context.Context, documentID string) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Del(context, constants.RedisPrefixReviewList+documentID).Err(); err != nil {
		service.logger.Warn("review_cache_invalidate_failed",
			slog.String("document_id", documentID),
			slog.Any("error", err),
		)
	}
}
