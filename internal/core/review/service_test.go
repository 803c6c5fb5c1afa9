package review_test

import (
	"context"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbongold/documents/internal/core/document"
	"github.com/carbongold/documents/internal/core/review"
	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/dberr"
	"github.com/carbongold/documents/pkg/uuidv7"
)

type fakeRepository struct {
	reviews  map[string]*review.Review
	promoted map[string][]string
	// forceDuplicate simulates the unique index rejecting a concurrent
	// insert that slipped past the pre-check.
	forceDuplicate bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		reviews:  map[string]*review.Review{},
		promoted: map[string][]string{},
	}
}

func (f *fakeRepository) aggregate(documentID string) review.Aggregate {
	sum, count := 0.0, 0
	for _, r := range f.reviews {
		if r.DocumentID == documentID && !r.IsReply && r.IsPublished && r.Rating > 0 {
			sum += r.Rating
			count++
		}
	}
	agg := review.Aggregate{RatingCount: count}
	if count > 0 {
		agg.RatingAvg = sum / float64(count)
	}
	return agg
}

func (f *fakeRepository) CreateReview(_ context.Context, r *review.Review, pendingIDs []string) (review.Aggregate, error) {
	if f.forceDuplicate {
		return review.Aggregate{}, dberr.ErrDuplicate
	}
	f.reviews[r.ID] = r
	if len(pendingIDs) > 0 {
		f.promoted[r.ID] = pendingIDs
	}
	return f.aggregate(r.DocumentID), nil
}

func (f *fakeRepository) CreateReply(_ context.Context, r *review.Review) error {
	if f.forceDuplicate {
		return dberr.ErrDuplicate
	}
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeRepository) GetReview(_ context.Context, id string) (*review.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepository) HasReview(_ context.Context, documentID, reviewerID string) (bool, error) {
	for _, r := range f.reviews {
		if r.DocumentID == documentID && r.ReviewerID == reviewerID && !r.IsReply {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) HasReply(_ context.Context, parentID, reviewerID string) (bool, error) {
	for _, r := range f.reviews {
		if r.IsReply && r.ReplyToID != nil && *r.ReplyToID == parentID && r.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) ListPublished(_ context.Context, documentID string) ([]*review.View, error) {
	var views []*review.View
	for _, r := range f.reviews {
		if r.DocumentID == documentID && !r.IsReply && r.IsPublished {
			views = append(views, &review.View{Review: *r, Replies: []*review.Review{}, Attachments: []review.AttachmentRef{}})
		}
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		}
		return views[i].ID > views[j].ID
	})
	return views, nil
}

func (f *fakeRepository) PublishReview(_ context.Context, id string) (*review.Review, review.Aggregate, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, review.Aggregate{}, dberr.ErrNotFound
	}
	r.IsPublished = true
	return r, f.aggregate(r.DocumentID), nil
}

type fakeDocuments struct {
	docs map[string]*document.Document
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: map[string]*document.Document{}}
}

func (f *fakeDocuments) GetPublished(_ context.Context, id string) (*document.Document, error) {
	d, ok := f.docs[id]
	if !ok || !d.IsPublished {
		return nil, dberr.ErrNotFound
	}
	return d, nil
}

func (f *fakeDocuments) seed(ownerID string, published bool) *document.Document {
	d := &document.Document{ID: uuidv7.New(), OwnerID: ownerID, IsPublished: published}
	f.docs[d.ID] = d
	return d
}

func newService(repo *fakeRepository, docs *fakeDocuments, autoPublish bool) *review.Service {
	return review.NewService(repo, docs, nil, slog.Default(), autoPublish)
}

func submit(documentID, reviewerID string, rating float64) review.SubmitInput {
	return review.SubmitInput{
		DocumentID:   documentID,
		ReviewerID:   reviewerID,
		ReviewerName: "Reviewer",
		Comment:      "Solid methodology",
		Rating:       rating,
	}
}

/*
TestSubmitReview_Success records the review and returns the recomputed aggregate.
*/
func TestSubmitReview_Success(t *testing.T) {
	repo := newFakeRepository()
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), true)
	service := newService(repo, docs, true)

	rev, agg, err := service.SubmitReview(context.Background(), submit(doc.ID, uuidv7.New(), 4))

	require.NoError(t, err)
	assert.False(t, rev.IsReply)
	assert.True(t, rev.IsPublished)
	assert.Equal(t, 4.0, agg.RatingAvg)
	assert.Equal(t, 1, agg.RatingCount)
}

/*
TestSubmitReview_ModerationGate holds new reviews back when auto-publish is off.
*/
func TestSubmitReview_ModerationGate(t *testing.T) {
	repo := newFakeRepository()
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), true)
	service := newService(repo, docs, false)

	rev, agg, err := service.SubmitReview(context.Background(), submit(doc.ID, uuidv7.New(), 5))

	require.NoError(t, err)
	assert.False(t, rev.IsPublished)
	// An unpublished review never counts toward the aggregate.
	assert.Equal(t, 0, agg.RatingCount)
	assert.Equal(t, 0.0, agg.RatingAvg)
}

/*
TestSubmitReview_RatingBounds rejects ratings outside [0,5].
*/
func TestSubmitReview_RatingBounds(t *testing.T) {
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), true)
	service := newService(newFakeRepository(), docs, true)

	for _, rating := range []float64{-1, 5.1} {
		_, _, err := service.SubmitReview(context.Background(), submit(doc.ID, uuidv7.New(), rating))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}
}

/*
TestSubmitReview_EmptyComment rejects a blank comment before anything is stored.
*/
func TestSubmitReview_EmptyComment(t *testing.T) {
	repo := newFakeRepository()
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), true)
	service := newService(repo, docs, true)

	for _, comment := range []string{"", "   "} {
		input := submit(doc.ID, uuidv7.New(), 4)
		input.Comment = comment

		_, _, err := service.SubmitReview(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	}
	assert.Empty(t, repo.reviews)
}

/*
TestSubmitReview_OwnDocument forbids reviewing one's own document.
*/
func TestSubmitReview_OwnDocument(t *testing.T) {
	docs := newFakeDocuments()
	ownerID := uuidv7.New()
	doc := docs.seed(ownerID, true)
	service := newService(newFakeRepository(), docs, true)

	_, _, err := service.SubmitReview(context.Background(), submit(doc.ID, ownerID, 4))

	require.Error(t, err)
	assert.Equal(t, "BUSINESS_RULE", apperr.As(err).Code)
	assert.Equal(t, "You cannot review your own document", apperr.As(err).Message)
}

/*
TestSubmitReview_Duplicate rejects a second review for the same pair, both
via the pre-check and via the storage-layer unique index.
*/
func TestSubmitReview_Duplicate(t *testing.T) {
	repo := newFakeRepository()
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), true)
	service := newService(repo, docs, true)

	reviewerID := uuidv7.New()
	_, _, err := service.SubmitReview(context.Background(), submit(doc.ID, reviewerID, 4))
	require.NoError(t, err)

	_, _, err = service.SubmitReview(context.Background(), submit(doc.ID, reviewerID, 3))
	require.Error(t, err)
	assert.Equal(t, "You have already reviewed this document", apperr.As(err).Message)

	// Same rule violation when only the unique index catches the race.
	repo.forceDuplicate = true
	_, _, err = service.SubmitReview(context.Background(), submit(doc.ID, uuidv7.New(), 4))
	require.Error(t, err)
	assert.Equal(t, "You have already reviewed this document", apperr.As(err).Message)
}

/*
TestSubmitReview_UnpublishedDocument hides unpublished documents entirely.
*/
func TestSubmitReview_UnpublishedDocument(t *testing.T) {
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), false)
	service := newService(newFakeRepository(), docs, true)

	_, _, err := service.SubmitReview(context.Background(), submit(doc.ID, uuidv7.New(), 4))

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestSubmitReview_PromotesAttachments passes the pending ids through to the
transactional create.
*/
func TestSubmitReview_PromotesAttachments(t *testing.T) {
	repo := newFakeRepository()
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), true)
	service := newService(repo, docs, true)

	pending := []string{uuidv7.New(), uuidv7.New()}
	input := submit(doc.ID, uuidv7.New(), 4)
	input.PendingAttachmentIDs = pending

	rev, _, err := service.SubmitReview(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, pending, repo.promoted[rev.ID])
}

/*
TestRatingAggregate matches the documented example: ratings [4,0,5] where
the 0 is unrated give avg 4.5 over 2 reviews.
*/
func TestRatingAggregate(t *testing.T) {
	repo := newFakeRepository()
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), true)
	service := newService(repo, docs, true)

	_, _, err := service.SubmitReview(context.Background(), submit(doc.ID, uuidv7.New(), 4))
	require.NoError(t, err)

	_, agg, err := service.SubmitReview(context.Background(), submit(doc.ID, uuidv7.New(), 0))
	require.NoError(t, err)
	assert.Equal(t, 4.0, agg.RatingAvg)
	assert.Equal(t, 1, agg.RatingCount)

	_, agg, err = service.SubmitReview(context.Background(), submit(doc.ID, uuidv7.New(), 5))
	require.NoError(t, err)
	assert.Equal(t, 4.5, agg.RatingAvg)
	assert.Equal(t, 2, agg.RatingCount)
}

/*
TestPublishReview folds the newly visible rating into the aggregate.
*/
func TestPublishReview(t *testing.T) {
	repo := newFakeRepository()
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), true)
	service := newService(repo, docs, false)

	rev, _, err := service.SubmitReview(context.Background(), submit(doc.ID, uuidv7.New(), 5))
	require.NoError(t, err)

	published, agg, err := service.PublishReview(context.Background(), rev.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.Equal(t, 5.0, agg.RatingAvg)
	assert.Equal(t, 1, agg.RatingCount)
}

func reply(reviewID, replierID string) review.ReplyInput {
	return review.ReplyInput{
		ReviewID:    reviewID,
		ReplierID:   replierID,
		ReplierName: "Replier",
		Comment:     "Thanks for the detail",
	}
}

/*
TestReplyToReview covers the reply invariants.
*/
func TestReplyToReview(t *testing.T) {
	repo := newFakeRepository()
	docs := newFakeDocuments()
	doc := docs.seed(uuidv7.New(), true)
	service := newService(repo, docs, true)

	reviewerID := uuidv7.New()
	parent, _, err := service.SubmitReview(context.Background(), submit(doc.ID, reviewerID, 4))
	require.NoError(t, err)

	t.Run("missing_parent", func(t *testing.T) {
		_, err := service.ReplyToReview(context.Background(), reply(uuidv7.New(), uuidv7.New()))
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("own_review", func(t *testing.T) {
		_, err := service.ReplyToReview(context.Background(), reply(parent.ID, reviewerID))
		require.Error(t, err)
		assert.Equal(t, "You cannot reply to your own review", apperr.As(err).Message)
	})

	t.Run("success_and_duplicate", func(t *testing.T) {
		replierID := uuidv7.New()
		created, err := service.ReplyToReview(context.Background(), reply(parent.ID, replierID))
		require.NoError(t, err)
		assert.True(t, created.IsReply)
		assert.Equal(t, 0.0, created.Rating)

		_, err = service.ReplyToReview(context.Background(), reply(parent.ID, replierID))
		require.Error(t, err)
		assert.Equal(t, "You have already replied to this review", apperr.As(err).Message)
	})

	t.Run("nested_reply", func(t *testing.T) {
		replierID := uuidv7.New()
		created, err := service.ReplyToReview(context.Background(), reply(parent.ID, replierID))
		require.NoError(t, err)

		_, err = service.ReplyToReview(context.Background(), reply(created.ID, uuidv7.New()))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		assert.Equal(t, "Replies may not nest", apperr.As(err).Message)
	})
}

/*
TestListPublished_UnknownDocument returns an empty listing for missing or
unpublished documents rather than an error.
*/
func TestListPublished_UnknownDocument(t *testing.T) {
	docs := newFakeDocuments()
	hidden := docs.seed(uuidv7.New(), false)
	service := newService(newFakeRepository(), docs, true)

	views, err := service.ListPublished(context.Background(), uuidv7.New())
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = service.ListPublished(context.Background(), hidden.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
}
