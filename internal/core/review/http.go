package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carbongold/documents/internal/platform/middleware"
	requestutil "github.com/carbongold/documents/internal/platform/request"
	"github.com/carbongold/documents/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPortalRoutes mounts the portal review endpoints. They keep the
// legacy contract: business failures answer HTTP 200 with {"error": msg}
// so the portal script can surface them inline.
func (handler *Handler) RegisterPortalRoutes(router chi.Router) {
	router.With(middleware.RequireAuth).Post("/document/review/submit", handler.submitReview)
	router.With(middleware.RequireAuth).Post("/document/review/reply", handler.replyToReview)

	// The portal script calls the listing with either verb.
	router.Get("/document/review/list/{document_id}", handler.listReviews)
	router.Post("/document/review/list/{document_id}", handler.listReviews)
}

// RegisterRoutes mounts the moderation surface under /api/v1/reviews.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequireModerator).Post("/{id}/publish", handler.publishReview)
}

type submitRequest struct {
	DocumentID    string   `json:"document_id"`
	Comment       string   `json:"comment"`
	Rating        float64  `json:"rating"`
	AttachmentIDs []string `json:"attachment_ids"`
}

func (handler *Handler) submitReview(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body submitRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.LegacyError(writer, request, err)
		return
	}

	rev, agg, err := handler.service.SubmitReview(request.Context(), SubmitInput{
		DocumentID:           body.DocumentID,
		ReviewerID:           actor.UserID,
		ReviewerName:         actor.Username,
		Comment:              body.Comment,
		Rating:               body.Rating,
		PendingAttachmentIDs: body.AttachmentIDs,
	})
	if err != nil {
		respond.LegacyError(writer, request, err)
		return
	}

	respond.Legacy(writer, map[string]any{
		"success":      true,
		"review_id":    rev.ID,
		"rating_avg":   agg.RatingAvg,
		"rating_count": agg.RatingCount,
	})
}

type replyRequest struct {
	ReviewID string `json:"review_id"`
	Comment  string `json:"comment"`
}

func (handler *Handler) replyToReview(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body replyRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.LegacyError(writer, request, err)
		return
	}

	reply, err := handler.service.ReplyToReview(request.Context(), ReplyInput{
		ReviewID:    body.ReviewID,
		ReplierID:   actor.UserID,
		ReplierName: actor.Username,
		Comment:     body.Comment,
	})
	if err != nil {
		respond.LegacyError(writer, request, err)
		return
	}

	respond.Legacy(writer, map[string]any{
		"success":  true,
		"reply_id": reply.ID,
	})
}

func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	views, err := handler.service.ListPublished(request.Context(), requestutil.Param(request, "document_id"))
	if err != nil {
		respond.LegacyError(writer, request, err)
		return
	}

	// Bare array, no envelope.
	respond.Legacy(writer, views)
}

func (handler *Handler) publishReview(writer http.ResponseWriter, request *http.Request) {
	rev, agg, err := handler.service.PublishReview(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"review":       rev,
		"rating_avg":   agg.RatingAvg,
		"rating_count": agg.RatingCount,
	})
}
