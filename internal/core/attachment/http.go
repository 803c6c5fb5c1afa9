package attachment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/middleware"
	requestutil "github.com/carbongold/documents/internal/platform/request"
	"github.com/carbongold/documents/internal/platform/respond"
)

const multipartMemoryLimit = 8 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPortalRoutes mounts the staging endpoints used by the review form.
func (handler *Handler) RegisterPortalRoutes(router chi.Router) {
	router.With(middleware.RequireAuth).Post("/review/attachment/add", handler.addAttachment)
	router.With(middleware.RequireAuth).Post("/review/attachment/remove", handler.removeAttachment)
}

func (handler *Handler) addAttachment(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(multipartMemoryLimit); err != nil {
		respond.LegacyError(writer, request, apperr.ValidationError("Malformed upload form"))
		return
	}

	file, header, err := request.FormFile("file")
	if err != nil {
		respond.LegacyError(writer, request, apperr.ValidationError("a file is required"))
		return
	}
	defer file.Close()

	attachment, token, err := handler.service.StagePending(request.Context(), StageInput{
		Filename:   header.Filename,
		MimeType:   header.Header.Get("Content-Type"),
		Size:       header.Size,
		Content:    file,
		UploaderID: actor.UserID,
	})
	if err != nil {
		respond.LegacyError(writer, request, err)
		return
	}

	respond.Legacy(writer, map[string]any{
		"id":           attachment.ID,
		"name":         attachment.Filename,
		"mimetype":     attachment.MimeType,
		"file_size":    attachment.SizeBytes,
		"access_token": token,
		"state":        StatePending,
	})
}

type removeRequest struct {
	ID          string `json:"id"`
	AccessToken string `json:"access_token"`
}

func (handler *Handler) removeAttachment(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body removeRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.LegacyError(writer, request, err)
		return
	}

	if err := handler.service.RemovePending(request.Context(), body.ID, body.AccessToken, actor.UserID); err != nil {
		respond.LegacyError(writer, request, err)
		return
	}

	respond.Legacy(writer, true)
}
