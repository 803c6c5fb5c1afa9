package document

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/constants"
	"github.com/carbongold/documents/internal/platform/middleware"
	requestutil "github.com/carbongold/documents/internal/platform/request"
	"github.com/carbongold/documents/internal/platform/respond"
	"github.com/carbongold/documents/internal/render"
	"github.com/carbongold/documents/pkg/pagination"
)

// multipartMemoryLimit is the in-memory threshold for multipart parsing;
// larger parts spill to temporary files managed by net/http.
const multipartMemoryLimit = 8 << 20

type Handler struct {
	service  *Service
	renderer render.Renderer
}

func NewHandler(service *Service, renderer render.Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// RegisterPortalRoutes mounts the public portal surface at the site root.
func (handler *Handler) RegisterPortalRoutes(router chi.Router) {
	router.Get("/documents", handler.listDocuments)
	router.Get("/documents/page/{page}", handler.listDocuments)
	router.Get("/document/{id}", handler.documentDetail)
	router.Get("/document/download/{id}", handler.downloadDocument)

	router.With(middleware.RequireAuth).Post("/document/save_document", handler.saveDocument)
}

// RegisterRoutes mounts the management surface under /api/v1/documents.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(middleware.RequireModerator).Post("/{id}/publish", handler.publishDocument)
}

func (handler *Handler) listDocuments(writer http.ResponseWriter, request *http.Request) {
	page := 1
	if raw := requestutil.Param(request, "page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	filter := Filter{
		Query:       request.URL.Query().Get("search"),
		CategoryIDs: splitIDs(request.URL.Query().Get("category_ids")),
	}
	viewType := request.URL.Query().Get("view_type")
	if viewType == "" {
		viewType = "grid"
	}

	params := pagination.FromPage(page, constants.DocumentsPerPage)

	documents, total, err := handler.service.ListPublished(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	meta := pagination.NewMeta(params.Page, params.Limit, total)

	handler.renderPage(writer, request, "documents", render.Values{
		"Documents":  documents,
		"Search":     filter.Query,
		"ViewType":   viewType,
		"Page":       meta.Page,
		"TotalPages": meta.TotalPages,
		"PrevPage":   meta.Page - 1,
		"NextPage":   meta.Page + 1,
	})
}

func (handler *Handler) documentDetail(writer http.ResponseWriter, request *http.Request) {
	doc, err := handler.service.ViewDocument(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	values := render.Values{
		"Document":     doc,
		"PreviewToken": doc.PreviewToken(),
		"IsOwner":      false,
	}
	if actor := requestutil.Actor(request); actor != nil {
		values["IsOwner"] = actor.UserID == doc.OwnerID
	}

	handler.renderPage(writer, request, "document", values)
}

func (handler *Handler) downloadDocument(writer http.ResponseWriter, request *http.Request) {
	content, info, doc, err := handler.service.DownloadDocument(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer content.Close()

	filename := doc.ID
	if doc.Filename != nil {
		filename = *doc.Filename
	}

	writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writer.Header().Set("Cache-Control", "no-store")
	writer.Header().Set("Content-Type", info.ContentType)
	writer.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))

	io.Copy(writer, content)
}

// saveDocument accepts the portal's multipart save form. Expected failures
// (missing file, disallowed extension, oversize) answer a transport-level
// success carrying JSON false so the portal script treats them as form
// validation, not a broken request.
func (handler *Handler) saveDocument(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(multipartMemoryLimit); err != nil {
		respond.Legacy(writer, false)
		return
	}

	input := SaveInput{
		Name:        request.FormValue("name"),
		Author:      request.FormValue("author"),
		Description: request.FormValue("description"),
		CategoryIDs: splitIDs(request.FormValue("category_ids")),
		OwnerID:     actor.UserID,
	}

	if file, header, err := request.FormFile("file"); err == nil {
		defer file.Close()
		input.Source = Upload{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Content:  file,
		}
	} else if url := request.FormValue("url"); url != "" {
		input.Source = Link{URL: url}
	}

	if file, header, err := request.FormFile("thumbnail"); err == nil {
		defer file.Close()
		input.Thumbnail = &Upload{
			Filename: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Content:  file,
		}
	}

	if _, err := handler.service.SaveDocument(request.Context(), input); err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus < http.StatusInternalServerError {
			respond.Legacy(writer, false)
			return
		}
		respond.Error(writer, request, err)
		return
	}

	respond.Legacy(writer, true)
}

func (handler *Handler) publishDocument(writer http.ResponseWriter, request *http.Request) {
	doc, err := handler.service.PublishDocument(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, doc)
}

func (handler *Handler) renderPage(writer http.ResponseWriter, request *http.Request, name string, values render.Values) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := handler.renderer.Render(writer, name, values); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
	}
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
