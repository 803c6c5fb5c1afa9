package category

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

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listCategories)
	router.Get("/{id}", handler.getCategory)

	// Moderator only
	router.With(middleware.RequireModerator).Post("/", handler.createCategory)
}

// listCategories returns the tree as roots with nested children. ?flat=true
// switches to a flat list, with ?roots=true limiting it to top-level rows.
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	if request.URL.Query().Get("flat") == "true" {
		filter := Filter{
			RootsOnly: request.URL.Query().Get("roots") == "true",
		}

		categories, err := handler.service.ListCategories(request.Context(), filter)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, categories)
		return
	}

	tree, err := handler.service.ListTree(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tree)
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.GetCategory(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input Category
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateCategory(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}
