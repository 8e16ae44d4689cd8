package feedback

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JaimeStill/autou/pkg/handlers"
	"github.com/JaimeStill/autou/pkg/pagination"
	"github.com/JaimeStill/autou/pkg/routes"
	"github.com/JaimeStill/autou/pkg/validation"
)

const maxBodySize = 4 << 10

// Handler provides HTTP endpoints for feedback operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	validate   *validator.Validate
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "feedback"),
		validate:   validation.New(),
		pagination: pagination,
	}
}

// Routes returns the route group definition for feedback endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/feedback",
		Tags:    []string{"Feedback"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: listOp},
			{Method: "POST", Pattern: "", Handler: h.Submit, OpenAPI: submitOp},
			{Method: "GET", Pattern: "/{classification_id}", Handler: h.Find, OpenAPI: findOp},
		},
	}
}

// Submit stores a SubmitRequest JSON body and responds 204.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req SubmitRequest
	if status, err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, status, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, validation.Error(err, nil))
		return
	}

	if err := h.sys.Submit(r.Context(), req.Command()); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Find returns the stored feedback for the classification in the path.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("classification_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	f, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, f)
}

// List returns a page of feedback filtered by query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.FromQuery(r.URL.Query(), h.pagination)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
