package classifications

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JaimeStill/autou/pkg/handlers"
	"github.com/JaimeStill/autou/pkg/routes"
	"github.com/JaimeStill/autou/pkg/validation"
)

// Handler provides HTTP endpoints for classification operations.
type Handler struct {
	sys      System
	logger   *slog.Logger
	limits   Limits
	validate *validator.Validate
	messages validation.Messages
}

// NewHandler creates a Handler with the given system, logger, and request limits.
func NewHandler(sys System, logger *slog.Logger, limits Limits) *Handler {
	v, messages := newValidator(limits)
	return &Handler{
		sys:      sys,
		logger:   logger.With("handler", "classifications"),
		limits:   limits,
		validate: v,
		messages: messages,
	}
}

// Routes returns the route group definition for classification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:    []string{"Classification"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/healthz", Handler: h.Health, OpenAPI: healthOp},
			{Method: "POST", Pattern: "/classify", Handler: h.Classify, OpenAPI: classifyOp},
			{Method: "POST", Pattern: "/classify_batch", Handler: h.ClassifyBatch, OpenAPI: classifyBatchOp},
		},
	}
}

// Health reports service status and the deployed model metadata.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	m := h.sys.Model()
	handlers.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		ModelVersion:   m.Version,
		EmbeddingModel: m.EmbeddingModel,
		Threshold:      m.Threshold,
	})
}

// Classify classifies a single email text from a ClassifyRequest JSON body.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody(1))

	var req ClassifyRequest
	if status, err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, status, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, validation.Error(err, h.messages))
		return
	}

	result, err := h.sys.ClassifyOne(r.Context(), strings.TrimSpace(req.Text))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ToResponse(*result))
}

// ClassifyBatch classifies every text of a BatchRequest JSON body in one scorer call.
func (h *Handler) ClassifyBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody(h.limits.MaxBatchItems))

	var req BatchRequest
	if status, err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, status, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, validation.Error(err, h.messages))
		return
	}

	texts := make([]string, len(req.Texts))
	for i, t := range req.Texts {
		texts[i] = strings.TrimSpace(t)
	}

	results, err := h.sys.ClassifyBatch(r.Context(), texts)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	resp := BatchResponse{Results: make([]ClassificationResponse, len(results))}
	for i, res := range results {
		resp.Results[i] = ToResponse(res)
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// maxBody bounds a request carrying n texts: four bytes per rune plus
// room for JSON escaping and framing.
func (h *Handler) maxBody(n int) int64 {
	return int64(n)*int64(h.limits.MaxTextChars*6+16) + 1024
}
