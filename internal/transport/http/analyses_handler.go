package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "feiralens/internal/errors"
	"feiralens/internal/storage"
)

// AnalysesHandler exposes the saved-analysis store over REST.
type AnalysesHandler struct {
	store    *storage.AnalysisStore
	pipeline *PipelineHandler
	logger   *slog.Logger
}

// NewAnalysesHandler creates a new saved-analysis handler
func NewAnalysesHandler(store *storage.AnalysisStore, pipeline *PipelineHandler, logger *slog.Logger) *AnalysesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysesHandler{
		store:    store,
		pipeline: pipeline,
		logger:   logger.With(slog.String("component", "analyses_handler")),
	}
}

// Routes returns the saved-analysis routes
func (h *AnalysesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Post("/", h.Save)
	r.Delete("/", h.Clear)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)

	return r
}

// SaveRequest is the payload of POST /api/analyses.
type SaveRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// Bind implements render.Binder
func (req *SaveRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// Save handles POST /api/analyses. It persists the most recent pipeline
// result under the given name.
func (h *AnalysesHandler) Save(w http.ResponseWriter, r *http.Request) {
	req := &SaveRequest{}
	if err := render.Bind(r, req); err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.pipeline.mu.RLock()
	result := h.pipeline.lastResult
	h.pipeline.mu.RUnlock()
	if result == nil {
		render.Render(w, r, apierrors.NotFoundError("pipeline result"))
		return
	}

	record, err := h.store.Put(req.Name, *result)
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, record)
}

// List handles GET /api/analyses
func (h *AnalysesHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List()
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	render.JSON(w, r, records)
}

// Get handles GET /api/analyses/{id}
func (h *AnalysesHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	render.JSON(w, r, record)
}

// Delete handles DELETE /api/analyses/{id}
func (h *AnalysesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(chi.URLParam(r, "id")); err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// Clear handles DELETE /api/analyses
func (h *AnalysesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		h.renderStoreError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *AnalysesHandler) renderStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apierrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apierrors.ErrTypeNotFound:
			render.Render(w, r, apierrors.NotFoundError("analysis"))
			return
		case apierrors.ErrTypeValidation:
			render.Render(w, r, apierrors.NewWithDetails(http.StatusBadRequest,
				"VALIDATION_FAILED", appErr.Message, nil))
			return
		}
	}

	h.logger.ErrorContext(r.Context(), "analysis store failure",
		slog.String("error", err.Error()))
	render.Render(w, r, apierrors.StorageFailure(err))
}
