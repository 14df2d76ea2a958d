// Package http exposes the processing pipeline and the analytics queries over
// a chi-based REST API.
package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"feiralens/internal/analytics"
	apierrors "feiralens/internal/errors"
	"feiralens/internal/files"
	"feiralens/internal/pipeline"
	"feiralens/pkg/contracts/domain"
)

// PipelineHandler runs the processing pipeline on uploaded files and feeds the
// resulting sale collection into the analytics service.
type PipelineHandler struct {
	orchestrator *pipeline.Orchestrator
	analytics    *analytics.Service
	logger       *slog.Logger

	mu         sync.RWMutex
	lastResult *domain.PipelineResult
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(orchestrator *pipeline.Orchestrator, svc *analytics.Service, logger *slog.Logger) *PipelineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineHandler{
		orchestrator: orchestrator,
		analytics:    svc,
		logger:       logger.With(slog.String("component", "pipeline_handler")),
	}
}

// Routes returns the pipeline routes
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/run", h.Run)
	r.Get("/result", h.LastResult)

	return r
}

// UploadedFileRequest is one input file of a pipeline run request.
type UploadedFileRequest struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// RunRequest is the payload of POST /api/pipeline/run.
type RunRequest struct {
	Files []UploadedFileRequest `json:"files" validate:"required,min=1,dive"`
}

// Bind implements render.Binder
func (req *RunRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// Run handles POST /api/pipeline/run
func (h *PipelineHandler) Run(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	req := &RunRequest{}
	if err := render.Bind(r, req); err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	uploads := make([]domain.UploadedFile, 0, len(req.Files))
	for _, f := range req.Files {
		kind, err := files.DetectKind(f.Name)
		if err != nil {
			render.Render(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		uploads = append(uploads, domain.UploadedFile{
			ID:        uuid.NewString(),
			Name:      f.Name,
			Kind:      kind,
			Size:      int64(len(f.Content)),
			Content:   f.Content,
			Timestamp: time.Now(),
		})
	}

	h.logger.InfoContext(r.Context(), "running pipeline",
		slog.String("request_id", reqID),
		slog.Int("files", len(uploads)))

	result := h.orchestrator.Run(r.Context(), uploads)

	h.mu.Lock()
	h.lastResult = &result
	h.mu.Unlock()
	h.analytics.SetSales(result.Sales)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// LastResult handles GET /api/pipeline/result
func (h *PipelineHandler) LastResult(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	result := h.lastResult
	h.mu.RUnlock()

	if result == nil {
		render.Render(w, r, apierrors.NotFoundError("pipeline result"))
		return
	}
	render.JSON(w, r, result)
}
